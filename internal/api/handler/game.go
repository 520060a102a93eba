package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/happygarden/internal/api/request"
	"github.com/mcoot/happygarden/internal/api/response"
	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if req.CreatorID == "" {
		WriteError(w, NewInvalidRequestError("creatorId is required"))
		return
	}

	difficulty := model.Difficulty(req.Difficulty)
	if difficulty != "" && !difficulty.Valid() {
		WriteError(w, NewInvalidRequestError("difficulty must be easy, medium or hard"))
		return
	}

	g, err := h.gameController.CreateGame(r.Context(), model.PlayerID(req.CreatorID), difficulty, req.GridSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.GameFromModel(g))
}

// List handles GET /api/v1/games.
// With ?playerId= it lists that player's open games, otherwise games with a free seat.
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		games []*model.Game
		err   error
	)
	if playerID := r.URL.Query().Get("playerId"); playerID != "" {
		games, err = h.gameController.ListPlayerGames(r.Context(), model.PlayerID(playerID))
	} else {
		games, err = h.gameController.ListAvailableGames(r.Context())
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Join handles POST /api/v1/games/{id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	playerID, ok := readPlayerID(w, r)
	if !ok {
		return
	}

	g, err := h.gameController.JoinGame(r.Context(), gameID(r), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Leave handles POST /api/v1/games/{id}/leave
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	playerID, ok := readPlayerID(w, r)
	if !ok {
		return
	}

	result, err := h.gameController.LeaveGame(r.Context(), gameID(r), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameResultFromModel(result))
}

// Start handles POST /api/v1/games/{id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.StartGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// PlaceItem handles POST /api/v1/games/{id}/place-item
func (h *GameHandler) PlaceItem(w http.ResponseWriter, r *http.Request) {
	var req request.PlaceItemRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("playerId is required"))
		return
	}
	if req.ItemID == "" {
		WriteError(w, NewInvalidRequestError("itemId is required"))
		return
	}

	pos, err := model.NewPosition(req.X, req.Y)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.gameController.PlaceItem(r.Context(), gameID(r),
		model.PlayerID(req.PlayerID), model.ItemID(req.ItemID), pos)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameResultFromModel(result))
}

// End handles POST /api/v1/games/{id}/end
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	result, err := h.gameController.EndGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameResultFromModel(result))
}

// Abandon handles POST /api/v1/games/{id}/abandon
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.AbandonGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Board handles GET /api/v1/games/{id}/board
func (h *GameHandler) Board(w http.ResponseWriter, r *http.Request) {
	view, err := h.gameController.GetBoard(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BoardFromView(view))
}

// readPlayerID decodes a PlayerActionRequest, writing the error response itself on failure
func readPlayerID(w http.ResponseWriter, r *http.Request) (model.PlayerID, bool) {
	var req request.PlayerActionRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return "", false
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("playerId is required"))
		return "", false
	}
	return model.PlayerID(req.PlayerID), true
}
