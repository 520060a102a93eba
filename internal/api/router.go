package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/happygarden/internal/api/handler"
	"github.com/mcoot/happygarden/internal/api/middleware"
	"github.com/mcoot/happygarden/internal/api/response"
	"github.com/mcoot/happygarden/internal/services/game"
	"github.com/mcoot/happygarden/internal/services/player"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	PlayerService  *player.Service
	GameController *game.Controller
	AllowedOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	gameHandler := handler.NewGameHandler(cfg.GameController)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Player routes
	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/players/{id}", playerHandler.Delete).Methods(http.MethodDelete)

	// Game routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/join", gameHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/leave", gameHandler.Leave).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/start", gameHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/place-item", gameHandler.PlaceItem).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/end", gameHandler.End).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/abandon", gameHandler.Abandon).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/board", gameHandler.Board).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return middleware.CORS(cfg.AllowedOrigins)(r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
