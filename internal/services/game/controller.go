package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/happygarden/internal/dependencies/clock"
	"github.com/mcoot/happygarden/internal/dependencies/idgen"
	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/services/board"
	"github.com/mcoot/happygarden/internal/services/rules"
	"github.com/mcoot/happygarden/internal/storage"
)

// Controller manages the game lifecycle and turn flow
type Controller struct {
	storage      storage.Storage
	rules        *rules.Service
	boardService *board.Service
	clock        clock.Clock
	ids          idgen.Generator
	logger       *slog.Logger
}

// NewController creates a new GameController
func NewController(
	storage storage.Storage,
	rules *rules.Service,
	boardService *board.Service,
	clock clock.Clock,
	ids idgen.Generator,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:      storage,
		rules:        rules,
		boardService: boardService,
		clock:        clock,
		ids:          ids,
		logger:       logger,
	}
}

// Outcome is the scoring of a finished game
type Outcome struct {
	TotalHappiness int
	ScorePerPlayer int
	// Scores holds every member's cumulative score after the award
	Scores    map[model.PlayerID]int
	Winner    model.PlayerID
	HasWinner bool
}

// Result is returned by operations that may finish a game.
// Outcome is nil unless the game completed during the call.
type Result struct {
	Game    *model.Game
	Outcome *Outcome
}

// CreateGame opens a waiting game with the creator as its first player
func (c *Controller) CreateGame(ctx context.Context, creatorID model.PlayerID, difficulty model.Difficulty, gridSize int) (*model.Game, error) {
	creator, err := c.loadPlayer(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game, err := model.NewGame(model.GameID(c.ids.NewID()), creatorID, difficulty, gridSize, now)
	if err != nil {
		return nil, err
	}
	if err := game.AddPlayer(creator, now); err != nil {
		return nil, err
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID())),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID())),
		slog.String("created_by", string(creatorID)),
		slog.String("difficulty", string(game.Difficulty())),
		slog.Int("grid_size", game.GridSize()),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, err := c.storage.FindGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

// ListAvailableGames returns waiting games with a free seat
func (c *Controller) ListAvailableGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.FindAvailableGames(ctx)
}

// ListPlayerGames returns the waiting or active games a player belongs to
func (c *Controller) ListPlayerGames(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return c.storage.FindActiveGamesForPlayer(ctx, playerID)
}

// JoinGame seats a player in a waiting game
func (c *Controller) JoinGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	player, err := c.loadPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err := game.AddPlayer(player, c.clock.Now()); err != nil {
		return nil, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("player joined game",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.Int("player_count", game.PlayerCount()),
	)
	return game, nil
}

// LeaveGame removes a player. An active game left without players is completed.
func (c *Controller) LeaveGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*Result, error) {
	game, err := c.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	if err := game.RemovePlayer(playerID, now); err != nil {
		return nil, err
	}

	c.logger.Info("player left game",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.Int("player_count", game.PlayerCount()),
	)

	if c.rules.ShouldGameEnd(game) {
		if err := game.Complete(now); err != nil {
			return nil, err
		}
	}
	// Leaving on the last turn completes the game inside RemovePlayer
	if game.Status() == model.GameStatusCompleted {
		return c.finalize(ctx, game)
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return &Result{Game: game}, nil
}

// StartGame moves a waiting game to active and hands the first turn out
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, err := c.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err := game.Start(c.clock.Now()); err != nil {
		return nil, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	turn, _ := game.CurrentTurn()
	c.logger.Info("game started",
		slog.String("game_id", string(gameID)),
		slog.String("current_turn", string(turn)),
		slog.Int("max_turns", game.MaxTurns()),
	)
	return game, nil
}

// PlaceItem places an item for the player whose turn it is.
// The game is scored when the move ends it.
func (c *Controller) PlaceItem(ctx context.Context, gameID model.GameID, playerID model.PlayerID, itemID model.ItemID, pos model.Position) (*Result, error) {
	game, err := c.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err := c.rules.CheckMove(game, playerID, pos); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidMove, err)
	}

	now := c.clock.Now()
	if err := game.PlaceItem(itemID, pos, playerID, now); err != nil {
		return nil, err
	}

	c.logger.Debug("item placed",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.String("item_id", string(itemID)),
		slog.Int("x", pos.X()),
		slog.Int("y", pos.Y()),
		slog.Int("turn_count", game.TurnCount()),
	)

	if c.rules.ShouldGameEnd(game) {
		if err := game.Complete(now); err != nil {
			return nil, err
		}
	}
	if game.Status() == model.GameStatusCompleted {
		return c.finalize(ctx, game)
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return &Result{Game: game}, nil
}

// EndGame completes an active game and scores it
func (c *Controller) EndGame(ctx context.Context, gameID model.GameID) (*Result, error) {
	game, err := c.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err := game.Complete(c.clock.Now()); err != nil {
		return nil, err
	}
	return c.finalize(ctx, game)
}

// AbandonGame ends a game without scoring it
func (c *Controller) AbandonGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, err := c.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err := game.Abandon(c.clock.Now()); err != nil {
		return nil, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game abandoned",
		slog.String("game_id", string(gameID)),
		slog.Int("turn_count", game.TurnCount()),
	)
	return game, nil
}

// GetBoard returns the rendered grid and happiness of a game
func (c *Controller) GetBoard(ctx context.Context, gameID model.GameID) (*board.View, error) {
	return c.boardService.GetView(ctx, gameID)
}

// finalize splits the game's total happiness evenly among its players,
// saves their new scores and the completed game, and picks a winner.
// A player deleted since joining is scored on the game's copy only.
func (c *Controller) finalize(ctx context.Context, game *model.Game) (*Result, error) {
	total := c.rules.CalculateHappinessScore(game, game.ItemPositions())
	members := game.Players()

	perPlayer := 0
	if len(members) > 0 {
		perPlayer = total / len(members)
	}

	scores := make(map[model.PlayerID]int, len(members))
	for _, member := range members {
		stored, err := c.storage.FindPlayerByID(ctx, member.ID())
		if err != nil {
			return nil, err
		}

		p := member
		if stored != nil {
			p = stored
		}
		if err := p.UpdateScore(perPlayer); err != nil {
			return nil, err
		}
		if stored != nil {
			if err := c.storage.SavePlayer(ctx, p); err != nil {
				c.logger.Error("failed to save player score",
					slog.String("game_id", string(game.ID())),
					slog.String("player_id", string(p.ID())),
					slog.String("error", err.Error()),
				)
				return nil, err
			}
		}
		game.SyncPlayer(p)
		scores[p.ID()] = p.Score()
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	outcome := &Outcome{
		TotalHappiness: total,
		ScorePerPlayer: perPlayer,
		Scores:         scores,
	}
	outcome.Winner, outcome.HasWinner = c.rules.DetermineWinner(scores)

	c.logger.Info("game completed",
		slog.String("game_id", string(game.ID())),
		slog.Int("total_happiness", total),
		slog.Int("score_per_player", perPlayer),
		slog.String("winner", string(outcome.Winner)),
	)

	return &Result{Game: game, Outcome: outcome}, nil
}

func (c *Controller) loadPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	p, err := c.storage.FindPlayerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	return p, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, creatorID model.PlayerID, difficulty model.Difficulty, gridSize int) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	ListAvailableGames(ctx context.Context) ([]*model.Game, error)
	ListPlayerGames(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error)
	JoinGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	LeaveGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*Result, error)
	StartGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	PlaceItem(ctx context.Context, gameID model.GameID, playerID model.PlayerID, itemID model.ItemID, pos model.Position) (*Result, error)
	EndGame(ctx context.Context, gameID model.GameID) (*Result, error)
	AbandonGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GetBoard(ctx context.Context, gameID model.GameID) (*board.View, error)
}

var _ ControllerInterface = (*Controller)(nil)
