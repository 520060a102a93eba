package storage

import (
	"context"

	"github.com/mcoot/happygarden/internal/model"
)

// PlayerRepository persists players. A missing player is reported as
// (nil, nil), never as an error.
type PlayerRepository interface {
	FindPlayerByID(ctx context.Context, id model.PlayerID) (*model.Player, error)
	FindPlayerByName(ctx context.Context, name string) (*model.Player, error)
	FindAllPlayers(ctx context.Context) ([]*model.Player, error)
	SavePlayer(ctx context.Context, player *model.Player) error
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	PlayerExists(ctx context.Context, id model.PlayerID) (bool, error)
}

// GameRepository persists games. A missing game is reported as (nil, nil).
// Lists are ordered by creation time, then id.
type GameRepository interface {
	FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error)
	FindGamesByCreator(ctx context.Context, creatorID model.PlayerID) ([]*model.Game, error)
	FindGamesByStatus(ctx context.Context, status model.GameStatus) ([]*model.Game, error)

	// FindActiveGamesForPlayer returns waiting or active games the player belongs to
	FindActiveGamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error)

	// FindAvailableGames returns waiting games that still have a free seat
	FindAvailableGames(ctx context.Context) ([]*model.Game, error)

	FindAllGames(ctx context.Context) ([]*model.Game, error)
	SaveGame(ctx context.Context, game *model.Game) error
	DeleteGame(ctx context.Context, id model.GameID) error
	GameExists(ctx context.Context, id model.GameID) (bool, error)
}

// Storage defines the interface for data persistence
type Storage interface {
	PlayerRepository
	GameRepository
}
