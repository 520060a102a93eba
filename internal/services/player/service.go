package player

import (
	"context"
	"log/slog"

	"github.com/mcoot/happygarden/internal/dependencies/idgen"
	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/storage"
)

// Service implements the player use cases
type Service struct {
	players storage.PlayerRepository
	ids     idgen.Generator
	logger  *slog.Logger
}

// New creates a new player Service
func New(players storage.PlayerRepository, ids idgen.Generator, logger *slog.Logger) *Service {
	return &Service{
		players: players,
		ids:     ids,
		logger:  logger,
	}
}

// CreatePlayer registers a player under a name no other player uses
func (s *Service) CreatePlayer(ctx context.Context, name string) (*model.Player, error) {
	p, err := model.NewPlayer(model.PlayerID(s.ids.NewID()), name)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, p.Name(), ""); err != nil {
		return nil, err
	}

	if err := s.players.SavePlayer(ctx, p); err != nil {
		s.logger.Error("failed to save player",
			slog.String("player_id", string(p.ID())),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("player created",
		slog.String("player_id", string(p.ID())),
		slog.String("name", p.Name()),
	)
	return p, nil
}

// GetPlayer retrieves a player by ID
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	p, err := s.players.FindPlayerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	return p, nil
}

// ListPlayers returns every player ordered by id
func (s *Service) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return s.players.FindAllPlayers(ctx)
}

// UpdatePlayer renames a player
func (s *Service) UpdatePlayer(ctx context.Context, id model.PlayerID, name string) (*model.Player, error) {
	p, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.ChangeName(name); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, p.Name(), id); err != nil {
		return nil, err
	}

	if err := s.players.SavePlayer(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("player renamed",
		slog.String("player_id", string(id)),
		slog.String("name", p.Name()),
	)
	return p, nil
}

// DeletePlayer removes a player. Games keep their copy of the player.
func (s *Service) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	exists, err := s.players.PlayerExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrPlayerNotFound
	}

	if err := s.players.DeletePlayer(ctx, id); err != nil {
		return err
	}

	s.logger.Info("player deleted", slog.String("player_id", string(id)))
	return nil
}

// ensureNameFree fails if a player other than self already uses name
func (s *Service) ensureNameFree(ctx context.Context, name string, self model.PlayerID) error {
	existing, err := s.players.FindPlayerByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID() != self {
		return model.ErrPlayerNameTaken
	}
	return nil
}
