package board

import (
	"context"
	"slices"

	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/services/rules"
	"github.com/mcoot/happygarden/internal/storage"
)

// Service renders games into grid views for display
type Service struct {
	games storage.GameRepository
	rules *rules.Service
}

// New creates a new BoardService
func New(games storage.GameRepository, rules *rules.Service) *Service {
	return &Service{
		games: games,
		rules: rules,
	}
}

// View is everything a client needs to draw a game's grid
type View struct {
	Board          *model.Board
	Happiness      map[model.ItemID]int
	TotalHappiness int
	HappyItems     []model.ItemID // sorted
	Message        string
}

// Render lays out a game's placements on a board
func (s *Service) Render(game *model.Game) *model.Board {
	board := model.NewBoard(game.ID(), game.GridSize())
	for _, placement := range game.Placements() {
		board.Set(placement.Position, placement.ItemID)
	}
	return board
}

// Describe renders a game and scores every placed item
func (s *Service) Describe(game *model.Game) *View {
	happiness := s.rules.ItemHappiness(game.GridSize(), game.ItemPositions())
	total := 0
	for _, h := range happiness {
		total += h
	}

	happySet := s.rules.HappyItems(game)
	happy := make([]model.ItemID, 0, len(happySet))
	for id := range happySet {
		happy = append(happy, id)
	}
	slices.Sort(happy)

	return &View{
		Board:          s.Render(game),
		Happiness:      happiness,
		TotalHappiness: total,
		HappyItems:     happy,
		Message:        rules.HappinessMessage(len(happy)),
	}
}

// GetView loads a game and describes it
func (s *Service) GetView(ctx context.Context, gameID model.GameID) (*View, error) {
	game, err := s.games.FindGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrGameNotFound
	}
	return s.Describe(game), nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Render(game *model.Game) *model.Board
	Describe(game *model.Game) *View
	GetView(ctx context.Context, gameID model.GameID) (*View, error)
}

var _ ServiceInterface = (*Service)(nil)
