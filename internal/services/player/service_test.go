package player

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/happygarden/internal/dependencies/mocks"
	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/storage/memory"
	"github.com/mcoot/happygarden/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	ids     *mocks.MockIDGenerator
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.ids = mocks.NewMockIDGenerator()
	s.service = New(s.storage, s.ids, testutil.NopLogger())
	s.ctx = context.Background()
}

// CreatePlayer tests

func (s *ServiceSuite) TestCreatePlayer() {
	s.ids.Queue("player-1")

	p, err := s.service.CreatePlayer(s.ctx, " Alice ")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), p.ID())
	s.Equal("Alice", p.Name())

	stored, err := s.storage.FindPlayerByID(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal("Alice", stored.Name())
}

func (s *ServiceSuite) TestCreatePlayerRejectsDuplicateName() {
	_, err := s.service.CreatePlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	_, err = s.service.CreatePlayer(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrPlayerNameTaken)
	s.ErrorIs(err, model.ErrValidation)

	players, _ := s.service.ListPlayers(s.ctx)
	s.Len(players, 1)
}

func (s *ServiceSuite) TestCreatePlayerRejectsInvalidName() {
	_, err := s.service.CreatePlayer(s.ctx, "")
	s.ErrorIs(err, model.ErrEmptyPlayerName)
}

// GetPlayer tests

func (s *ServiceSuite) TestGetPlayerNotFound() {
	_, err := s.service.GetPlayer(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// ListPlayers tests

func (s *ServiceSuite) TestListPlayers() {
	s.ids.Queue("b", "a")
	_, _ = s.service.CreatePlayer(s.ctx, "Bob")
	_, _ = s.service.CreatePlayer(s.ctx, "Alice")

	players, err := s.service.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal("Alice", players[0].Name())
	s.Equal("Bob", players[1].Name())
}

// UpdatePlayer tests

func (s *ServiceSuite) TestUpdatePlayerRenames() {
	s.ids.Queue("player-1")
	_, _ = s.service.CreatePlayer(s.ctx, "Alice")

	p, err := s.service.UpdatePlayer(s.ctx, "player-1", "Alicia")
	s.Require().NoError(err)
	s.Equal("Alicia", p.Name())

	found, _ := s.storage.FindPlayerByName(s.ctx, "Alicia")
	s.Require().NotNil(found)
}

func (s *ServiceSuite) TestUpdatePlayerKeepingOwnName() {
	s.ids.Queue("player-1")
	_, _ = s.service.CreatePlayer(s.ctx, "Alice")

	_, err := s.service.UpdatePlayer(s.ctx, "player-1", "Alice")
	s.NoError(err)
}

func (s *ServiceSuite) TestUpdatePlayerRejectsTakenName() {
	s.ids.Queue("player-1", "player-2")
	_, _ = s.service.CreatePlayer(s.ctx, "Alice")
	_, _ = s.service.CreatePlayer(s.ctx, "Bob")

	_, err := s.service.UpdatePlayer(s.ctx, "player-2", "Alice")
	s.ErrorIs(err, model.ErrPlayerNameTaken)

	p, _ := s.service.GetPlayer(s.ctx, "player-2")
	s.Equal("Bob", p.Name())
}

func (s *ServiceSuite) TestUpdateMissingPlayer() {
	_, err := s.service.UpdatePlayer(s.ctx, "nobody", "Alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// DeletePlayer tests

func (s *ServiceSuite) TestDeletePlayer() {
	s.ids.Queue("player-1")
	_, _ = s.service.CreatePlayer(s.ctx, "Alice")

	s.Require().NoError(s.service.DeletePlayer(s.ctx, "player-1"))

	_, err := s.service.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestDeleteMissingPlayer() {
	s.ErrorIs(s.service.DeletePlayer(s.ctx, "nobody"), model.ErrPlayerNotFound)
}
