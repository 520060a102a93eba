package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mcoot/happygarden/internal/dependencies/mocks"
	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/services/board"
	"github.com/mcoot/happygarden/internal/services/rules"
	"github.com/mcoot/happygarden/internal/storage/memory"
	"github.com/mcoot/happygarden/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	ids        *mocks.MockIDGenerator
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	rulesService := rules.New()
	boardService := board.New(s.storage, rulesService)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIDGenerator()
	s.controller = NewController(s.storage, rulesService, boardService, s.clock, s.ids, testutil.NopLogger())
	s.ctx = context.Background()

	s.savePlayer("alice", "Alice", 0)
	s.savePlayer("bob", "Bob", 0)
}

func (s *ControllerSuite) savePlayer(id model.PlayerID, name string, score int) {
	p, err := model.NewPlayer(id, name)
	s.Require().NoError(err)
	s.Require().NoError(p.UpdateScore(score))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, p))
}

func (s *ControllerSuite) pos(x, y int) model.Position {
	p, err := model.NewPosition(x, y)
	s.Require().NoError(err)
	return p
}

// Helper to create a started 3x3 game with alice and bob
func (s *ControllerSuite) startedGame() model.GameID {
	s.ids.Queue("GAME1")
	game, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyEasy, 3)
	s.Require().NoError(err)
	_, err = s.controller.JoinGame(s.ctx, game.ID(), "bob")
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, game.ID())
	s.Require().NoError(err)
	return game.ID()
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameSucceeds() {
	s.ids.Queue("GAME1")

	game, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyMedium, 6)
	s.Require().NoError(err)

	s.Equal(model.GameID("GAME1"), game.ID())
	s.Equal(model.PlayerID("alice"), game.CreatedBy())
	s.Equal(model.GameStatusWaiting, game.Status())
	s.Equal(6, game.GridSize())
	s.Equal(50, game.MaxTurns())
	s.Equal([]model.PlayerID{"alice"}, game.PlayerIDs())
	s.Equal(s.clock.Now(), game.CreatedAt())
}

func (s *ControllerSuite) TestCreateGameIsPersisted() {
	s.ids.Queue("GAME1")
	_, err := s.controller.CreateGame(s.ctx, "alice", "", 0)
	s.Require().NoError(err)

	stored, err := s.controller.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(model.DifficultyEasy, stored.Difficulty())
	s.Equal(model.DefaultGridSize, stored.GridSize())
}

func (s *ControllerSuite) TestCreateGameFailsForUnknownCreator() {
	_, err := s.controller.CreateGame(s.ctx, "nobody", model.DifficultyEasy, 5)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestCreateGameFailsForBadGridSize() {
	_, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyEasy, 11)
	s.ErrorIs(err, model.ErrInvalidGridSize)
}

func (s *ControllerSuite) TestGetGameNotFound() {
	_, err := s.controller.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Joining and leaving

func (s *ControllerSuite) TestJoinGame() {
	s.ids.Queue("GAME1")
	_, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyEasy, 5)
	s.Require().NoError(err)

	game, err := s.controller.JoinGame(s.ctx, "GAME1", "bob")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice", "bob"}, game.PlayerIDs())

	_, err = s.controller.JoinGame(s.ctx, "GAME1", "bob")
	s.ErrorIs(err, model.ErrAlreadyInGame)

	_, err = s.controller.JoinGame(s.ctx, "GAME1", "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestJoinGameFailsWhenFull() {
	s.ids.Queue("GAME1")
	_, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyEasy, 5)
	s.Require().NoError(err)

	for i := 1; i < model.MaxPlayers; i++ {
		id := model.PlayerID(fmt.Sprintf("p%d", i))
		s.savePlayer(id, string(id), 0)
		_, err := s.controller.JoinGame(s.ctx, "GAME1", id)
		s.Require().NoError(err)
	}

	_, err = s.controller.JoinGame(s.ctx, "GAME1", "bob")
	s.ErrorIs(err, model.ErrGameFull)

	available, err := s.controller.ListAvailableGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(available)
}

func (s *ControllerSuite) TestListGames() {
	s.ids.Queue("GAME1", "GAME2")
	_, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyEasy, 5)
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	_, err = s.controller.CreateGame(s.ctx, "bob", model.DifficultyEasy, 5)
	s.Require().NoError(err)

	available, err := s.controller.ListAvailableGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(available, 2)
	s.Equal(model.GameID("GAME1"), available[0].ID())

	mine, err := s.controller.ListPlayerGames(s.ctx, "bob")
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(model.GameID("GAME2"), mine[0].ID())
}

func (s *ControllerSuite) TestLeaveWaitingGame() {
	s.ids.Queue("GAME1")
	_, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyEasy, 5)
	s.Require().NoError(err)

	result, err := s.controller.LeaveGame(s.ctx, "GAME1", "alice")
	s.Require().NoError(err)
	s.Nil(result.Outcome)
	s.Equal(model.GameStatusWaiting, result.Game.Status())
	s.Equal(0, result.Game.PlayerCount())

	_, err = s.controller.LeaveGame(s.ctx, "GAME1", "alice")
	s.ErrorIs(err, model.ErrNotInGame)
}

func (s *ControllerSuite) TestLeavePassesTurn() {
	id := s.startedGame()

	result, err := s.controller.LeaveGame(s.ctx, id, "alice")
	s.Require().NoError(err)

	turn, ok := result.Game.CurrentTurn()
	s.True(ok)
	s.Equal(model.PlayerID("bob"), turn)
	s.Equal(model.GameStatusActive, result.Game.Status())
}

func (s *ControllerSuite) TestLastPlayerLeavingCompletesActiveGame() {
	id := s.startedGame()
	_, err := s.controller.LeaveGame(s.ctx, id, "alice")
	s.Require().NoError(err)

	result, err := s.controller.LeaveGame(s.ctx, id, "bob")
	s.Require().NoError(err)

	s.Equal(model.GameStatusCompleted, result.Game.Status())
	s.Require().NotNil(result.Outcome)
	s.False(result.Outcome.HasWinner)
}

func (s *ControllerSuite) TestLeavingOnLastTurnFinalizesGame() {
	s.ids.Queue("GAME1")
	game, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyEasy, 10)
	s.Require().NoError(err)
	_, err = s.controller.JoinGame(s.ctx, game.ID(), "bob")
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, game.ID())
	s.Require().NoError(err)

	order := []model.PlayerID{"alice", "bob"}
	for i, n := 0, game.MaxTurns()-1; i < n; i++ {
		_, err := s.controller.PlaceItem(s.ctx, game.ID(), order[i%2],
			model.ItemID(fmt.Sprintf("rock_%d", i)), s.pos(i%10, i/10))
		s.Require().NoError(err)
	}

	result, err := s.controller.LeaveGame(s.ctx, game.ID(), "bob")
	s.Require().NoError(err)
	s.Equal(model.GameStatusCompleted, result.Game.Status())
	s.Require().NotNil(result.Outcome)

	stored, err := s.controller.GetGame(s.ctx, game.ID())
	s.Require().NoError(err)
	s.Equal(model.GameStatusCompleted, stored.Status())
	s.Equal(game.MaxTurns(), stored.TurnCount())

	alice, err := s.storage.FindPlayerByID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(result.Outcome.ScorePerPlayer, alice.Score())
}

// StartGame tests

func (s *ControllerSuite) TestStartGame() {
	id := s.startedGame()

	game, err := s.controller.GetGame(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.GameStatusActive, game.Status())
	turn, _ := game.CurrentTurn()
	s.Equal(model.PlayerID("alice"), turn)
	s.Equal(1, game.TurnCount())

	_, err = s.controller.StartGame(s.ctx, id)
	s.ErrorIs(err, model.ErrGameNotWaiting)

	_, err = s.controller.JoinGame(s.ctx, id, "alice")
	s.ErrorIs(err, model.ErrGameNotWaiting)
}

// PlaceItem tests

func (s *ControllerSuite) TestPlaceItemAdvancesTurn() {
	id := s.startedGame()

	result, err := s.controller.PlaceItem(s.ctx, id, "alice", "cat_1", s.pos(1, 1))
	s.Require().NoError(err)
	s.Nil(result.Outcome)

	stored, err := s.controller.GetGame(s.ctx, id)
	s.Require().NoError(err)
	itemID, ok := stored.ItemAt(s.pos(1, 1))
	s.True(ok)
	s.Equal(model.ItemID("cat_1"), itemID)
	turn, _ := stored.CurrentTurn()
	s.Equal(model.PlayerID("bob"), turn)
	s.Equal(2, stored.TurnCount())
}

func (s *ControllerSuite) TestPlaceItemRejectsWrongTurn() {
	id := s.startedGame()

	_, err := s.controller.PlaceItem(s.ctx, id, "bob", "cat_1", s.pos(1, 1))
	s.ErrorIs(err, model.ErrInvalidMove)
	s.ErrorIs(err, model.ErrNotPlayerTurn)
	s.ErrorIs(err, model.ErrValidation)

	stored, err := s.controller.GetGame(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(0, stored.ItemCount())
}

func (s *ControllerSuite) TestPlaceItemRejectsOccupiedCell() {
	id := s.startedGame()
	_, err := s.controller.PlaceItem(s.ctx, id, "alice", "cat_1", s.pos(1, 1))
	s.Require().NoError(err)

	_, err = s.controller.PlaceItem(s.ctx, id, "bob", "cat_1", s.pos(1, 1))
	s.ErrorIs(err, model.ErrPositionOccupied)

	_, err = s.controller.PlaceItem(s.ctx, id, "bob", "lion_1", s.pos(3, 0))
	s.ErrorIs(err, model.ErrOutOfBounds)
}

func (s *ControllerSuite) TestPlaceItemBeforeStart() {
	s.ids.Queue("GAME1")
	_, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyEasy, 5)
	s.Require().NoError(err)

	_, err = s.controller.PlaceItem(s.ctx, "GAME1", "alice", "cat_1", s.pos(1, 1))
	s.ErrorIs(err, model.ErrGameNotActive)
}

func (s *ControllerSuite) TestFillingGridCompletesAndScoresGame() {
	s.ids.Queue("GAME1")
	_, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyEasy, 3)
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, "GAME1")
	s.Require().NoError(err)

	var result *Result
	for i := 0; i < 9; i++ {
		result, err = s.controller.PlaceItem(s.ctx, "GAME1", "alice",
			model.ItemID(fmt.Sprintf("rock_%d", i)), s.pos(i%3, i/3))
		s.Require().NoError(err)
		if i < 8 {
			s.Nil(result.Outcome)
		}
	}

	s.Equal(model.GameStatusCompleted, result.Game.Status())
	s.Require().NotNil(result.Outcome)
	s.True(result.Outcome.HasWinner)
	s.Equal(model.PlayerID("alice"), result.Outcome.Winner)
	s.Equal(result.Outcome.TotalHappiness, result.Outcome.ScorePerPlayer)

	alice, err := s.storage.FindPlayerByID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(result.Outcome.TotalHappiness, alice.Score())

	_, err = s.controller.PlaceItem(s.ctx, "GAME1", "alice", "cat_1", s.pos(0, 0))
	s.ErrorIs(err, model.ErrGameNotActive)
}

// EndGame tests

func (s *ControllerSuite) TestEndGameSplitsHappiness() {
	id := s.startedGame()
	_, err := s.controller.PlaceItem(s.ctx, id, "alice", "cat_1", s.pos(1, 1))
	s.Require().NoError(err)
	_, err = s.controller.PlaceItem(s.ctx, id, "bob", "flower_1", s.pos(1, 0))
	s.Require().NoError(err)

	result, err := s.controller.EndGame(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(model.GameStatusCompleted, result.Game.Status())
	s.Equal(88, result.Outcome.TotalHappiness)
	s.Equal(44, result.Outcome.ScorePerPlayer)
	s.Equal(map[model.PlayerID]int{"alice": 44, "bob": 44}, result.Outcome.Scores)
	s.False(result.Outcome.HasWinner, "equal scores tie")

	for _, p := range result.Game.Players() {
		s.Equal(44, p.Score())
	}
	bob, err := s.storage.FindPlayerByID(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(44, bob.Score())
}

func (s *ControllerSuite) TestEndGameWinnerUsesCumulativeScore() {
	s.savePlayer("alice", "Alice", 10)
	id := s.startedGame()
	_, err := s.controller.PlaceItem(s.ctx, id, "alice", "cat_1", s.pos(1, 1))
	s.Require().NoError(err)

	result, err := s.controller.EndGame(s.ctx, id)
	s.Require().NoError(err)

	s.True(result.Outcome.HasWinner)
	s.Equal(model.PlayerID("alice"), result.Outcome.Winner)
	s.Equal(10+result.Outcome.ScorePerPlayer, result.Outcome.Scores["alice"])
}

func (s *ControllerSuite) TestEndGameWithDeletedPlayer() {
	id := s.startedGame()
	_, err := s.controller.PlaceItem(s.ctx, id, "alice", "cat_1", s.pos(1, 1))
	s.Require().NoError(err)
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "bob"))

	result, err := s.controller.EndGame(s.ctx, id)
	s.Require().NoError(err)

	exists, err := s.storage.PlayerExists(s.ctx, "bob")
	s.Require().NoError(err)
	s.False(exists)
	s.Equal(result.Outcome.ScorePerPlayer, result.Outcome.Scores["bob"])
}

func (s *ControllerSuite) TestEndGameRequiresActive() {
	s.ids.Queue("GAME1")
	_, err := s.controller.CreateGame(s.ctx, "alice", model.DifficultyEasy, 5)
	s.Require().NoError(err)

	_, err = s.controller.EndGame(s.ctx, "GAME1")
	s.ErrorIs(err, model.ErrGameNotActive)

	_, err = s.controller.EndGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// AbandonGame tests

func (s *ControllerSuite) TestAbandonGame() {
	id := s.startedGame()

	game, err := s.controller.AbandonGame(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.GameStatusAbandoned, game.Status())
	_, hasTurn := game.CurrentTurn()
	s.False(hasTurn)

	_, err = s.controller.AbandonGame(s.ctx, id)
	s.ErrorIs(err, model.ErrGameFinished)

	_, err = s.controller.LeaveGame(s.ctx, id, "bob")
	s.ErrorIs(err, model.ErrGameFinished)

	alice, err := s.storage.FindPlayerByID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, alice.Score())
}

// GetBoard tests

func (s *ControllerSuite) TestGetBoard() {
	id := s.startedGame()
	_, err := s.controller.PlaceItem(s.ctx, id, "alice", "cat_1", s.pos(1, 1))
	s.Require().NoError(err)
	_, err = s.controller.PlaceItem(s.ctx, id, "bob", "flower_1", s.pos(1, 0))
	s.Require().NoError(err)

	view, err := s.controller.GetBoard(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.ItemID("cat_1"), view.Board.Get(s.pos(1, 1)))
	s.Equal(88, view.TotalHappiness)
	s.Equal([]model.ItemID{"cat_1"}, view.HappyItems)

	_, err = s.controller.GetBoard(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}
