// Package storagetest holds the repository contract shared by every
// storage backend. Backend test suites embed Suite and set Storage in
// their SetupTest.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/storage"
)

type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
	Now     time.Time
}

// Reset must be called from the embedding suite's SetupTest
func (s *Suite) Reset(store storage.Storage) {
	s.Storage = store
	s.Ctx = context.Background()
	s.Now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) newPlayer(id model.PlayerID, name string) *model.Player {
	p, err := model.NewPlayer(id, name)
	s.Require().NoError(err)
	return p
}

func (s *Suite) savePlayer(id model.PlayerID, name string) *model.Player {
	p := s.newPlayer(id, name)
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, p))
	return p
}

// saveGame stores a game created at Now+offset with the given members
func (s *Suite) saveGame(id model.GameID, creator model.PlayerID, offset time.Duration, start bool, members ...*model.Player) *model.Game {
	g, err := model.NewGame(id, creator, model.DifficultyEasy, 5, s.Now.Add(offset))
	s.Require().NoError(err)
	for _, p := range members {
		s.Require().NoError(g.AddPlayer(p, s.Now))
	}
	if start {
		s.Require().NoError(g.Start(s.Now))
	}
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, g))
	return g
}

func gameIDs(games []*model.Game) []model.GameID {
	ids := make([]model.GameID, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID())
	}
	return ids
}

// Player tests

func (s *Suite) TestSaveAndFindPlayer() {
	p := s.newPlayer("player-1", "Alice")
	s.Require().NoError(p.UpdateScore(12))
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, p))

	found, err := s.Storage.FindPlayerByID(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(p.Snapshot(), found.Snapshot())
}

func (s *Suite) TestFindMissingPlayerReturnsNil() {
	found, err := s.Storage.FindPlayerByID(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Nil(found)

	found, err = s.Storage.FindPlayerByName(s.Ctx, "Nobody")
	s.Require().NoError(err)
	s.Nil(found)

	exists, err := s.Storage.PlayerExists(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestFindPlayerByNameFollowsRename() {
	p := s.savePlayer("player-1", "Alice")

	found, err := s.Storage.FindPlayerByName(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(model.PlayerID("player-1"), found.ID())

	s.Require().NoError(p.ChangeName("Alicia"))
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, p))

	found, err = s.Storage.FindPlayerByName(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Nil(found)

	found, err = s.Storage.FindPlayerByName(s.Ctx, "Alicia")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(model.PlayerID("player-1"), found.ID())
}

func (s *Suite) TestFindAllPlayersSortedByID() {
	s.savePlayer("player-b", "Bob")
	s.savePlayer("player-a", "Alice")
	s.savePlayer("player-c", "Carol")

	players, err := s.Storage.FindAllPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(model.PlayerID("player-a"), players[0].ID())
	s.Equal(model.PlayerID("player-b"), players[1].ID())
	s.Equal(model.PlayerID("player-c"), players[2].ID())
}

func (s *Suite) TestFindAllPlayersEmpty() {
	players, err := s.Storage.FindAllPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestDeletePlayer() {
	s.savePlayer("player-1", "Alice")

	exists, err := s.Storage.PlayerExists(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "player-1"))

	exists, err = s.Storage.PlayerExists(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.False(exists)

	found, err := s.Storage.FindPlayerByName(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *Suite) TestDeleteMissingPlayerIsNoop() {
	s.NoError(s.Storage.DeletePlayer(s.Ctx, "nobody"))
}

// Game tests

func (s *Suite) TestSaveAndFindGame() {
	alice := s.newPlayer("alice", "Alice")
	bob := s.newPlayer("bob", "Bob")
	g := s.saveGame("game-1", "alice", 0, true, alice, bob)

	pos, _ := model.NewPosition(2, 3)
	s.Require().NoError(g.PlaceItem("cat_1", pos, "alice", s.Now.Add(time.Minute)))
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, g))

	found, err := s.Storage.FindGameByID(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(g.Snapshot(), found.Snapshot())

	turn, _ := found.CurrentTurn()
	s.Equal(model.PlayerID("bob"), turn)
}

func (s *Suite) TestFindMissingGameReturnsNil() {
	found, err := s.Storage.FindGameByID(s.Ctx, "nope")
	s.Require().NoError(err)
	s.Nil(found)

	exists, err := s.Storage.GameExists(s.Ctx, "nope")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestSavedGameIsNotAliased() {
	alice := s.newPlayer("alice", "Alice")
	g := s.saveGame("game-1", "alice", 0, false, alice)

	bob := s.newPlayer("bob", "Bob")
	s.Require().NoError(g.AddPlayer(bob, s.Now))

	found, err := s.Storage.FindGameByID(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(1, found.PlayerCount())
}

func (s *Suite) TestGameFinders() {
	alice := s.newPlayer("alice", "Alice")
	bob := s.newPlayer("bob", "Bob")

	s.saveGame("game-waiting", "alice", 2*time.Minute, false, alice)
	s.saveGame("game-active", "bob", time.Minute, true, alice, bob)
	s.saveGame("game-bob", "bob", 3*time.Minute, false, bob)

	full := s.saveGame("game-full", "carol", 4*time.Minute, false)
	for i := 0; i < model.MaxPlayers; i++ {
		p := s.newPlayer(model.PlayerID("p"+string(rune('0'+i))), "Player "+string(rune('0'+i)))
		s.Require().NoError(full.AddPlayer(p, s.Now))
	}
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, full))

	done := s.saveGame("game-done", "alice", 5*time.Minute, true, alice)
	s.Require().NoError(done.Complete(s.Now))
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, done))

	all, err := s.Storage.FindAllGames(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]model.GameID{"game-active", "game-waiting", "game-bob", "game-full", "game-done"}, gameIDs(all))

	byCreator, err := s.Storage.FindGamesByCreator(s.Ctx, "bob")
	s.Require().NoError(err)
	s.Equal([]model.GameID{"game-active", "game-bob"}, gameIDs(byCreator))

	waiting, err := s.Storage.FindGamesByStatus(s.Ctx, model.GameStatusWaiting)
	s.Require().NoError(err)
	s.Equal([]model.GameID{"game-waiting", "game-bob", "game-full"}, gameIDs(waiting))

	available, err := s.Storage.FindAvailableGames(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]model.GameID{"game-waiting", "game-bob"}, gameIDs(available))

	forAlice, err := s.Storage.FindActiveGamesForPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]model.GameID{"game-active", "game-waiting"}, gameIDs(forAlice))

	forNobody, err := s.Storage.FindActiveGamesForPlayer(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(forNobody)
}

func (s *Suite) TestDeleteGame() {
	s.saveGame("game-1", "alice", 0, false)

	exists, err := s.Storage.GameExists(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.Storage.DeleteGame(s.Ctx, "game-1"))

	exists, err = s.Storage.GameExists(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.False(exists)

	all, err := s.Storage.FindAllGames(s.Ctx)
	s.Require().NoError(err)
	s.Empty(all)
}
