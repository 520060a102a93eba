package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.Reset(s.storage)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestPlayerKeysHaveNoTTL() {
	p, _ := model.NewPlayer("player-1", "Alice")
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, p))

	s.Equal(time.Duration(0), s.mini.TTL(playerKey("player-1")))
	s.True(s.mini.Exists(playerNameIndexKey("Alice")))
}

func (s *StorageSuite) TestGameKeyHasTTL() {
	g, _ := model.NewGame("game-1", "alice", model.DifficultyEasy, 5, s.Now)
	s.Require().NoError(s.storage.SaveGame(s.Ctx, g))

	s.Equal(time.Hour, s.mini.TTL(gameKey("game-1")))
}

func (s *StorageSuite) TestExpiredGamesArePrunedFromIndex() {
	g, _ := model.NewGame("game-1", "alice", model.DifficultyEasy, 5, s.Now)
	s.Require().NoError(s.storage.SaveGame(s.Ctx, g))

	s.mini.FastForward(2 * time.Hour)

	found, err := s.storage.FindGameByID(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Nil(found)

	all, err := s.storage.FindAllGames(s.Ctx)
	s.Require().NoError(err)
	s.Empty(all)

	// Redis drops a SET once its last member is removed
	s.False(s.mini.Exists(gamesIndexKey()))
}

func (s *StorageSuite) TestCorruptGameDataIsAnError() {
	s.Require().NoError(s.mini.Set(gameKey("game-1"), "{not json"))

	_, err := s.storage.FindGameByID(s.Ctx, "game-1")
	s.Error(err)
}
