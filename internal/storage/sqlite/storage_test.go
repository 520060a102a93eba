package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/storage/sqlite/migrations"
	"github.com/mcoot/happygarden/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	path    string
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "garden.db")
	store, err := Open(s.path)
	s.Require().NoError(err)
	s.storage = store
	s.Reset(s.storage)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) TestOpenRequiresPath() {
	_, err := Open("  ")
	s.Error(err)
}

func (s *StorageSuite) TestDataSurvivesReopen() {
	p, _ := model.NewPlayer("player-1", "Alice")
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, p))
	g, _ := model.NewGame("game-1", "player-1", model.DifficultyMedium, 4, s.Now)
	s.Require().NoError(g.AddPlayer(p, s.Now))
	s.Require().NoError(s.storage.SaveGame(s.Ctx, g))
	s.Require().NoError(s.storage.Close())

	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.storage = reopened

	found, err := reopened.FindGameByID(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(g.Snapshot(), found.Snapshot())

	player, err := reopened.FindPlayerByName(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Require().NotNil(player)
}

func (s *StorageSuite) TestMembershipFollowsLatestSave() {
	alice, _ := model.NewPlayer("alice", "Alice")
	bob, _ := model.NewPlayer("bob", "Bob")
	g, _ := model.NewGame("game-1", "alice", model.DifficultyEasy, 5, s.Now)
	s.Require().NoError(g.AddPlayer(alice, s.Now))
	s.Require().NoError(g.AddPlayer(bob, s.Now))
	s.Require().NoError(s.storage.SaveGame(s.Ctx, g))

	s.Require().NoError(g.RemovePlayer("bob", s.Now))
	s.Require().NoError(s.storage.SaveGame(s.Ctx, g))

	games, err := s.storage.FindActiveGamesForPlayer(s.Ctx, "bob")
	s.Require().NoError(err)
	s.Empty(games)

	games, err = s.storage.FindActiveGamesForPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Len(games, 1)
}

func (s *StorageSuite) TestMigrationsAreIdempotent() {
	s.Require().NoError(applyMigrations(s.Ctx, s.storage.db, migrations.FS))

	var count int
	s.Require().NoError(s.storage.db.QueryRow("SELECT COUNT(*) FROM " + migrationTable).Scan(&count))
	s.Equal(1, count)
}

func TestUpSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id TEXT);\n-- +migrate Down\nDROP TABLE a;\n"
	got := upSection(content)
	if got != "\nCREATE TABLE a (id TEXT);\n" {
		t.Fatalf("upSection = %q", got)
	}
	if upSection("SELECT 1;") != "SELECT 1;" {
		t.Fatal("content without markers should be returned unchanged")
	}
}
