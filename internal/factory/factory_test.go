package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/happygarden/internal/config"
	"github.com/mcoot/happygarden/internal/model"
	redisstorage "github.com/mcoot/happygarden/internal/storage/redis"
	"github.com/mcoot/happygarden/internal/testutil"
)

// playShortGame runs a one-move game through the app and returns the winner's score
func playShortGame(t *testing.T, app *App) int {
	t.Helper()
	ctx := context.Background()

	alice, err := app.PlayerService.CreatePlayer(ctx, "Alice")
	require.NoError(t, err)
	g, err := app.GameController.CreateGame(ctx, alice.ID(), model.DifficultyEasy, 3)
	require.NoError(t, err)
	_, err = app.GameController.StartGame(ctx, g.ID())
	require.NoError(t, err)

	center, _ := model.NewPosition(1, 1)
	_, err = app.GameController.PlaceItem(ctx, g.ID(), alice.ID(), "cat_1", center)
	require.NoError(t, err)

	result, err := app.GameController.EndGame(ctx, g.ID())
	require.NoError(t, err)
	require.True(t, result.Outcome.HasWinner)
	assert.Equal(t, alice.ID(), result.Outcome.Winner)

	stored, err := app.PlayerService.GetPlayer(ctx, alice.ID())
	require.NoError(t, err)
	return stored.Score()
}

func TestNewMemory(t *testing.T) {
	app, err := New(Config{Logger: testutil.NopLogger()})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Equal(t, 50, playShortGame(t, app))
}

func TestNewSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.db")
	app, err := New(Config{StorageType: config.StorageSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Equal(t, 50, playShortGame(t, app))
}

func TestNewRedis(t *testing.T) {
	mini := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mini.Addr()

	app, err := New(Config{StorageType: config.StorageRedis, RedisConfig: &redisCfg})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Equal(t, 50, playShortGame(t, app))
}

func TestNewRejectsBadStorage(t *testing.T) {
	_, err := New(Config{StorageType: "postgres"})
	assert.Error(t, err)

	_, err = New(Config{StorageType: config.StorageRedis})
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	cfg := ConfigFromEnv(config.Config{
		StorageType: config.StorageRedis,
		RedisURL:    "redis://cache:6379",
		GameTTL:     time.Hour,
	}, nil)

	require.NotNil(t, cfg.RedisConfig)
	assert.Equal(t, "redis://cache:6379", cfg.RedisConfig.URL)
	assert.Equal(t, time.Hour, cfg.RedisConfig.GameTTL)

	cfg = ConfigFromEnv(config.Config{StorageType: config.StorageSQLite, SQLitePath: "x.db"}, nil)
	assert.Nil(t, cfg.RedisConfig)
	assert.Equal(t, "x.db", cfg.SQLitePath)
}
