package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/happygarden/internal/config"
	"github.com/mcoot/happygarden/internal/dependencies/clock"
	"github.com/mcoot/happygarden/internal/dependencies/idgen"
	"github.com/mcoot/happygarden/internal/services/board"
	"github.com/mcoot/happygarden/internal/services/game"
	"github.com/mcoot/happygarden/internal/services/player"
	"github.com/mcoot/happygarden/internal/services/rules"
	"github.com/mcoot/happygarden/internal/storage"
	"github.com/mcoot/happygarden/internal/storage/memory"
	redisstorage "github.com/mcoot/happygarden/internal/storage/redis"
	"github.com/mcoot/happygarden/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   idgen.Generator

	// Services
	Rules          *rules.Service
	BoardService   *board.Service
	PlayerService  *player.Service
	GameController *game.Controller

	closer io.Closer
}

// Close releases the storage backend's connections
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// ConfigFromEnv builds a factory Config from the server's environment settings
func ConfigFromEnv(cfg config.Config, logger *slog.Logger) Config {
	out := Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		SQLitePath:  cfg.SQLitePath,
	}
	if cfg.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.GameTTL = cfg.GameTTL
		out.RedisConfig = &redisCfg
	}
	return out
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var (
		store  storage.Storage
		closer io.Closer
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageMemory
	}

	switch storageType {
	case config.StorageMemory:
		store = memory.New()
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store, closer = redisStore, redisStore
	case config.StorageSQLite:
		sqliteStore, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store, closer = sqliteStore, sqliteStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}

	logger.Info("storage ready", slog.String("type", storageType))

	app := newWithDependencies(store, clock.New(), idgen.New(), logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, ids idgen.Generator, logger *slog.Logger) *App {
	rulesService := rules.New()
	boardService := board.New(store, rulesService)
	playerService := player.New(store, ids, logger)
	gameController := game.NewController(store, rulesService, boardService, clk, ids, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		IDs:            ids,
		Rules:          rulesService,
		BoardService:   boardService,
		PlayerService:  playerService,
		GameController: gameController,
	}
}
