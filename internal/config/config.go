// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name below
const EnvPrefix = "HGARDEN_"

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config holds the server's runtime settings
type Config struct {
	Host        string        `env:"HOST"`
	Port        int           `env:"PORT" envDefault:"8080"`
	StorageType string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string        `env:"REDIS_URL"`
	GameTTL     time.Duration `env:"REDIS_GAME_TTL" envDefault:"168h"`
	SQLitePath  string        `env:"SQLITE_PATH" envDefault:"data/hgarden.db"`
	CORSOrigins []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the given dotenv files (".env" when none are named) into the
// process environment and then parses it. A missing default .env is not an
// error; variables already set in the environment win over file values.
func Load(files ...string) (Config, error) {
	optional := len(files) == 0
	if optional {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}
	return Parse()
}

// Parse builds a Config from the process environment and validates it
func Parse() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable together
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid %sPORT %d", EnvPrefix, c.Port)
	}
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%sREDIS_URL required when %sSTORAGE_TYPE=redis", EnvPrefix, EnvPrefix)
		}
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%sSQLITE_PATH required when %sSTORAGE_TYPE=sqlite", EnvPrefix, EnvPrefix)
		}
	default:
		return fmt.Errorf("invalid %sSTORAGE_TYPE %q: must be memory, redis or sqlite", EnvPrefix, c.StorageType)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts LogLevel ("debug", "info", "warn", "error") to a slog.Level
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid %sLOG_LEVEL %q: %w", EnvPrefix, c.LogLevel, err)
	}
	return level, nil
}
