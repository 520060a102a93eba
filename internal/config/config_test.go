package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"HOST", "PORT", "STORAGE_TYPE", "REDIS_URL", "REDIS_GAME_TTL",
	"SQLITE_PATH", "CORS_ORIGINS", "LOG_LEVEL",
}

// clearEnv unsets every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range allVars {
		key := EnvPrefix + name
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestParseDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, 168*time.Hour, cfg.GameTTL)
	assert.Equal(t, "data/hgarden.db", cfg.SQLitePath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestParseOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HGARDEN_PORT", "9090")
	t.Setenv("HGARDEN_STORAGE_TYPE", "Redis")
	t.Setenv("HGARDEN_REDIS_URL", "redis://cache:6379/1")
	t.Setenv("HGARDEN_REDIS_GAME_TTL", "2h")
	t.Setenv("HGARDEN_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("HGARDEN_LOG_LEVEL", "debug")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageRedis, cfg.StorageType)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.GameTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric port", map[string]string{"HGARDEN_PORT": "http"}},
		{"port out of range", map[string]string{"HGARDEN_PORT": "70000"}},
		{"unknown storage", map[string]string{"HGARDEN_STORAGE_TYPE": "postgres"}},
		{"redis without url", map[string]string{"HGARDEN_STORAGE_TYPE": "redis"}},
		{"empty sqlite path", map[string]string{"HGARDEN_STORAGE_TYPE": "sqlite", "HGARDEN_SQLITE_PATH": " "}},
		{"unknown log level", map[string]string{"HGARDEN_LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "HGARDEN_STORAGE_TYPE=sqlite\nHGARDEN_SQLITE_PATH=/tmp/garden.db\nHGARDEN_PORT=7000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("HGARDEN_PORT", "7001")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, cfg.StorageType)
	assert.Equal(t, "/tmp/garden.db", cfg.SQLitePath)
	assert.Equal(t, 7001, cfg.Port, "environment wins over the file")
}

func TestLoadMissingNamedFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadWithoutDefaultFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageType)
}
