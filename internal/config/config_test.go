package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestExpandEnvWithDefaults(t *testing.T) {
	t.Setenv("NOTES_TEST_HOST", "db.internal")

	assert.Equal(t, "db.internal:5432", expandEnvWithDefaults("${NOTES_TEST_HOST:-localhost}:5432"))
	assert.Equal(t, "fallback", expandEnvWithDefaults("${NOTES_TEST_MISSING:-fallback}"))
	assert.Equal(t, "", expandEnvWithDefaults("${NOTES_TEST_MISSING}"))
	assert.Equal(t, "plain", expandEnvWithDefaults("plain"))
}

func TestInitConfig(t *testing.T) {
	// Arrange
	t.Setenv("NOTES_TEST_HTTP_PORT", "9090")
	t.Setenv("NOTES_TEST_CACHE", "true")

	path := writeConfig(t, `
logger:
  level: debug
  env: dev
server:
  port_http: ${NOTES_TEST_HTTP_PORT:-8080}
  port_grpc: ${NOTES_TEST_GRPC_PORT:-50051}
database:
  driver: postgres
  dsn: ${NOTES_TEST_DSN:-postgres://localhost/notes?sslmode=disable}
  conn_max_lifetime: 1h
cache:
  enabled: ${NOTES_TEST_CACHE:-false}
  ttl: 30s
`)

	// Act
	cfg, err := InitConfig[Config](path)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg.Server)
	require.NotNil(t, cfg.Database)
	require.NotNil(t, cfg.Cache)
	require.NotNil(t, cfg.HTTP)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "dev", cfg.Logger.Env)
	assert.Equal(t, 9090, cfg.Server.PortHTTP)
	assert.Equal(t, 50051, cfg.Server.PortGRPC)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/notes?sslmode=disable", cfg.Database.DSN)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestInitConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "logger:\n  level: warn\n")

	cfg, err := InitConfig[Config](path)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, 8080, cfg.Server.PortHTTP)
	assert.Equal(t, 10*time.Second, cfg.Server.HealthInterval)
	assert.Equal(t, 100, cfg.HTTP.RateLimitRPS)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestInitConfig_MissingFile(t *testing.T) {
	_, err := InitConfig[Config](filepath.Join(t.TempDir(), "nope.yml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "v.ReadInConfig")
}
