package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "HTTP_PORT", "API_BASE_URL", "API_TIMEOUT", "DATABASE_URL", "POSTGRESQL_HOST",
		"POSTGRESQL_PORT", "POSTGRESQL_PASSWORD", "POSTGRESQL_USER", "POSTGRESQL_DBNAME", "POLL_INTERVAL", "SESSION_TTL", "CORS_ALLOWED_ORIGINS",
		"UPSTREAM_JWT_SECRET", "RATE_LIMIT_LIMIT", "RATE_LIMIT_PERIOD", "CATALOGUE_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("API_BASE_URL", "http://api.local/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://api.local", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.CatalogueCacheTTL)
	assert.False(t, cfg.UseDatabase())
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestLoad_ProductionRequiresOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_BASE_URL", "https://api.campus.pe")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_OriginsAndDatabase(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://api.campus.pe")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("RATE_LIMIT_LIMIT", "5")
	t.Setenv("RATE_LIMIT_PERIOD", "1s")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.pe , ,https://b.pe")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.pe", "https://b.pe"}, cfg.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.True(t, cfg.UseDatabase())
	assert.Equal(t, int64(5), cfg.RateLimitLimit)
}

func TestGetDatabaseURL_FromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_USER", "app")
	t.Setenv("POSTGRESQL_DBNAME", "campus")

	assert.Equal(t, "postgres://app:@db:5432/campus?sslmode=disable", getDatabaseURL())
}
