package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/spendlite")
	t.Setenv("JWT_SECRET", "test-secret")
	for _, key := range []string{"PORT", "JWT_ISSUER", "ACCESS_TTL_MINUTES", "REFRESH_TTL_HOURS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, "spendlite-backend", cfg.JWTIssuer)
	assert.Equal(t, 60*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ISSUER", "my-issuer")
	t.Setenv("ACCESS_TTL_MINUTES", "15")
	t.Setenv("REFRESH_TTL_HOURS", "72")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "my-issuer", cfg.JWTIssuer)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 72*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSOrigins)
}

func TestLoadInvalidTTLFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TTL_MINUTES", "not-a-number")
	t.Setenv("REFRESH_TTL_HOURS", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTTL)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/spendlite")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}
