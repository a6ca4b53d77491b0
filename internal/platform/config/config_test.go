package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetForTest clears name for the duration of the test.
func unsetForTest(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "")
	require.NoError(t, os.Unsetenv(name))
}

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"SERVICE_NAME", "APP_ENV", "HTTP_PORT", "SECRET_KEY", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "CORS_ALLOWED_ORIGINS", "LOG_FORMAT", "AUTO_MIGRATE", "SHUTDOWN_TIMEOUT"} {
		unsetForTest(t, name)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "taskboard", cfg.ServiceName)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, DevSecretKey, cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.AutoMigrate)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	_, err := Load()
	require.Error(t, err)
}

func TestProductionRequiresSecretAndDatabase(t *testing.T) {
	cfg := Config{
		Environment:     "production",
		SecretKey:       DevSecretKey,
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		ShutdownTimeout: time.Second,
		LogFormat:       "json",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
	assert.Contains(t, err.Error(), "DATABASE_URL")

	cfg.SecretKey = "a-real-secret"
	cfg.DatabaseURL = "postgres://localhost/taskboard"
	require.NoError(t, cfg.Validate())
}
