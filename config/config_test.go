package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears a variable for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, "GIN_MODE")
	unsetEnv(t, "STORE_DRIVER")
	unsetEnv(t, "CONTACT_RATE_WINDOW_SECONDS")
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("EMAIL_USER", "")
	t.Setenv("EMAIL_PASS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.EmailConfigured())
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 10*time.Minute, cfg.ContactRateWindow())
}

func TestLoadConfigProductionFromGinMode(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("GIN_MODE", "release")
	unsetEnv(t, "STORE_DRIVER")
	unsetEnv(t, "EMAIL_FROM")
	t.Setenv("DATABASE_URL", "postgres://localhost/portfolio")
	t.Setenv("EMAIL_USER", "me@example.com")
	t.Setenv("EMAIL_PASS", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://zainiarf.com/, ,https://www.zainiarf.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.EmailConfigured())
	assert.Equal(t, "me@example.com", cfg.EmailFrom)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, []string{"https://zainiarf.com", "https://www.zainiarf.com"}, cfg.AllowedOrigins)
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("CONTACT_RATE_LIMIT", "lots")
	assert.Equal(t, 5, getEnvInt("CONTACT_RATE_LIMIT", 5))
}

func TestLoadConfigClampsRateLimit(t *testing.T) {
	t.Setenv("CONTACT_RATE_LIMIT", "0")
	t.Setenv("CONTACT_RATE_WINDOW_SECONDS", "-30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, defaultContactRateLimit, cfg.ContactRateLimit)
	assert.Equal(t, defaultContactRateWindowSeconds, cfg.ContactRateWindowSeconds)
	assert.Equal(t, 10*time.Minute, cfg.ContactRateWindow())
}

func TestLoadConfigTrustedProxies(t *testing.T) {
	unsetEnv(t, "TRUSTED_PROXIES")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}
