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

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_NAME", "defaultdb")
	for _, k := range []string{"APP_PORT", "PORT", "DB_PORT", "ACCESS_TOKEN_TTL_MIN", "BCRYPT_COST",
		"LOG_LEVEL", "VEHICLE_WRITES_PUBLIC", "BOOKING_LOG_DIR", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.InsecureJWTSecret)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.False(t, cfg.VehicleWritesPublic)
	assert.Equal(t, "logs", cfg.Events.LogDir)
}

func TestLoadRequiresSecretOutsideDev(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadReportsAllMissingKeys(t *testing.T) {
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "soon")

	_, err := Load()
	require.Error(t, err)
	for _, key := range []string{"DB_USER", "DB_HOST", "DB_NAME", "ACCESS_TOKEN_TTL_MIN"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestLoadParsesLists(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com ,")
	t.Setenv("VEHICLE_WRITES_PUBLIC", "yes")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.VehicleWritesPublic)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.False(t, cfg.InsecureJWTSecret)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CAMPUS_TEST_ONLY_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CAMPUS_TEST_ONLY_KEY") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("CAMPUS_TEST_ONLY_KEY"))
	assert.Error(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestRateLimitNormalize(t *testing.T) {
	c := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 0, TTL: 0}.Normalize()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 1, c.RefillTokens)
	assert.Equal(t, time.Second, c.RefillInterval)
	assert.Equal(t, 5*time.Second, c.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "1m")
	c := LoadCacheConfig()
	assert.True(t, c.Methods["GET"])
	assert.True(t, c.Methods["HEAD"])
	assert.Equal(t, time.Minute, c.TTL)
}

func TestBcryptCostFromEnv(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	assert.Equal(t, 10, BcryptCostFromEnv())
	t.Setenv("BCRYPT_COST", "12")
	assert.Equal(t, 12, BcryptCostFromEnv())
}
