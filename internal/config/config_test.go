package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "devcamper_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("GEOCODER_PROVIDER", "none")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	require.Equal(t, "devcamper_test", cfg.MongoDB.Database)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 10.0, cfg.RateLimit.RPS)
	require.Equal(t, "none", cfg.Geocoder.Provider)
	require.Equal(t, int64(1000000), cfg.Server.MaxFileUpload)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "5000", cfg.Server.Port)
	require.True(t, cfg.Server.Development())
	require.Equal(t, "", cfg.Redis.Addr())
}

func TestValidate(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: "5000", MaxFileUpload: 1}}
	require.NoError(t, cfg.Validate())

	cfg.RateLimit = RateLimitConfig{Enabled: true, RPS: 0}
	require.Error(t, cfg.Validate())

	cfg = &Config{Server: ServerConfig{Port: "", MaxFileUpload: 1}}
	require.Error(t, cfg.Validate())
}
