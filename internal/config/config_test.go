package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "CONFIG_FILE", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "AUTH_COOKIE_DOMAIN",
		"AUTH_COOKIE_SECURE", "SERVER_ADDR", "LOGIN_MAX_ATTEMPTS", "LOG_FORMAT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5501", cfg.Server.Addr)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 365*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, "localhost", cfg.Auth.CookieDomain)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 5, cfg.Redis.MaxLoginAttempts)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t, "CONFIG_FILE")
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("AUTH_COOKIE_SECURE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "access", cfg.Auth.AccessSecret)
	assert.Equal(t, "refresh", cfg.Auth.RefreshSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadInvalidEnv(t *testing.T) {
	clearEnv(t, "CONFIG_FILE")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_TTL")
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  addr: ":9000"
auth:
  access_secret: from-file
  refresh_ttl: 48h
  cookie_domain: example.test
logging:
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	clearEnv(t, "SERVER_ADDR", "REFRESH_TOKEN_TTL", "AUTH_COOKIE_DOMAIN", "LOG_FORMAT")
	t.Setenv("ACCESS_TOKEN_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "from-env", cfg.Auth.AccessSecret)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, "example.test", cfg.Auth.CookieDomain)
	assert.Equal(t, "text", cfg.Logging.Format)
	// untouched by the file
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
}

func TestLoadMissingYAMLFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}
