package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := load("", mapLookup(nil))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, developmentJWTSecret, cfg.JWT.Secret)
	assert.True(t, cfg.JWT.Insecure)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.False(t, cfg.Mail.Enable)
	assert.Equal(t, "/uploads", cfg.Upload.URLPrefix)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.yml"), mapLookup(nil))
	require.Error(t, err)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: production
database:
  host: db.internal
  name: church
jwt:
  secret: file-secret-0123456789
  expires_in: 7d
mail:
  host: smtp.example.org
  admin_email: office@example.org
allowed_origins:
  - https://example.org/
rate_limit:
  window: 1m
  max: 20
`)
	cfg, err := load(path, mapLookup(map[string]string{
		"PORT":                    "9090",
		"FRONTEND_URL":            "https://www.example.org",
		"RATE_LIMIT_WINDOW_MS":    "30000",
		"RATE_LIMIT_MAX_REQUESTS": "5",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.ExpiresIn)
	assert.False(t, cfg.JWT.Insecure)
	assert.True(t, cfg.Mail.Enable)
	assert.Equal(t, "office@example.org", cfg.Mail.PrayerTeamEmail)
	assert.Equal(t, []string{"https://example.org", "https://www.example.org"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.Max)
	assert.Contains(t, cfg.DSNValue(), "tcp(db.internal:3306)/church")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "port: 8080\nunknown_key: true\n")
	_, err := load(path, mapLookup(nil))
	require.Error(t, err)
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	_, err := load("", mapLookup(map[string]string{"APP_ENV": "production"}))
	require.Error(t, err)

	_, err = load("", mapLookup(map[string]string{"APP_ENV": "production", "JWT_SECRET": "short"}))
	require.Error(t, err)

	cfg, err := load("", mapLookup(map[string]string{"NODE_ENV": "production", "JWT_SECRET": "a-long-enough-secret"}))
	require.NoError(t, err)
	assert.Equal(t, "a-long-enough-secret", cfg.JWT.Secret)
}

func TestLoadReportsBadEnvValues(t *testing.T) {
	_, err := load("", mapLookup(map[string]string{"PORT": "eighty", "MAX_FILE_SIZE": "big"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "MAX_FILE_SIZE")
}

func TestLoadS3RequiresBucket(t *testing.T) {
	path := writeConfig(t, "upload:\n  s3:\n    enable: true\n")
	_, err := load(path, mapLookup(nil))
	require.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"3600": time.Hour,
		"2d":   48 * time.Hour,
		"90m":  90 * time.Minute,
	}
	for in, want := range cases {
		got, err := parseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseDuration("soon")
	assert.Error(t, err)
}

func TestDatabaseDSNValue(t *testing.T) {
	cfg := defaultAppConfig()
	dsn := cfg.DSNValue()
	assert.Contains(t, dsn, "root@tcp(127.0.0.1:3306)/ministry")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")

	cfg.DSN = "user:pass@tcp(h:1)/x"
	dsn = cfg.DSNValue()
	assert.Contains(t, dsn, "user:pass@tcp(h:1)/x")
	assert.Contains(t, dsn, "clientFoundRows=true")
}
