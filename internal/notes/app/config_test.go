package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "config-test-jwt-secret-0123456789abcdef"
	testFieldKey = "config-test-field-key-0123456789abcdef"
)

// clearEnv blanks every variable LoadConfig reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NOTES_JWT_SECRET", "NOTES_JWT_SECRET_FILE", "NOTES_FIELD_KEY", "NOTES_FIELD_KEY_FILE",
		"NOTES_DATABASE_FILE", "NOTES_REDIS_URL", "ENV", "LOG_LEVEL", "LOG_FORMAT", "PORT",
		"SHUTDOWN_GRACE_PERIOD", "ACCESS_TOKEN_TTL", "SESSION_IDLE_TIMEOUT", "REVOCATION_SWEEP_INTERVAL",
		"LOGIN_THROTTLE_MAX", "LOGIN_THROTTLE_WINDOW", "LOGIN_THROTTLE_MAX_TRACKED", "TRUST_PROXY_HEADERS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTES_JWT_SECRET", testSecret)
	t.Setenv("NOTES_FIELD_KEY", testFieldKey)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, []byte(testSecret), cfg.JWTSecret)
	require.Equal(t, "notes.db", cfg.DatabaseFile)
	require.Empty(t, cfg.RedisURL)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 5000, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 15*time.Minute, cfg.SessionIdleTimeout)
	require.Equal(t, 10*time.Minute, cfg.RevocationSweepInterval)
	require.Equal(t, 5, cfg.LoginThrottleMax)
	require.Equal(t, 15*time.Minute, cfg.LoginThrottleWindow)
	require.Equal(t, 10000, cfg.LoginThrottleMaxTracked)
	require.False(t, cfg.TrustProxyHeaders)
	require.False(t, cfg.SecureCookies())
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTES_JWT_SECRET", testSecret)
	t.Setenv("NOTES_FIELD_KEY", testFieldKey)
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "8081")
	t.Setenv("SESSION_IDLE_TIMEOUT", "30")
	t.Setenv("LOGIN_THROTTLE_WINDOW", "5m")
	t.Setenv("LOGIN_THROTTLE_MAX", "not-a-number")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 8081, cfg.Port)
	require.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	require.Equal(t, 5*time.Minute, cfg.LoginThrottleWindow)
	require.Equal(t, 5, cfg.LoginThrottleMax)
	require.True(t, cfg.TrustProxyHeaders)
	require.True(t, cfg.SecureCookies())
}

func TestLoadConfigSecretsFromFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	secretPath := filepath.Join(dir, "jwt")
	require.NoError(t, os.WriteFile(secretPath, []byte(testSecret+"\n"), 0o600))
	keyPath := filepath.Join(dir, "field")
	require.NoError(t, os.WriteFile(keyPath, []byte(testFieldKey), 0o600))

	t.Setenv("NOTES_JWT_SECRET_FILE", secretPath)
	t.Setenv("NOTES_FIELD_KEY_FILE", keyPath)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []byte(testSecret), cfg.JWTSecret)
	require.Equal(t, []byte(testFieldKey), cfg.FieldKey)

	t.Run("unreadable file", func(t *testing.T) {
		t.Setenv("NOTES_JWT_SECRET_FILE", filepath.Join(dir, "missing"))
		_, err := LoadConfig()
		require.ErrorContains(t, err, "NOTES_JWT_SECRET_FILE")
	})
}

func TestLoadConfigRejectsWeakSecrets(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		key    string
		want   string
	}{
		{"missing secret", "", testFieldKey, "NOTES_JWT_SECRET or NOTES_JWT_SECRET_FILE is required"},
		{"short secret", "too-short", testFieldKey, "NOTES_JWT_SECRET must be at least 32 bytes"},
		{"missing field key", testSecret, "", "NOTES_FIELD_KEY or NOTES_FIELD_KEY_FILE is required"},
		{"short field key", testSecret, strings.Repeat("k", 31), "NOTES_FIELD_KEY must be at least 32 bytes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("NOTES_JWT_SECRET", tc.secret)
			t.Setenv("NOTES_FIELD_KEY", tc.key)

			_, err := LoadConfig()
			require.ErrorContains(t, err, tc.want)
		})
	}
}
