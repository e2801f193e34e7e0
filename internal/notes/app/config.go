package app

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/pkg/cryptox"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret []byte // Required: HS256 signing secret, NOTES_JWT_SECRET or NOTES_JWT_SECRET_FILE
	FieldKey  []byte // Required: key material for email encryption, NOTES_FIELD_KEY or NOTES_FIELD_KEY_FILE

	DatabaseFile string // Optional: path to SQLite database file (default: notes.db)
	RedisURL     string // Optional: shares revocations and login throttling between instances

	Env                 string        // Environment (dev, staging, production) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 5000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	AccessTokenTTL          time.Duration // default: 15m
	SessionIdleTimeout      time.Duration // default: 15m
	RevocationSweepInterval time.Duration // default: 10m
	LoginThrottleMax        int           // default: 5
	LoginThrottleWindow     time.Duration // default: 15m
	LoginThrottleMaxTracked int           // default: 10000

	// TrustProxyHeaders keys per-address limits on X-Forwarded-For and
	// X-Real-IP. Only enable behind a proxy that sets them.
	TrustProxyHeaders bool
}

// LoadConfig reads the configuration from the environment, after loading a
// .env file from the working directory if there is one.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Config{
		DatabaseFile:            getEnvOrDefault("NOTES_DATABASE_FILE", "notes.db"),
		RedisURL:                os.Getenv("NOTES_REDIS_URL"),
		Env:                     getEnvOrDefault("ENV", "dev"),
		LogLevel:                getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:               getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                    getEnvIntOrDefault("PORT", 5000),
		ShutdownGracePeriod:     getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		AccessTokenTTL:          getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		SessionIdleTimeout:      getEnvDurationOrDefault("SESSION_IDLE_TIMEOUT", service.DefaultSessionIdleTimeout),
		RevocationSweepInterval: getEnvDurationOrDefault("REVOCATION_SWEEP_INTERVAL", service.DefaultRevocationSweepInterval),
		LoginThrottleMax:        getEnvIntOrDefault("LOGIN_THROTTLE_MAX", service.DefaultLoginThrottleMax),
		LoginThrottleWindow:     getEnvDurationOrDefault("LOGIN_THROTTLE_WINDOW", service.DefaultLoginThrottleWindow),
		LoginThrottleMaxTracked: getEnvIntOrDefault("LOGIN_THROTTLE_MAX_TRACKED", service.DefaultLoginThrottleMaxTracked),
		TrustProxyHeaders:       getEnvBoolOrDefault("TRUST_PROXY_HEADERS", false),
	}

	var err error
	if cfg.JWTSecret, err = loadSecret("NOTES_JWT_SECRET"); err != nil {
		return Config{}, err
	}
	if cfg.FieldKey, err = loadSecret("NOTES_FIELD_KEY"); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the service must not start with.
func (c Config) Validate() error {
	switch {
	case len(c.JWTSecret) == 0:
		return errors.New("config: NOTES_JWT_SECRET or NOTES_JWT_SECRET_FILE is required")
	case len(c.JWTSecret) < jwtx.MinSecretBytes:
		return fmt.Errorf("config: NOTES_JWT_SECRET must be at least %d bytes", jwtx.MinSecretBytes)
	case len(c.FieldKey) == 0:
		return errors.New("config: NOTES_FIELD_KEY or NOTES_FIELD_KEY_FILE is required")
	case len(c.FieldKey) < cryptox.MinFieldKeyBytes:
		return fmt.Errorf("config: NOTES_FIELD_KEY must be at least %d bytes", cryptox.MinFieldKeyBytes)
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	return nil
}

// SecureCookies reports whether cookies should carry the Secure attribute.
func (c Config) SecureCookies() bool {
	switch strings.ToLower(c.Env) {
	case "production", "prod":
		return true
	}
	return false
}

// loadSecret reads name from the environment, or from the file named by
// name_FILE. Surrounding whitespace in the file is dropped.
func loadSecret(name string) ([]byte, error) {
	if v := os.Getenv(name); v != "" {
		return []byte(v), nil
	}
	path := os.Getenv(name + "_FILE")
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s_FILE: %w", name, err)
	}
	return bytes.TrimSpace(b), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
