package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"archie-core-facebook-layer/internal/infrastructure/facebook"
	"archie-core-facebook-layer/internal/infrastructure/lock"

	"github.com/rs/zerolog"
)

// Storage drivers accepted in STORAGE_DRIVER
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds the process settings read from the environment
type Config struct {
	Port          string
	AppURL        string
	FrontendURL   string
	StorageDriver string
	MongoURI      string
	MongoDatabase string
	RedisURL      string
	LogLevel      zerolog.Level

	FacebookAppID       string
	FacebookAppSecret   string
	FacebookGraphURL    string
	FacebookDialogURL   string
	FacebookHTTPTimeout time.Duration

	LockTTL  time.Duration
	LockWait time.Duration
}

// Load reads the configuration using os.Getenv
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv, applying defaults for unset keys
func LoadFrom(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port:              get("PORT", "8080"),
		AppURL:            strings.TrimRight(get("APP_URL", "http://localhost:8080"), "/"),
		FrontendURL:       get("FRONTEND_URL", "http://localhost:5173"),
		StorageDriver:     strings.ToLower(get("STORAGE_DRIVER", StorageMongo)),
		MongoURI:          get("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:     get("MONGODB_DATABASE", "facebook_layer"),
		RedisURL:          getenv("REDIS_URL"),
		FacebookAppID:     getenv("FACEBOOK_APP_ID"),
		FacebookAppSecret: getenv("FACEBOOK_APP_SECRET"),
		FacebookGraphURL:  strings.TrimRight(get("FACEBOOK_GRAPH_URL", facebook.DefaultGraphURL), "/"),
		FacebookDialogURL: get("FACEBOOK_DIALOG_URL", facebook.DefaultDialogURL),
	}

	if cfg.StorageDriver != StorageMongo && cfg.StorageDriver != StorageMemory {
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: expected %s or %s", cfg.StorageDriver, StorageMongo, StorageMemory)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(get("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.FacebookHTTPTimeout, err = parseDuration(get, "FACEBOOK_HTTP_TIMEOUT", facebook.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.LockTTL, err = parseDuration(get, "LOCK_TTL", lock.DefaultLockTTL); err != nil {
		return nil, err
	}
	if cfg.LockWait, err = parseDuration(get, "LOCK_WAIT", lock.DefaultLockWait); err != nil {
		return nil, err
	}

	return cfg, nil
}

// OAuthConfigured reports whether the Facebook app credentials are present
func (c *Config) OAuthConfigured() bool {
	return c.FacebookAppID != "" && c.FacebookAppSecret != ""
}

// OAuthRedirectURL is the callback registered with the Facebook app
func (c *Config) OAuthRedirectURL() string {
	return c.AppURL + "/oauth/facebook/callback"
}

// FacebookConfig builds the Graph API client settings
func (c *Config) FacebookConfig() facebook.Config {
	return facebook.Config{
		GraphURL:    c.FacebookGraphURL,
		DialogURL:   c.FacebookDialogURL,
		AppID:       c.FacebookAppID,
		AppSecret:   c.FacebookAppSecret,
		RedirectURL: c.OAuthRedirectURL(),
		Timeout:     c.FacebookHTTPTimeout,
	}
}

func parseDuration(get func(string, string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := get(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
