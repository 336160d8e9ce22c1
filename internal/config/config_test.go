package config

import (
	"strings"
	"testing"
	"time"

	"archie-core-facebook-layer/internal/infrastructure/facebook"
	"archie-core-facebook-layer/internal/infrastructure/lock"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envOf(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Config{
		Port:                "8080",
		AppURL:              "http://localhost:8080",
		FrontendURL:         "http://localhost:5173",
		StorageDriver:       StorageMongo,
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "facebook_layer",
		LogLevel:            zerolog.InfoLevel,
		FacebookGraphURL:    facebook.DefaultGraphURL,
		FacebookDialogURL:   facebook.DefaultDialogURL,
		FacebookHTTPTimeout: facebook.DefaultTimeout,
		LockTTL:             lock.DefaultLockTTL,
		LockWait:            lock.DefaultLockWait,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
	if cfg.OAuthConfigured() {
		t.Fatalf("expected OAuth to be unconfigured without app credentials")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(envOf(map[string]string{
		"PORT":                  "9090",
		"APP_URL":               "https://layer.example/",
		"STORAGE_DRIVER":        "Memory",
		"REDIS_URL":             "redis://localhost:6379/0",
		"FACEBOOK_APP_ID":       "app",
		"FACEBOOK_APP_SECRET":   "secret",
		"FACEBOOK_GRAPH_URL":    "http://graph.local/v18.0/",
		"FACEBOOK_HTTP_TIMEOUT": "3s",
		"LOCK_TTL":              "1m",
		"LOCK_WAIT":             "500ms",
		"LOG_LEVEL":             "DEBUG",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StorageDriver != StorageMemory || cfg.Port != "9090" || cfg.LogLevel != zerolog.DebugLevel {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.FacebookHTTPTimeout != 3*time.Second || cfg.LockTTL != time.Minute || cfg.LockWait != 500*time.Millisecond {
		t.Fatalf("unexpected durations %+v", cfg)
	}
	if !cfg.OAuthConfigured() {
		t.Fatalf("expected OAuth to be configured")
	}

	fb := cfg.FacebookConfig()
	if fb.GraphURL != "http://graph.local/v18.0" {
		t.Fatalf("expected trailing slash to be trimmed, got %q", fb.GraphURL)
	}
	if fb.RedirectURL != "https://layer.example/oauth/facebook/callback" {
		t.Fatalf("unexpected redirect url %q", fb.RedirectURL)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"STORAGE_DRIVER":        {"STORAGE_DRIVER": "postgres"},
		"LOG_LEVEL":             {"LOG_LEVEL": "loud"},
		"FACEBOOK_HTTP_TIMEOUT": {"FACEBOOK_HTTP_TIMEOUT": "soon"},
		"LOCK_TTL":              {"LOCK_TTL": "-1s"},
	}
	for key, env := range cases {
		t.Run(key, func(t *testing.T) {
			_, err := LoadFrom(envOf(env))
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Fatalf("expected error mentioning %s, got %v", key, err)
			}
		})
	}
}
