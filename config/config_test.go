package config

import (
	"testing"
	"time"

	"rocketcart/store"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "HTTP_PORT", "CATALOG_URL", "CATALOG_TIMEOUT",
		"CATALOG_SEED_FILE", "STORAGE_DRIVER", "STORAGE_KEY", "STORAGE_FILE", "POSTGRES_DSN", "REDIS_ADDR"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.AppEnv != "dev" || cfg.LogLevel != "info" || cfg.HTTPPort != 8082 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CatalogTimeout != 5*time.Second {
		t.Fatalf("expected 5s catalog timeout, got %s", cfg.CatalogTimeout)
	}
	if cfg.StorageDriver != DriverFile || cfg.StorageKey != store.DefaultKey || cfg.StorageFile != "cart.json" {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if got := cfg.CatalogBaseURL(); got != "http://localhost:3333" {
		t.Fatalf("unexpected catalog url %q", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("CATALOG_TIMEOUT", "250ms")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()
	if cfg.HTTPPort != 9000 {
		t.Fatalf("expected port 9000, got %d", cfg.HTTPPort)
	}
	if cfg.CatalogTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", cfg.CatalogTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBadNumbersFallBackToDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	t.Setenv("CATALOG_TIMEOUT", "-1s")

	cfg := Load()
	if cfg.HTTPPort != 8082 {
		t.Fatalf("expected default port, got %d", cfg.HTTPPort)
	}
	if cfg.CatalogTimeout != 5*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.CatalogTimeout)
	}
}

func TestValidate(t *testing.T) {
	base := Config{HTTPPort: 8082, StorageFile: "cart.json"}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"memory", func(c *Config) { c.StorageDriver = DriverMemory }, false},
		{"file", func(c *Config) { c.StorageDriver = DriverFile }, false},
		{"file without path", func(c *Config) { c.StorageDriver = DriverFile; c.StorageFile = "" }, true},
		{"postgres without dsn", func(c *Config) { c.StorageDriver = DriverPostgres }, true},
		{"postgres", func(c *Config) { c.StorageDriver = DriverPostgres; c.PostgresDSN = "postgres://x" }, false},
		{"redis without addr", func(c *Config) { c.StorageDriver = DriverRedis }, true},
		{"unknown driver", func(c *Config) { c.StorageDriver = "sqlite" }, true},
		{"bad port", func(c *Config) { c.StorageDriver = DriverMemory; c.HTTPPort = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCatalogBaseURL(t *testing.T) {
	cfg := Config{HTTPPort: 8082, CatalogSeedFile: "server.json"}
	if got := cfg.CatalogBaseURL(); got != "http://localhost:8082/api" {
		t.Fatalf("expected fixture url, got %q", got)
	}

	cfg.CatalogURL = "http://catalog:3333"
	if got := cfg.CatalogBaseURL(); got != "http://catalog:3333" {
		t.Fatalf("explicit url should win, got %q", got)
	}
}
