package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"rocketcart/store"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	CatalogURL      string
	CatalogTimeout  time.Duration
	CatalogSeedFile string

	StorageDriver string
	StorageKey    string
	StorageFile   string
	PostgresDSN   string
	RedisAddr     string
}

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8082),

		CatalogURL:      getEnv("CATALOG_URL", ""),
		CatalogTimeout:  getEnvDuration("CATALOG_TIMEOUT", 5*time.Second),
		CatalogSeedFile: getEnv("CATALOG_SEED_FILE", ""),

		StorageDriver: getEnv("STORAGE_DRIVER", DriverFile),
		StorageKey:    getEnv("STORAGE_KEY", store.DefaultKey),
		StorageFile:   getEnv("STORAGE_FILE", "cart.json"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
	}
}

// Validate checks the settings each storage driver depends on.
func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}

	switch c.StorageDriver {
	case DriverMemory:
	case DriverFile:
		if c.StorageFile == "" {
			return fmt.Errorf("STORAGE_FILE is required for the %s driver", c.StorageDriver)
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the %s driver", c.StorageDriver)
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the %s driver", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// CatalogBaseURL resolves where stock and product records are fetched from.
// An explicit CATALOG_URL wins, then the fixture catalog this process serves
// under /api, then the json-server default.
func (c Config) CatalogBaseURL() string {
	switch {
	case c.CatalogURL != "":
		return c.CatalogURL
	case c.CatalogSeedFile != "":
		return fmt.Sprintf("http://localhost:%d/api", c.HTTPPort)
	default:
		return "http://localhost:3333"
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}

	return d
}
