// internal/config/config.go
//
// Environment-driven configuration for the Wordle server.
// Responsibilities:
//   - Read every setting from the environment with a default in code.
//   - Validate enumerations and numbers up front so main can fail fast.
//
// Notes:
//   - .env files are loaded by main (godotenv) before Load runs.
//   - JWT_SECRET falls back to a development value with a warning from main.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends accepted by STORE.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// DevJWTSecret is used when JWT_SECRET is unset.
const DevJWTSecret = "dev_secret_change_me"

// Config is the full server configuration.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string // "json" | "console"

	Store      string
	SQLitePath string
	RedisURL   string
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string
	RecordTTL   time.Duration

	JWTSecret    string
	JWTExpiry    time.Duration
	CookieName   string
	CookieSecure bool
	ClientOrigin string

	WordSource string
	WordsFile  string
	DailySalt  string
	CacheSize  int
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	c := &Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		Store:        getEnv("STORE", StoreMemory),
		SQLitePath:   getEnv("SQLITE_PATH", "./data/wordle.db"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    getEnv("JWT_SECRET", DevJWTSecret),
		CookieName:   getEnv("COOKIE_NAME", "wordle_token"),
		CookieSecure: os.Getenv("NODE_ENV") == "production",
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		WordSource:   getEnv("WORD_SOURCE", "slot"),
		WordsFile:    os.Getenv("WORDS_FILE"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
	}

	hours, err := getInt("JWT_EXPIRES_HOURS", 24)
	if err != nil {
		return nil, err
	}
	if hours <= 0 {
		return nil, fmt.Errorf("config: JWT_EXPIRES_HOURS must be positive, got %d", hours)
	}
	c.JWTExpiry = time.Duration(hours) * time.Hour

	ttl, err := getInt("RECORD_TTL_HOURS", 0)
	if err != nil {
		return nil, err
	}
	if ttl < 0 {
		return nil, fmt.Errorf("config: RECORD_TTL_HOURS must not be negative, got %d", ttl)
	}
	c.RecordTTL = time.Duration(ttl) * time.Hour

	if c.CacheSize, err = getInt("CACHE_SIZE", 1024); err != nil {
		return nil, err
	}
	if c.CacheSize <= 0 {
		return nil, fmt.Errorf("config: CACHE_SIZE must be positive, got %d", c.CacheSize)
	}

	switch c.Store {
	case StoreMemory, StoreSQLite, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("config: STORE=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("config: unknown STORE %q", c.Store)
	}

	switch c.WordSource {
	case "slot", "random", "daily":
	default:
		return nil, fmt.Errorf("config: unknown WORD_SOURCE %q", c.WordSource)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return nil, fmt.Errorf("config: unknown LOG_FORMAT %q", c.LogFormat)
	}

	return c, nil
}

// Addr is the listen address for Port.
func (c *Config) Addr() string { return ":" + c.Port }

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return n, nil
}
