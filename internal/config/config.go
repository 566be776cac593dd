package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process-level settings. Per-request knobs (solver budget)
// can be overridden in the request; these are only the defaults.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	RedisURL        string // empty disables the result cache
	SolverTimeLimit time.Duration
	CacheTTL        time.Duration
}

// Load reads configuration from the environment, loading a .env file first
// if one is present.
func Load() (*Config, error) {
	// Best effort; production supplies real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		SolverTimeLimit: 10 * time.Second,
		CacheTTL:        15 * time.Minute,
	}

	if v := os.Getenv("SOLVER_TIME_LIMIT_SECONDS"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid SOLVER_TIME_LIMIT_SECONDS %q", v)
		}
		cfg.SolverTimeLimit = time.Duration(secs * float64(time.Second))
	}
	if v := os.Getenv("CACHE_TTL_MINUTES"); v != "" {
		mins, err := strconv.Atoi(v)
		if err != nil || mins <= 0 {
			return nil, fmt.Errorf("invalid CACHE_TTL_MINUTES %q", v)
		}
		cfg.CacheTTL = time.Duration(mins) * time.Minute
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in a development
// environment.
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
