// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the tracker server.
type Config struct {
	Port            string
	DatabaseURL     string
	RedisURL        string
	SessionTTLHours int // sliding session lifetime
	RetentionDays   int // soft-deleted rows older than this are purged
	SweepIntervalH  int // how often the retention sweep fires
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	sessionTTL, err := positiveIntEnv("SESSION_TTL_HOURS", 72)
	if err != nil {
		return nil, err
	}
	retention, err := positiveIntEnv("RETENTION_DAYS", 30)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := positiveIntEnv("SWEEP_INTERVAL_HOURS", 24)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:            port,
		DatabaseURL:     dbURL,
		RedisURL:        redisURL,
		SessionTTLHours: sessionTTL,
		RetentionDays:   retention,
		SweepIntervalH:  sweepInterval,
	}, nil
}

func positiveIntEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return v, nil
}
