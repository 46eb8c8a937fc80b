package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTAccessTTL     = "24h"
	defaultCancelLeadTime   = "1h"
	defaultNoShowThreshold  = "3"
	defaultNoShowBlockDays  = "30"
	defaultClassCapacity    = "20"
)

// RuntimeConfig carries the env-driven settings for the API server and
// the maintenance commands. Booking policy values are configurable but
// default to the house rules: cancellations close 1 hour before class
// start, 3 no-shows in a month block the account for 30 days.
type RuntimeConfig struct {
	AppEnv string

	DatabaseURL  string
	JWTSecret    string
	JWTAccessTTL time.Duration

	CancelLeadTime  time.Duration
	NoShowThreshold int
	NoShowBlockFor  time.Duration

	DefaultClassCapacity int
}

func Load() (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.CancelLeadTime, err = parseDurationEnv("CANCEL_LEAD_TIME", defaultCancelLeadTime)
	if err != nil {
		return nil, err
	}

	cfg.NoShowThreshold, err = parseIntEnv("NOSHOW_BLOCK_THRESHOLD", defaultNoShowThreshold)
	if err != nil {
		return nil, err
	}

	blockDays, err := parseIntEnv("NOSHOW_BLOCK_DAYS", defaultNoShowBlockDays)
	if err != nil {
		return nil, err
	}
	cfg.NoShowBlockFor = time.Duration(blockDays) * 24 * time.Hour

	cfg.DefaultClassCapacity, err = parseIntEnv("DEFAULT_CLASS_CAPACITY", defaultClassCapacity)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *RuntimeConfig) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.CancelLeadTime <= 0 {
		return fmt.Errorf("CANCEL_LEAD_TIME must be > 0")
	}
	if cfg.NoShowThreshold < 1 {
		return fmt.Errorf("NOSHOW_BLOCK_THRESHOLD must be >= 1")
	}
	if cfg.NoShowBlockFor <= 0 {
		return fmt.Errorf("NOSHOW_BLOCK_DAYS must be >= 1")
	}
	if cfg.DefaultClassCapacity < 1 {
		return fmt.Errorf("DEFAULT_CLASS_CAPACITY must be >= 1")
	}

	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("in prod/release DATABASE_URL must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}

func parseIntEnv(key, def string) (int, error) {
	raw := getEnv(key, def)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, raw, err)
	}
	return n, nil
}
