package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultPort          = "8080"
	defaultJWTTTL        = "24h"
	defaultVideoTokenTTL = "1h"
	defaultSweepInterval = "5m"
	defaultSweepGrace    = "10m"
	defaultJWTSecret     = "change-me-jwt-secret"
)

// Config is the full runtime configuration, loaded from environment
// variables. DATABASE_URL selects postgres (postgres:// DSN) or a local
// sqlite file.
type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	JWTSecret     string
	JWTTTL        time.Duration
	StreamSecret  string // signs video call tokens (1h expiry, server minted)
	VideoTokenTTL time.Duration
	InternalToken string // guards /internal endpoints
	WebhookSecret string // optional HMAC secret for the identity webhook
	SweepInterval time.Duration
	SweepGrace    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", "tutorly.db"))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.StreamSecret = strings.TrimSpace(getEnv("STREAM_API_SECRET", cfg.JWTSecret))
	cfg.InternalToken = strings.TrimSpace(os.Getenv("INTERNAL_TOKEN"))
	cfg.WebhookSecret = strings.TrimSpace(os.Getenv("CLERK_WEBHOOK_SECRET"))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.VideoTokenTTL, err = parseDurationEnv("VIDEO_TOKEN_TTL", defaultVideoTokenTTL)
	if err != nil {
		return nil, err
	}
	cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepInterval)
	if err != nil {
		return nil, err
	}
	cfg.SweepGrace, err = parseDurationEnv("SWEEP_GRACE", defaultSweepGrace)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	log.Printf("config: env=%s port=%s sweep_interval=%s sweep_grace=%s", cfg.AppEnv, cfg.Port, cfg.SweepInterval, cfg.SweepGrace)

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.VideoTokenTTL <= 0 {
		return fmt.Errorf("VIDEO_TOKEN_TTL must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if cfg.SweepGrace <= 0 {
		return fmt.Errorf("SWEEP_GRACE must be > 0")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}

	if IsProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.InternalToken == "" {
			return fmt.Errorf("in prod/release INTERNAL_TOKEN must be set")
		}
	}

	return nil
}

// IsProdLike reports whether the environment name means production.
func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}
