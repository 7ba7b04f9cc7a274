// Package config reads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures every knob the backend reads at startup.
type Config struct {
	Port string

	ValkeyURL      string
	ValkeyPassword string
	ValkeyDB       int

	// DatabaseDSN selects the subscriber store. A "sqlite:" prefix opens a
	// local sqlite file, anything else is handed to the mysql driver (TiDB).
	DatabaseDSN string

	ActivityKey  string
	ActivityTTL  time.Duration
	StoreTimeout time.Duration

	TimeZone string
	Location *time.Location

	ContentDir string
	PublicDir  string

	OpenRouterAPIKey    string
	OpenRouterModel     string
	OpenRouterURL       string
	TranslationCacheTTL time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads environment variables into Config, applying defaults for local dev.
func Load() (Config, error) {
	var errs []error
	durationEnv := func(key string, fallback time.Duration) time.Duration {
		value, err := getDurationEnv(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return value
	}
	intEnv := func(key string, fallback int) int {
		value, err := getIntEnv(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return value
	}

	cfg := Config{
		Port:                getEnv("PORT", "3000"),
		ValkeyURL:           getEnv("VALKEY_URL", "localhost:6379"),
		ValkeyPassword:      os.Getenv("VALKEY_PASSWORD"),
		ValkeyDB:            intEnv("VALKEY_DB", 0),
		DatabaseDSN:         getEnv("DATABASE_DSN", "sqlite:portfolio.db"),
		ActivityKey:         getEnv("ACTIVITY_KEY", "premid:activity"),
		ActivityTTL:         durationEnv("ACTIVITY_TTL", 24*time.Hour),
		StoreTimeout:        durationEnv("STORE_TIMEOUT", 3*time.Second),
		TimeZone:            getEnv("TIME_ZONE", "Africa/Kigali"),
		ContentDir:          getEnv("CONTENT_DIR", "content"),
		PublicDir:           getEnv("PUBLIC_DIR", "public"),
		OpenRouterAPIKey:    os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:     getEnv("OPENROUTER_MODEL", "qwen/qwen2.5-7b-instruct"),
		OpenRouterURL:       getEnv("OPENROUTER_URL", "https://openrouter.ai/api/v1/chat/completions"),
		TranslationCacheTTL: durationEnv("TRANSLATION_CACHE_TTL", time.Hour),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "console"),
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIME_ZONE %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc

	if cfg.ActivityTTL <= 0 {
		return Config{}, fmt.Errorf("ACTIVITY_TTL must be positive, got %s", cfg.ActivityTTL)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}
