// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	FrontendURL   string
	DBPath        string
	CommandPrefix string
	StoreTimeout  time.Duration
	Dialogue      DialogueConfig
}

// DialogueConfig controls the optional external dialogue engine.
type DialogueConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	storeTimeoutMs := getEnvInt("STORE_TIMEOUT_MS", 5000)
	if storeTimeoutMs <= 0 {
		storeTimeoutMs = 5000
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		FrontendURL:   getEnv("FRONTEND_URL", ""),
		DBPath:        getEnv("DB_PATH", "./data/coach.db"),
		CommandPrefix: getEnv("COMMAND_PREFIX", "/"),
		StoreTimeout:  time.Duration(storeTimeoutMs) * time.Millisecond,
		Dialogue: DialogueConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.CommandPrefix == "" {
		return fmt.Errorf("COMMAND_PREFIX cannot be empty")
	}
	return nil
}

// DialogueEnabled reports whether an external dialogue engine is configured.
func (c *Config) DialogueEnabled() bool {
	return c.Dialogue.GeminiAPIKey != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
