package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	DatabasePath string
	LogLevel     string

	// Optional server-side fallback credentials. Per-request keys from the
	// client always take precedence; these only fill the gap when a request
	// carries a provider but no key.
	DefaultLLMProvider string
	DefaultLLMAPIKey   string
	DefaultLLMModel    string

	// Market news feed (dashboard headlines)
	NewsFeedSchedule string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvAsInt("PORT", 8000),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		DatabasePath:       getEnv("DATABASE_PATH", "./data/advisor.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DefaultLLMProvider: getEnv("LLM_PROVIDER", ""),
		DefaultLLMAPIKey:   getEnv("LLM_API_KEY", ""),
		DefaultLLMModel:    getEnv("LLM_MODEL", ""),
		NewsFeedSchedule:   getEnv("NEWS_FEED_SCHEDULE", "@every 15m"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number, got %d", c.Port)
	}
	return nil
}

// getEnv reads an environment variable with a default value
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsBool reads an environment variable as boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
