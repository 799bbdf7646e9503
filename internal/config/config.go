// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	// HTTP server
	Port string

	// Generation service
	Model       string
	CallTimeout time.Duration

	// Classification fan-out
	ClassifyConcurrency int

	// GCS bucket for uploaded CSV files (optional)
	Bucket string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Model:               getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		CallTimeout:         getEnvDuration("GENAI_CALL_TIMEOUT", 30*time.Second),
		ClassifyConcurrency: getEnvInt("CLASSIFY_CONCURRENCY", 4),
		Bucket:              getEnv("GCS_BUCKET", ""),
	}
}

// Validate checks the configuration and returns an error when a value is
// unusable.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Port)
	} else if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.Model == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive, got %v", c.CallTimeout)
	}
	if c.ClassifyConcurrency < 1 {
		return fmt.Errorf("classify concurrency must be at least 1, got %d", c.ClassifyConcurrency)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
