// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration, loaded from environment
// variables (with .env file support).
type Config struct {
	Port            int
	LogLevel        string
	DevMode         bool
	WorkerPoolSize  int
	SolverTolerance float64
	SolverMaxIter   int
	MaxConstraints  int
	RequestTimeout  time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvAsInt("HTTP_PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		WorkerPoolSize:  getEnvAsInt("SOLVER_WORKERS", 0),
		SolverTolerance: getEnvAsFloat("SOLVER_TOLERANCE", 1e-8),
		SolverMaxIter:   getEnvAsInt("SOLVER_MAX_ITERATIONS", 100),
		MaxConstraints:  getEnvAsInt("SOLVER_MAX_CONSTRAINTS", 22),
		RequestTimeout:  time.Duration(getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane.
func (c *Config) Validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("HTTP_PORT must be positive, got %d", c.Port)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug/info/warn/error, got %q", c.LogLevel)
	}

	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("SOLVER_WORKERS cannot be negative, got %d", c.WorkerPoolSize)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
