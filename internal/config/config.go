// Package config loads application configuration from the environment and
// per-project settings from a .pyslice.yaml file.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port int
	Env  string

	// Database; empty disables persistence
	DatabaseURL string

	// GitHub
	GitHubToken string

	// WorkDir is where fetched repositories are cloned
	WorkDir string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		GitHubToken: getEnv("GITHUB_TOKEN", ""),
		WorkDir:     getEnv("PYSLICE_WORKDIR", ".pyslice/repos"),
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
