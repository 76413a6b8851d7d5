// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the externally injected settings. The database DSN is the one
// input the core depends on; test and production instances point it at
// different stores.
type Config struct {
	Port          string
	Database      string
	SessionSecret string
}

// Load reads configuration from environment variables, after loading an
// optional .env file. Defaults suit local development.
func Load() (Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Database:      getEnv("DATABASE", "./blog.sqlite"),
		SessionSecret: getEnv("SESSION_SECRET", "dev"),
	}

	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT must not be empty")
	}
	if cfg.Database == "" {
		return Config{}, fmt.Errorf("DATABASE must not be empty")
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET must not be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
