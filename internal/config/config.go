// Package config loads process-wide configuration from the environment.
// Loaded once at startup and passed down by value; nothing reads the
// environment after this.
package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Load reads configuration from environment variables.
//
//	PORT        HTTP listen port (default 8080)
//	DB_PATH     SQLite database file (default data/catalog.db)
//	JWT_SECRET  token signing key, required, at least 16 characters
func Load() (*Config, error) {
	cfg := &Config{
		Port:   8080,
		DBPath: "data/catalog.db",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, errors.New("config: PORT must be an integer")
		}
		cfg.Port = port
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}

	return cfg, nil
}
