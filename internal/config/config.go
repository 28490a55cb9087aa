// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/propdesk/backoffice/internal/db"
)

// Config holds server configuration.
type Config struct {
	DBPath  string
	Port    int
	DevMode bool
	BaseURL string // e.g. http://localhost:8080
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads the given env files (default ".env") into the process
// environment and builds a Config. Missing files are skipped and variables
// already set are not overridden.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv creates a Config from environment variables.
func FromEnv() (Config, error) {
	port, err := strconv.Atoi(envOrDefault("PD_PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("PD_PORT must be a port number, got %q", os.Getenv("PD_PORT"))
	}

	dbPath := os.Getenv("PD_DB_PATH")
	if dbPath == "" {
		if dbPath, err = db.DefaultPath(); err != nil {
			return Config{}, err
		}
	}

	return Config{
		DBPath:  dbPath,
		Port:    port,
		DevMode: os.Getenv("PD_DEV_MODE") == "true",
		BaseURL: envOrDefault("PD_BASE_URL", fmt.Sprintf("http://localhost:%d", port)),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
