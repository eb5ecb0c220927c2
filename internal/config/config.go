// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	StorePath       string
	DatabasePath    string
	LogPath         string
	RefreshInterval time.Duration
	Notifications   bool
}

// Default values
const (
	// defaultRefreshInterval matches the original hourly menu refresh.
	defaultRefreshInterval = time.Hour
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		StorePath:       getEnvString("CYCLETRACK_STORE_PATH", defaultPath("usage.json")),
		DatabasePath:    getEnvString("CYCLETRACK_DATABASE_PATH", defaultPath("history.db")),
		LogPath:         getEnvString("CYCLETRACK_LOG_PATH", defaultPath("cycletrack.log")),
		RefreshInterval: getEnvDuration("CYCLETRACK_REFRESH_INTERVAL", defaultRefreshInterval),
		Notifications:   getEnvBool("CYCLETRACK_NOTIFICATIONS", true),
	}

	for _, p := range []string{cfg.StorePath, cfg.DatabasePath, cfg.LogPath} {
		if err := ensureDir(filepath.Dir(p)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "cycletrack", ".env"),
			filepath.Join(home, ".cycletrack", ".env"),
		)
	}

	return paths
}

// defaultPath returns a file path under the default config directory.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", "cycletrack", name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30m", "1h", or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
