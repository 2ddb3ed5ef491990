package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/indirect-spend-tracker/pkg/kvstore"
)

// Config holds all application configuration
type Config struct {
	Storage kvstore.Config
	Log     LogConfig
}

type LogConfig struct {
	Level slog.Level
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dataDir := getEnv("SPEND_DATA_DIR", "./data")

	cfg := &Config{
		Storage: kvstore.Config{
			Backend:    kvstore.BackendType(getEnv("SPEND_STORAGE", string(kvstore.BackendFile))),
			Dir:        dataDir,
			SQLitePath: getEnv("SPEND_SQLITE_PATH", filepath.Join(dataDir, "spend.db")),
		},
		Log: LogConfig{
			Level: parseLogLevel(getEnv("SPEND_LOG_LEVEL", "info")),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
