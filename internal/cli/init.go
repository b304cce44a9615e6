// Package cli provides the initialization steps shared by cmd/spendmcp and
// cmd/spendmcp-init.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"spendmcp/internal/config"
	"spendmcp/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging and sets it as the default.
func SetupLogger() *log.Logger {
	logger := log.New(slog.LevelInfo, log.ComponentApp)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}
