// spendmcp-init creates the spending database and applies schema
// migrations. The server itself never touches the schema; run this once
// before starting spendmcp, and again after pulling a release that ships
// new migrations.
package main

import (
	"os"
	"path/filepath"

	"spendmcp/internal/cli"
	"spendmcp/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if dir := filepath.Dir(cfg.SQLiteDBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("Failed to create database directory", "error", err, "dir", dir)
			os.Exit(1)
		}
	}

	logger.Info("Initializing spending database", "path", cfg.SQLiteDBPath)
	if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
		logger.Error("Migration failed", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	logger.Info("Database ready", "path", cfg.SQLiteDBPath)
}
