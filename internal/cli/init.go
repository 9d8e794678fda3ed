// Package cli holds the initialization shared by cmd/moneymate and
// cmd/moneymate-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/franballerio/moneyMate/internal/config"
	"github.com/franballerio/moneyMate/internal/log"
	"github.com/franballerio/moneyMate/internal/storage"
)

// SetupLogger initializes structured logging and installs it as the
// process default.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenLedger opens the SQLite ledger at the given path.
// Returns the ledger or exits the process on failure.
func OpenLedger(logger *log.Logger, dbPath string) *storage.Ledger {
	ledger, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open ledger", log.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return ledger
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func ShutdownContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
