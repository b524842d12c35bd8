// Package logging sets up the structured logger shared by the ledger components.
package logging

import (
	"io"
	"log/slog"
	"os"

	"personal-ledger/internal/config"
)

// Component names attached to loggers.
const (
	ComponentStorage = "storage"
	ComponentAuth    = "auth"
	ComponentCLI     = "cli"
	ComponentExport  = "export"
)

// New returns a text logger writing to w at the configured level.
// An unknown level falls back to info.
func New(cfg *config.Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup builds the logger and installs it as the slog default.
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := New(cfg, w)
	slog.SetDefault(logger)
	return logger
}

// For returns logger tagged with a component, using the default logger when nil.
func For(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", component)
}

// Discard is a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
