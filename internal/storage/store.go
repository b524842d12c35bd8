package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"personal-ledger/internal/config"
	"personal-ledger/internal/logging"
	"personal-ledger/internal/models"
)

// Handle addresses one user's ledger inside a store.
type Handle string

// HandleFor derives the storage handle of a user's ledger. Distinct
// usernames always map to distinct handles.
func HandleFor(username string) (Handle, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", &models.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	return Handle(url.PathEscape(username)), nil
}

// LedgerStore is a per-user durable set of ledger entries.
//
// Append and ReplaceAll are read-modify-write sequences. Callers must not
// run them concurrently against the same handle.
type LedgerStore interface {
	// EnsureExists creates an empty ledger if none exists.
	EnsureExists(ctx context.Context, h Handle) error
	// ReadAll returns every entry in insertion order.
	ReadAll(ctx context.Context, h Handle) ([]models.Entry, error)
	// Append validates e and stores it as the last entry.
	Append(ctx context.Context, h Handle, e models.Entry) error
	// ReplaceAll validates entries and replaces the stored set with them.
	ReplaceAll(ctx context.Context, h Handle, entries []models.Entry) error
	Close() error
}

// Open returns the ledger store selected by cfg.Backend.
func Open(cfg *config.Config, logger *slog.Logger) (LedgerStore, error) {
	logger = logging.For(logger, logging.ComponentStorage)
	switch cfg.Backend {
	case config.BackendCSV, "":
		return NewCSVStore(cfg.LedgersDir(), logger), nil
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unsupported ledger backend: %s", cfg.Backend)
	}
}

// DeleteAt removes the entries at the given positions of the current
// ledger by replacing it with the remaining entries.
func DeleteAt(ctx context.Context, s LedgerStore, h Handle, indexes ...int) ([]models.Entry, error) {
	entries, err := s.ReadAll(ctx, h)
	if err != nil {
		return nil, err
	}
	for _, i := range indexes {
		if i < 0 || i >= len(entries) {
			return nil, &models.ValidationError{
				Field:  "index",
				Value:  fmt.Sprint(i),
				Reason: fmt.Sprintf("must be between 0 and %d", len(entries)-1),
			}
		}
	}

	kept := make([]models.Entry, 0, len(entries))
	for i, e := range entries {
		if !slices.Contains(indexes, i) {
			kept = append(kept, e)
		}
	}
	if err := s.ReplaceAll(ctx, h, kept); err != nil {
		return nil, err
	}
	return kept, nil
}
