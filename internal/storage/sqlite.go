package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"personal-ledger/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps every user's ledger in one SQLite database.
type SQLiteStore struct {
	conn   *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore opens the database at path and runs migrations.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; sqlite serialises writes anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{conn: conn, path: path, logger: logger}, nil
}

// EnsureExists registers the ledger handle.
func (s *SQLiteStore) EnsureExists(ctx context.Context, h Handle) error {
	if _, err := s.conn.ExecContext(ctx, "INSERT OR IGNORE INTO ledgers (handle) VALUES (?)", string(h)); err != nil {
		return &models.StorageWriteError{Path: s.path, Err: fmt.Errorf("create ledger %s: %w", h, err)}
	}
	return nil
}

// ReadAll returns the ledger's entries ordered by position.
func (s *SQLiteStore) ReadAll(ctx context.Context, h Handle) ([]models.Entry, error) {
	if err := s.EnsureExists(ctx, h); err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx,
		"SELECT date, kind, category, description, amount FROM entries WHERE handle = ? ORDER BY position",
		string(h),
	)
	if err != nil {
		return nil, &models.StorageReadError{Path: s.path, Err: err}
	}
	defer rows.Close()

	entries := []models.Entry{}
	for row := 1; rows.Next(); row++ {
		var (
			e    models.Entry
			kind string
		)
		if err := rows.Scan(&e.Date, &kind, &e.Category, &e.Description, &e.Amount); err != nil {
			return nil, &models.StorageReadError{Path: s.path, Row: row, Err: err}
		}
		if e.Kind, err = models.ParseKind(kind); err != nil {
			return nil, &models.StorageReadError{Path: s.path, Row: row, Err: err}
		}
		if err := e.Validate(); err != nil {
			return nil, &models.StorageReadError{Path: s.path, Row: row, Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StorageReadError{Path: s.path, Err: err}
	}
	return entries, nil
}

// Append validates e and inserts it after the current last entry.
func (s *SQLiteStore) Append(ctx context.Context, h Handle, e models.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO ledgers (handle) VALUES (?)", string(h)); err != nil {
			return err
		}
		var next int64
		if err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position), -1) + 1 FROM entries WHERE handle = ?", string(h),
		).Scan(&next); err != nil {
			return err
		}
		return insertEntry(ctx, tx, h, next, e)
	})
	if err != nil {
		return &models.StorageWriteError{Path: s.path, Err: fmt.Errorf("append to %s: %w", h, err)}
	}
	s.logger.InfoContext(ctx, "Entry appended",
		"handle", h,
		"date", e.Date,
		"type", e.Kind,
		"category", e.Category,
		"amount", e.Amount)
	return nil
}

// ReplaceAll validates entries and swaps the ledger's rows in one transaction.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, h Handle, entries []models.Entry) error {
	if err := models.ValidateAll(entries); err != nil {
		return err
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO ledgers (handle) VALUES (?)", string(h)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE handle = ?", string(h)); err != nil {
			return err
		}
		for i, e := range entries {
			if err := insertEntry(ctx, tx, h, int64(i), e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &models.StorageWriteError{Path: s.path, Err: fmt.Errorf("replace %s: %w", h, err)}
	}
	s.logger.InfoContext(ctx, "Ledger replaced", "handle", h, "entries", len(entries))
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertEntry(ctx context.Context, tx *sql.Tx, h Handle, position int64, e models.Entry) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO entries (handle, position, date, kind, category, description, amount) VALUES (?, ?, ?, ?, ?, ?, ?)",
		string(h), position, e.Date, string(e.Kind), e.Category, e.Description, e.Amount,
	)
	return err
}
