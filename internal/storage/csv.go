package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"personal-ledger/internal/models"
)

// Columns is the header row of a ledger file, in storage order.
var Columns = []string{"date", "type", "category", "description", "amount"}

const utf8BOM = "\ufeff"

// CSVStore keeps one CSV file per ledger handle in a directory.
type CSVStore struct {
	dir    string
	logger *slog.Logger
}

// NewCSVStore returns a store rooted at dir. The directory is created on first write.
func NewCSVStore(dir string, logger *slog.Logger) *CSVStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVStore{dir: dir, logger: logger}
}

// Path returns the file backing handle h.
func (s *CSVStore) Path(h Handle) string {
	return filepath.Join(s.dir, string(h)+".csv")
}

// EnsureExists writes a header-only file if the ledger file is missing.
func (s *CSVStore) EnsureExists(ctx context.Context, h Handle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.Path(h)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return &models.StorageReadError{Path: path, Err: err}
	}
	if err := s.write(path, nil); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Created ledger file", "handle", h, "path", path)
	return nil
}

// ReadAll parses the ledger file. Any malformed row fails the whole read.
func (s *CSVStore) ReadAll(ctx context.Context, h Handle) ([]models.Entry, error) {
	if err := s.EnsureExists(ctx, h); err != nil {
		return nil, err
	}
	path := s.Path(h)
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.StorageReadError{Path: path, Err: err}
	}
	defer f.Close()

	entries, err := decodeEntries(f)
	if err != nil {
		var rerr *models.StorageReadError
		if errors.As(err, &rerr) {
			rerr.Path = path
			return nil, rerr
		}
		return nil, &models.StorageReadError{Path: path, Err: err}
	}
	return entries, nil
}

// Append validates e, then rewrites the ledger with e added last.
func (s *CSVStore) Append(ctx context.Context, h Handle, e models.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	entries, err := s.ReadAll(ctx, h)
	if err != nil {
		return err
	}
	entries = append(entries, e)
	if err := s.write(s.Path(h), entries); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Entry appended",
		"handle", h,
		"date", e.Date,
		"type", e.Kind,
		"category", e.Category,
		"amount", e.Amount,
		"entries", len(entries))
	return nil
}

// ReplaceAll validates every entry and then swaps the ledger file for one
// holding exactly entries.
func (s *CSVStore) ReplaceAll(ctx context.Context, h Handle, entries []models.Entry) error {
	if err := models.ValidateAll(entries); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.write(s.Path(h), entries); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Ledger replaced", "handle", h, "entries", len(entries))
	return nil
}

// Close is a no-op; files are closed after every operation.
func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) write(path string, entries []models.Entry) error {
	err := WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return encodeEntries(w, entries)
	})
	if err != nil {
		return &models.StorageWriteError{Path: path, Err: err}
	}
	return nil
}

func encodeEntries(w io.Writer, entries []models.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{e.Date, string(e.Kind), e.Category, e.Description, strconv.FormatInt(e.Amount, 10)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func decodeEntries(r io.Reader) ([]models.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err == io.EOF {
		// A zero-byte file holds no entries.
		return []models.Entry{}, nil
	}
	if err != nil {
		return nil, &models.StorageReadError{Row: 1, Err: err}
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	for i, col := range Columns {
		if strings.TrimSpace(header[i]) != col {
			return nil, &models.StorageReadError{Row: 1, Err: fmt.Errorf("unexpected header %v, want %v", header, Columns)}
		}
	}

	entries := []models.Entry{}
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &models.StorageReadError{Row: row, Err: err}
		}
		e, err := parseRecord(record)
		if err != nil {
			return nil, &models.StorageReadError{Row: row, Err: err}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRecord(record []string) (models.Entry, error) {
	kind, err := models.ParseKind(record[1])
	if err != nil {
		return models.Entry{}, err
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
	if err != nil {
		return models.Entry{}, fmt.Errorf("amount %q is not an integer", record[4])
	}
	e := models.Entry{
		Date:        strings.TrimSpace(record[0]),
		Kind:        kind,
		Category:    record[2],
		Description: record[3],
		Amount:      amount,
	}
	if err := e.Validate(); err != nil {
		return models.Entry{}, err
	}
	return e, nil
}
