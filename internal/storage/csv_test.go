package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"personal-ledger/internal/logging"
	"personal-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSVStore(t *testing.T) (*CSVStore, Handle) {
	t.Helper()
	h, err := HandleFor("alice")
	require.NoError(t, err)
	return NewCSVStore(t.TempDir(), logging.Discard()), h
}

func writeLedger(t *testing.T, s *CSVStore, h Handle, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path(h)), 0o755))
	require.NoError(t, os.WriteFile(s.Path(h), []byte(content), 0o644))
}

func TestCSVEnsureExistsWritesHeader(t *testing.T) {
	s, h := newCSVStore(t)
	require.NoError(t, s.EnsureExists(context.Background(), h))

	data, err := os.ReadFile(s.Path(h))
	require.NoError(t, err)
	assert.Equal(t, "date,type,category,description,amount\n", string(data))
}

func TestCSVFileLayout(t *testing.T) {
	s, h := newCSVStore(t)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, h, models.Entry{Date: "2025-08-01", Kind: models.Expense, Category: "식비", Amount: 1234567}))
	require.NoError(t, s.Append(ctx, h, models.Entry{Date: "2025-08-02", Kind: models.Income, Category: "월급", Description: "a,b", Amount: 0}))

	data, err := os.ReadFile(s.Path(h))
	require.NoError(t, err)
	assert.Equal(t,
		"date,type,category,description,amount\n"+
			"2025-08-01,Expense,식비,,1234567\n"+
			"2025-08-02,Income,월급,\"a,b\",0\n",
		string(data))
}

func TestCSVReadsOriginalFormat(t *testing.T) {
	s, h := newCSVStore(t)
	// BOM-prefixed, localized labels, as written by the original desktop app.
	writeLedger(t, s, h, "\ufeffdate,type,category,description,amount\r\n"+
		"2025-08-18,지출,식비,테스트,5000\r\n"+
		"2025-08-19,수입,월급,,2000000\r\n")

	got, err := s.ReadAll(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, []models.Entry{
		{Date: "2025-08-18", Kind: models.Expense, Category: "식비", Description: "테스트", Amount: 5000},
		{Date: "2025-08-19", Kind: models.Income, Category: "월급", Amount: 2000000},
	}, got)
}

func TestCSVEmptyFileHasNoEntries(t *testing.T) {
	s, h := newCSVStore(t)
	writeLedger(t, s, h, "")

	got, err := s.ReadAll(context.Background(), h)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCSVMalformedLedger(t *testing.T) {
	tests := []struct {
		name    string
		content string
		row     int
	}{
		{"wrong header", "when,type,category,description,amount\n", 1},
		{"missing column", "date,type,category,description,amount\n2025-08-01,Expense,식비,5000\n", 2},
		{"fractional amount", "date,type,category,description,amount\n2025-08-01,Expense,식비,,50.5\n", 2},
		{"negative amount", "date,type,category,description,amount\n2025-08-01,Expense,식비,,-5\n", 2},
		{"bad kind", "date,type,category,description,amount\n2025-08-01,Expense,식비,,5\n2025-08-02,Gift,선물,,5\n", 3},
		{"bad date", "date,type,category,description,amount\n08/01/2025,Expense,식비,,5\n", 2},
		{"unterminated quote", "date,type,category,description,amount\n2025-08-01,Expense,식비,\"oops,5\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, h := newCSVStore(t)
			writeLedger(t, s, h, tt.content)

			got, err := s.ReadAll(context.Background(), h)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, models.ErrStorageRead)

			var rerr *models.StorageReadError
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, s.Path(h), rerr.Path)
			assert.Equal(t, tt.row, rerr.Row)
		})
	}
}

func TestCSVAppendOnCorruptLedgerKeepsFile(t *testing.T) {
	s, h := newCSVStore(t)
	corrupt := "date,type,category,description,amount\n2025-08-01,Expense,식비,,abc\n"
	writeLedger(t, s, h, corrupt)

	err := s.Append(context.Background(), h, models.Entry{Date: "2025-08-02", Kind: models.Income, Category: "월급", Amount: 1})
	assert.ErrorIs(t, err, models.ErrStorageRead)

	data, err := os.ReadFile(s.Path(h))
	require.NoError(t, err)
	assert.Equal(t, corrupt, string(data), "corrupt ledger must not be overwritten")
}

func TestCSVWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := NewCSVStore(blocker, logging.Discard())
	h, _ := HandleFor("alice")
	err := s.ReplaceAll(context.Background(), h, nil)
	assert.ErrorIs(t, err, models.ErrStorageWrite)
}

func TestCSVNoTempFilesLeft(t *testing.T) {
	s, h := newCSVStore(t)
	ctx := context.Background()
	for _, e := range sampleEntries() {
		require.NoError(t, s.Append(ctx, h, e))
	}

	files, err := os.ReadDir(filepath.Dir(s.Path(h)))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "alice.csv", files[0].Name())
}

func TestCSVCancelledContext(t *testing.T) {
	s, h := newCSVStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ReadAll(ctx, h)
	assert.ErrorIs(t, err, context.Canceled)
}
