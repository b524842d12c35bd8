package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryValidate(t *testing.T) {
	good := Entry{Date: "2025-08-18", Kind: Expense, Category: "식비", Description: "테스트", Amount: 5000}
	assert.NoError(t, good.Validate())

	zero := good
	zero.Amount = 0
	assert.NoError(t, zero.Validate(), "zero amount is allowed")

	noDesc := good
	noDesc.Description = ""
	assert.NoError(t, noDesc.Validate(), "description may be empty")

	multiline := good
	multiline.Description = "line1\nline2"
	assert.NoError(t, multiline.Validate(), "line feeds are kept")

	largest := good
	largest.Amount = MaxAmount
	assert.NoError(t, largest.Validate())

	tests := []struct {
		name  string
		mod   func(*Entry)
		field string
	}{
		{"bad date format", func(e *Entry) { e.Date = "2025/08/18" }, "date"},
		{"impossible date", func(e *Entry) { e.Date = "2025-02-30" }, "date"},
		{"empty date", func(e *Entry) { e.Date = "" }, "date"},
		{"unknown kind", func(e *Entry) { e.Kind = "Transfer" }, "type"},
		{"blank category", func(e *Entry) { e.Category = "  " }, "category"},
		{"negative amount", func(e *Entry) { e.Amount = -1 }, "amount"},
		{"amount over limit", func(e *Entry) { e.Amount = MaxAmount + 1 }, "amount"},
		{"carriage return in description", func(e *Entry) { e.Description = "a\r\nb" }, "description"},
		{"carriage return in category", func(e *Entry) { e.Category = "식\r비" }, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := good
			tt.mod(&e)
			err := e.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidateAllReportsIndex(t *testing.T) {
	entries := []Entry{
		{Date: "2025-08-01", Kind: Income, Category: "월급", Amount: 1},
		{Date: "2025-08-02", Kind: Expense, Category: "식비", Amount: -5},
	}
	err := ValidateAll(entries)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 1, ve.Index)

	assert.NoError(t, ValidateAll(nil))
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"Income":  Income,
		"expense": Expense,
		" 수입 ":    Income,
		"지출":      Expense,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("refund")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSignedAmount(t *testing.T) {
	assert.Equal(t, int64(300), Entry{Kind: Income, Amount: 300}.SignedAmount())
	assert.Equal(t, int64(-300), Entry{Kind: Expense, Amount: 300}.SignedAmount())
}

func TestParseYearMonth(t *testing.T) {
	m, err := ParseYearMonth(" 2025-08 ")
	require.NoError(t, err)
	assert.Equal(t, "2025-08", m)

	for _, bad := range []string{"2025-13", "2025-8", "202508", ""} {
		_, err := ParseYearMonth(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestUserUnmarshalLegacyRecord(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{"username":"kim","nickname":"김","password_hash":"abc","avatar":null}`), &u)
	require.NoError(t, err)
	assert.Equal(t, "김", u.DisplayName)
	assert.False(t, u.HasAvatar())

	err = json.Unmarshal([]byte(`{"username":"lee","password_hash":"abc"}`), &u)
	require.NoError(t, err)
	assert.Equal(t, "lee", u.DisplayName)
}

func TestStorageErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	werr := &StorageWriteError{Path: "x.csv", Err: cause}
	assert.ErrorIs(t, werr, ErrStorageWrite)
	assert.ErrorIs(t, werr, cause)

	rerr := &StorageReadError{Path: "x.csv", Row: 3, Err: cause}
	assert.ErrorIs(t, rerr, ErrStorageRead)
	assert.Contains(t, rerr.Error(), "row 3")
}
