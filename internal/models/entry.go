package models

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the on-disk format of Entry.Date.
const DateLayout = "2006-01-02"

// MonthLayout is the format of the month selector used by reports.
const MonthLayout = "2006-01"

// MaxAmount is the largest amount a single entry may carry. At this bound
// the int64 totals of a ledger stay exact for up to 9,223,372 entries.
const MaxAmount int64 = 1_000_000_000_000

// Kind tells whether an entry adds to or takes from the balance.
type Kind string

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

// Labels written by the original desktop ledger.
const (
	incomeLabelKo  = "수입"
	expenseLabelKo = "지출"
)

// ParseKind maps a stored or user-typed label to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", incomeLabelKo:
		return Income, nil
	case "expense", expenseLabelKo:
		return Expense, nil
	}
	return "", &ValidationError{Field: "type", Value: s, Reason: "must be Income or Expense"}
}

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// Sign returns +1 for income and -1 for expenses.
func (k Kind) Sign() int64 {
	if k == Income {
		return 1
	}
	return -1
}

// Entry represents one dated income or expense line of a ledger.
type Entry struct {
	Date        string `json:"date"`
	Kind        Kind   `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// Validate checks the entry before it is handed to a store.
func (e Entry) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return &ValidationError{Field: "date", Value: e.Date, Reason: "must be YYYY-MM-DD"}
	}
	if !e.Kind.Valid() {
		return &ValidationError{Field: "type", Value: string(e.Kind), Reason: "must be Income or Expense"}
	}
	if strings.TrimSpace(e.Category) == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	// CSV readers fold CR LF inside quoted fields to LF, so a carriage
	// return could not be read back as written.
	if strings.ContainsRune(e.Category, '\r') {
		return &ValidationError{Field: "category", Value: e.Category, Reason: "must not contain a carriage return"}
	}
	if strings.ContainsRune(e.Description, '\r') {
		return &ValidationError{Field: "description", Value: e.Description, Reason: "must not contain a carriage return"}
	}
	if e.Amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if e.Amount > MaxAmount {
		return &ValidationError{Field: "amount", Value: strconv.FormatInt(e.Amount, 10), Reason: "exceeds the maximum of " + strconv.FormatInt(MaxAmount, 10)}
	}
	return nil
}

// SignedAmount is the entry's contribution to the balance.
func (e Entry) SignedAmount() int64 {
	return e.Kind.Sign() * e.Amount
}

// ValidateAll validates entries in order and returns the first failure,
// annotated with its position.
func ValidateAll(entries []Entry) error {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			if ve, ok := err.(*ValidationError); ok {
				ve.Index = i
			}
			return err
		}
	}
	return nil
}

// ParseYearMonth checks a YYYY-MM selector.
func ParseYearMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(MonthLayout, s); err != nil {
		return "", &ValidationError{Field: "month", Value: s, Reason: "must be YYYY-MM"}
	}
	return s, nil
}
