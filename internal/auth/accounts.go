package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"personal-ledger/internal/models"
	"personal-ledger/internal/storage"
)

// Accounts maps usernames to their account records.
type Accounts map[string]models.User

// AccountFile is the JSON document holding every account.
type AccountFile struct {
	path string
}

func NewAccountFile(path string) *AccountFile {
	return &AccountFile{path: path}
}

// Path returns the location of the account file.
func (f *AccountFile) Path() string {
	return f.path
}

// Load reads all accounts, creating an empty file on first use. A file
// that exists but cannot be parsed is reported rather than treated as empty.
func (f *AccountFile) Load() (Accounts, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		accounts := Accounts{}
		if err := f.Save(accounts); err != nil {
			return nil, err
		}
		return accounts, nil
	}
	if err != nil {
		return nil, &models.StorageReadError{Path: f.path, Err: err}
	}

	var accounts Accounts
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, &models.StorageReadError{Path: f.path, Err: err}
	}
	if accounts == nil {
		// The literal "null".
		accounts = Accounts{}
	}
	for key, u := range accounts {
		if u.Username == "" {
			u.Username = key
			accounts[key] = u
		}
		if u.Username != key {
			return nil, &models.StorageReadError{Path: f.path, Err: fmt.Errorf("record %q holds username %q", key, u.Username)}
		}
	}
	return accounts, nil
}

// Save atomically replaces the file with accounts.
func (f *AccountFile) Save(accounts Accounts) error {
	if accounts == nil {
		accounts = Accounts{}
	}
	err := storage.WriteFileAtomic(f.path, 0o600, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(accounts)
	})
	if err != nil {
		return &models.StorageWriteError{Path: f.path, Err: err}
	}
	return nil
}
