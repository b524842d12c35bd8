package models

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrValidation   = errors.New("validation failed")
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")
)

// ValidationError reports a value rejected before it reached storage.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
	// Index is the position of the offending entry within a batch.
	Index int
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageReadError means durable state could not be read or parsed.
// Row is 1-based and zero when the failure is not tied to a row.
type StorageReadError struct {
	Path string
	Row  int
	Err  error
}

func (e *StorageReadError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("read %s: row %d: %v", e.Path, e.Row, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

func (e *StorageReadError) Is(target error) bool { return target == ErrStorageRead }

// StorageWriteError means a write did not complete. The previous durable
// state is left in place.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

func (e *StorageWriteError) Is(target error) bool { return target == ErrStorageWrite }
