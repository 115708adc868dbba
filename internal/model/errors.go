package model

import (
	"errors"
	"fmt"
)

// Not-ready signals. These are not failures: a poller that sees one of these
// keeps waiting, while a StorageError means something actually broke.
var (
	// ErrNotFound means the requested id has no blob yet.
	ErrNotFound = errors.New("result not found")

	// ErrNoResults means no result has ever been registered.
	ErrNoResults = errors.New("no results registered")
)

// ValidationError reports a malformed request: missing required fields or a
// malformed id. It carries no storage side effect.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Store and operation labels for StorageError.
const (
	StoreBlob = "blob"
	StoreMeta = "metadata"

	OpRead  = "read"
	OpWrite = "write"
)

// StorageError wraps a failure in one of the two backing stores, tagged with
// which store and which direction so callers can tell a failed binary write
// (nothing registered) from a failed metadata insert (orphaned blob) from a
// failed read.
type StorageError struct {
	Store string // StoreBlob or StoreMeta
	Op    string // OpRead or OpWrite
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Store, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err with store/op labels.
func NewStorageError(store, op string, err error) *StorageError {
	return &StorageError{Store: store, Op: op, Err: err}
}
