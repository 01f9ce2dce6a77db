package inventory

import (
	"fmt"

	"github.com/erazemk/popis/internal/model"
)

// ErrNotFound is returned, wrapped, when a session, room or equipment
// record does not exist.
var ErrNotFound = model.ErrNotFound

// ValidationError rejects caller input. Nothing was changed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
