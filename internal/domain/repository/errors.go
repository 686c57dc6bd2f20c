package repository

import "errors"

// Repository errors. Implementations return these (optionally wrapped) so the
// application layer can tell absence and conflicts apart from infrastructure failures.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate")

	// ErrConflict indicates a conditional write lost against a concurrent one.
	ErrConflict = errors.New("conflict")
)
