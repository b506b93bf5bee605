package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a uniqueness violation, typically two concurrent
	// writers racing on the same username or active thread. Callers may retry.
	ErrConflict = errors.New("repository: conflict")
)
