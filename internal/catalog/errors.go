package catalog

import "errors"

var (
	// ErrNotFound means no entry has the requested id.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrInvalidEntry means an entry exists but violates the catalog schema.
	ErrInvalidEntry = errors.New("catalog entry invalid")
)
