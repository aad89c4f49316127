package store

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrCorrupt wraps a decoding failure of a stored collection. The
	// collection is left untouched.
	ErrCorrupt = errors.New("corrupt collection")
)
