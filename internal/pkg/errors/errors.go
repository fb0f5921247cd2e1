package errors

import "errors"

var (
	// ErrSourceNotFound is a sentinel for an expected input file that does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrStoreUnavailable is a sentinel for a store that stayed unreachable past the retry budget.
	ErrStoreUnavailable = errors.New("store unavailable")
)
