package hoststore

import "errors"

// Domain errors for the host store.
var (
	// ErrNilState is returned by PutState for a nil state.
	ErrNilState = errors.New("hoststore: nil state")

	// ErrInvalidEntry is returned for a registry entry without an id.
	ErrInvalidEntry = errors.New("hoststore: entry id is required")
)
