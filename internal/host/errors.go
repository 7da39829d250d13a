package host

import "errors"

// Domain errors for the host package.
//
//	if errors.Is(err, host.ErrNotFound) {
//	    // entity, device or area does not exist
//	}
var (
	// ErrNotFound is returned when an entity, device or area id is unknown.
	ErrNotFound = errors.New("host: not found")

	// ErrInvalidEntityID is returned when an entity id has no domain part.
	ErrInvalidEntityID = errors.New("host: invalid entity id")
)
