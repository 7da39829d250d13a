package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrEntityNotFound) {
//	    // report DEVICE_UNREACHABLE
//	}
var (
	// ErrEntityNotFound is returned when the host has no state for an entity.
	ErrEntityNotFound = errors.New("device: entity not found")

	// ErrInvalidEntityID is returned for a malformed entity id.
	ErrInvalidEntityID = errors.New("device: invalid entity id")

	// ErrUnsupportedInstance is returned for an unknown custom property or
	// capability instance in entity configuration.
	ErrUnsupportedInstance = errors.New("device: unsupported instance")
)
