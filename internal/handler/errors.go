package handler

import "errors"

// Domain errors for the handler package.
var (
	// ErrInvalidRequest is returned when a request body cannot be decoded.
	ErrInvalidRequest = errors.New("handler: invalid request")

	// ErrUnknownAction is returned by Dispatch for an unregistered action.
	ErrUnknownAction = errors.New("handler: unknown action")
)
