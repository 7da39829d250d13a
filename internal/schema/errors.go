package schema

import "errors"

// Domain errors for request decoding.
//
// Use errors.Is() to check:
//
//	var req ActionRequest
//	if err := json.Unmarshal(body, &req); errors.Is(err, schema.ErrInvalidPayload) {
//	    // reply with INVALID_VALUE
//	}
var (
	// ErrInvalidPayload is returned when a request payload does not match the
	// declared capability type, instance or value shape.
	ErrInvalidPayload = errors.New("schema: invalid payload")

	// ErrInvalidParameters is returned when capability parameters are incomplete.
	ErrInvalidParameters = errors.New("schema: invalid parameters")
)
