package mqtthost

import "errors"

// Domain errors for the MQTT host bridge.
var (
	// ErrMissingClient is returned by NewBridge without an MQTT client.
	ErrMissingClient = errors.New("mqtthost: MQTT client is required")

	// ErrMissingStore is returned by NewBridge without a store.
	ErrMissingStore = errors.New("mqtthost: store is required")

	// ErrInvalidMessage is returned for a payload that cannot be decoded.
	ErrInvalidMessage = errors.New("mqtthost: invalid message")

	// ErrUnknownTopic is returned for a message on an unexpected topic.
	ErrUnknownTopic = errors.New("mqtthost: unknown topic")
)
