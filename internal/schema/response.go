package schema

import (
	"errors"
	"fmt"
)

// ResponseCode is an error code understood by the smart home API.
type ResponseCode string

// Response codes.
const (
	CodeDoorOpen                  ResponseCode = "DOOR_OPEN"
	CodeLidOpen                   ResponseCode = "LID_OPEN"
	CodeRemoteControlDisabled     ResponseCode = "REMOTE_CONTROL_DISABLED"
	CodeNotEnoughWater            ResponseCode = "NOT_ENOUGH_WATER"
	CodeLowChargeLevel            ResponseCode = "LOW_CHARGE_LEVEL"
	CodeContainerFull             ResponseCode = "CONTAINER_FULL"
	CodeContainerEmpty            ResponseCode = "CONTAINER_EMPTY"
	CodeDripTrayFull              ResponseCode = "DRIP_TRAY_FULL"
	CodeDeviceStuck               ResponseCode = "DEVICE_STUCK"
	CodeDeviceOff                 ResponseCode = "DEVICE_OFF"
	CodeFirmwareOutOfDate         ResponseCode = "FIRMWARE_OUT_OF_DATE"
	CodeNotEnoughDetergent        ResponseCode = "NOT_ENOUGH_DETERGENT"
	CodeHumanInvolvementNeeded    ResponseCode = "HUMAN_INVOLVEMENT_NEEDED"
	CodeDeviceUnreachable         ResponseCode = "DEVICE_UNREACHABLE"
	CodeDeviceBusy                ResponseCode = "DEVICE_BUSY"
	CodeInternalError             ResponseCode = "INTERNAL_ERROR"
	CodeInvalidAction             ResponseCode = "INVALID_ACTION"
	CodeInvalidValue              ResponseCode = "INVALID_VALUE"
	CodeNotSupportedInCurrentMode ResponseCode = "NOT_SUPPORTED_IN_CURRENT_MODE"
	CodeAccountLinkingError       ResponseCode = "ACCOUNT_LINKING_ERROR"
	CodeDeviceNotFound            ResponseCode = "DEVICE_NOT_FOUND"
)

// AllResponseCodes returns every known response code.
func AllResponseCodes() []ResponseCode {
	return []ResponseCode{
		CodeDoorOpen, CodeLidOpen, CodeRemoteControlDisabled, CodeNotEnoughWater,
		CodeLowChargeLevel, CodeContainerFull, CodeContainerEmpty, CodeDripTrayFull,
		CodeDeviceStuck, CodeDeviceOff, CodeFirmwareOutOfDate, CodeNotEnoughDetergent,
		CodeHumanInvolvementNeeded, CodeDeviceUnreachable, CodeDeviceBusy, CodeInternalError,
		CodeInvalidAction, CodeInvalidValue, CodeNotSupportedInCurrentMode,
		CodeAccountLinkingError, CodeDeviceNotFound,
	}
}

// ParseResponseCode returns the response code matching s.
func ParseResponseCode(s string) (ResponseCode, bool) {
	for _, c := range AllResponseCodes() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// APIError is a failure that maps to a specific response code.
type APIError struct {
	Code    ResponseCode
	Message string
}

// NewAPIError creates an APIError with a formatted message.
func NewAPIError(code ResponseCode, format string, args ...any) *APIError {
	return &APIError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error returns the message followed by the code, "message (CODE)".
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Is reports whether target is an APIError with the same code.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// AsAPIError extracts an APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Response is the outer envelope of every API response.
type Response struct {
	RequestID string `json:"request_id"`
	Payload   any    `json:"payload,omitempty"`
}

// ErrorPayload is the payload of a failed request.
type ErrorPayload struct {
	ErrorCode    ResponseCode `json:"error_code"`
	ErrorMessage string       `json:"error_message,omitempty"`
}
