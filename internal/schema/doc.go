// Package schema defines the wire model of the Yandex smart home API as seen
// by the Alice bridge.
//
// It contains closed enumerations (capability and property types, instances,
// units, device types, response codes), the parameter shapes published in
// device list responses, and the request/response payloads of the
// devices, devices/query and devices/action endpoints.
//
// # Action values
//
// The value carried by an action request depends on the capability type and
// instance. CapabilityInstanceAction decodes it into a concrete Go type:
//
//	on_off, toggle            bool
//	range                     float64
//	mode                      ModeValue
//	color_setting/rgb         int
//	color_setting/temperature_k int
//	color_setting/hsv         HSV
//	color_setting/scene       ColorScene
//	video_stream/get_stream   GetStreamValue
//
// # Errors
//
// APIError carries a ResponseCode and a human readable message. It is the
// only error type that crosses the device/handler boundary with its code
// preserved; any other error is reported as INTERNAL_ERROR.
package schema
