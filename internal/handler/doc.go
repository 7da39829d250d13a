// Package handler answers the smart home platform requests.
//
// Every request is dispatched by its action name:
//
//   - "devices": the list of exposed devices (discovery)
//   - "devices/query": current state of the requested devices
//   - "devices/action": capability changes
//   - "user/unlink": the user unlinked their account
//
// HandleRequest always produces a schema.Response. A failure that carries
// a response code (*schema.APIError) is reported with that code, anything
// else as INTERNAL_ERROR.
//
// Devices are resolved per request through a device.Resolver, so the
// answer always reflects the current host state.
package handler
