// Package api implements the HTTP server of the Alice bridge.
//
// This package provides:
//   - The smart home platform endpoints under /v1.0
//   - JWT bearer authentication mapping the token subject to the user id
//   - A WebSocket hub broadcasting device action events
//   - Health, metrics and service call journal endpoints under /api/v1
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Platform Endpoints
//
//	HEAD /v1.0                          availability check
//	GET  /v1.0/user/devices             device list
//	POST /v1.0/user/devices/query       device states
//	POST /v1.0/user/devices/action      capability actions
//	POST /v1.0/user/unlink              account unlink
//
// Platform requests always answer 200 with the response envelope; failures
// are carried as an error code in the payload. Only authentication failures
// produce a 401, which makes the platform ask the user to link the account
// again.
//
// # WebSocket
//
// Clients obtain a single-use ticket with an authenticated POST to
// /api/v1/auth/ws-ticket, connect to the configured path with
// ?ticket=..., and subscribe to event types such as "alice_device_action".
// The Hub implements host.EventBus.
package api
