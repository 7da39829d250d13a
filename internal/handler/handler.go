package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nerrad567/gray-logic-alice/internal/device"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// PingUserID is the user id the platform uses for availability checks. A
// device list requested by it never marks devices as discovered.
const PingUserID = "ping"

// Action names.
const (
	ActionDevices      = "devices"
	ActionDeviceQuery  = "devices/query"
	ActionDeviceAction = "devices/action"
	ActionUnlink       = "user/unlink"
)

// Request is one platform request.
type Request struct {
	RequestID string
	UserID    string
	Body      []byte
}

// StatesObserver receives the device states returned by a query.
type StatesObserver func(ctx context.Context, states []schema.DeviceState)

// ActionFunc answers one action. A nil payload produces a response with
// the request id only.
type ActionFunc func(ctx context.Context, req Request) (any, error)

// Handler dispatches platform requests to device operations.
//
// Thread Safety: all methods are safe for concurrent use.
type Handler struct {
	resolver *device.Resolver
	logger   Logger
	observer StatesObserver

	mu      sync.RWMutex
	actions map[string]ActionFunc
}

// New creates a handler with the standard actions registered.
func New(resolver *device.Resolver) *Handler {
	h := &Handler{
		resolver: resolver,
		logger:   noopLogger{},
		actions:  make(map[string]ActionFunc),
	}
	h.Register(ActionDevices, func(ctx context.Context, req Request) (any, error) {
		return h.DeviceList(ctx, req)
	})
	h.Register(ActionDeviceQuery, func(ctx context.Context, req Request) (any, error) {
		return h.Query(ctx, req)
	})
	h.Register(ActionDeviceAction, func(ctx context.Context, req Request) (any, error) {
		return h.Action(ctx, req)
	})
	h.Register(ActionUnlink, h.Unlink)
	return h
}

// SetLogger sets the logger for the handler.
func (h *Handler) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	h.logger = logger
}

// SetStatesObserver sets the function that sees every query result.
func (h *Handler) SetStatesObserver(fn StatesObserver) {
	h.observer = fn
}

// Register adds or replaces the function answering action.
func (h *Handler) Register(action string, fn ActionFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions[action] = fn
}

// Actions returns the registered action names, sorted.
func (h *Handler) Actions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.actions))
	for name := range h.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the function registered for action.
func (h *Handler) Dispatch(ctx context.Context, action string, req Request) (any, error) {
	h.mu.RLock()
	fn, ok := h.actions[action]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	return fn(ctx, req)
}

// HandleRequest answers a request and never fails: errors become an error
// payload with the matching response code.
func (h *Handler) HandleRequest(ctx context.Context, action string, req Request) schema.Response {
	resp := schema.Response{RequestID: req.RequestID}

	payload, err := h.Dispatch(ctx, action, req)
	if err == nil {
		resp.Payload = payload
		return resp
	}

	code := schema.CodeInternalError
	switch apiErr, ok := schema.AsAPIError(err); {
	case errors.Is(err, ErrUnknownAction):
		h.logger.Error(fmt.Sprintf("Unexpected action '%s'", action))
	case ok:
		h.logger.Error(apiErr.Error())
		code = apiErr.Code
	default:
		h.logger.Error("Unexpected exception", "action", action, "error", err)
	}
	resp.Payload = schema.ErrorPayload{ErrorCode: code}
	return resp
}

// ============================================================================
// Devices
// ============================================================================

// DeviceList describes every exposed device. The first list requested by
// a real user marks the devices as discovered.
func (h *Handler) DeviceList(ctx context.Context, req Request) (*schema.DeviceList, error) {
	devices, err := h.resolver.All(ctx)
	if err != nil {
		return nil, err
	}

	list := &schema.DeviceList{UserID: req.UserID, Devices: []schema.DeviceDescription{}}
	for _, d := range devices {
		if !d.ShouldExpose() {
			continue
		}
		desc, err := d.Describe(ctx)
		if err != nil {
			h.logger.Error(fmt.Sprintf("Failed to describe %s", d.ID), "error", err)
			continue
		}
		if desc == nil {
			continue
		}
		if len(desc.Capabilities) == 0 && len(desc.Properties) == 0 {
			h.logger.Debug(fmt.Sprintf("Missing capabilities and properties for %s", d.ID))
			continue
		}
		list.Devices = append(list.Devices, *desc)
	}

	if req.UserID != PingUserID {
		if err := h.markDiscovered(ctx); err != nil {
			h.logger.Warn("failed to mark devices as discovered", "error", err)
		}
	}
	return list, nil
}

func (h *Handler) markDiscovered(ctx context.Context) error {
	store := h.resolver.Host()
	discovered, err := store.DevicesDiscovered(ctx)
	if err != nil {
		return err
	}
	if discovered {
		return nil
	}
	h.logger.Info("Devices discovered by the smart home platform")
	return store.SetDevicesDiscovered(ctx)
}

// ============================================================================
// Query
// ============================================================================

// Query returns the state of every requested device. Unknown and
// unexposed entities are logged; unknown ones are reported unreachable.
func (h *Handler) Query(ctx context.Context, req Request) (*schema.DeviceStates, error) {
	var body schema.StatesRequest
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	states := &schema.DeviceStates{Devices: make([]schema.DeviceState, 0, len(body.Devices))}
	for _, rd := range body.Devices {
		d, err := h.resolver.Resolve(ctx, rd.ID)
		switch {
		case errors.Is(err, device.ErrEntityNotFound), errors.Is(err, device.ErrInvalidEntityID):
			h.logUnexposed(rd.ID)
			states.Devices = append(states.Devices, schema.DeviceState{ID: rd.ID, ErrorCode: schema.CodeDeviceUnreachable})
			continue
		case err != nil:
			return nil, err
		}
		if !d.ShouldExpose() {
			h.logUnexposed(d.ID)
		}
		states.Devices = append(states.Devices, d.Query(ctx))
	}
	if h.observer != nil {
		h.observer(ctx, states.Devices)
	}
	return states, nil
}

func (h *Handler) logUnexposed(entityID string) {
	h.logger.Warn(fmt.Sprintf("State requested for unexposed entity %s. Please either expose the entity via "+
		"filters in component configuration or delete the device from Yandex.", entityID))
}

// ============================================================================
// Action
// ============================================================================

// Action applies the requested capability changes and reports a result
// for every device and capability.
func (h *Handler) Action(ctx context.Context, req Request) (*schema.ActionResult, error) {
	var body schema.ActionRequest
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	result := &schema.ActionResult{Devices: make([]schema.ActionResultDevice, 0, len(body.Payload.Devices))}
	for _, rd := range body.Payload.Devices {
		d, err := h.resolver.Resolve(ctx, rd.ID)
		switch {
		case errors.Is(err, device.ErrEntityNotFound), errors.Is(err, device.ErrInvalidEntityID):
			result.Devices = append(result.Devices, h.resolver.Unreachable(ctx, rd.ID))
			continue
		case err != nil:
			return nil, err
		}
		result.Devices = append(result.Devices, d.ExecuteAll(ctx, rd.Capabilities))
	}
	return result, nil
}

// ============================================================================
// Unlink
// ============================================================================

// Unlink acknowledges that the user unlinked their account.
func (h *Handler) Unlink(_ context.Context, req Request) (any, error) {
	h.logger.Info("Account unlinked", "user_id", req.UserID)
	return nil, nil
}
