package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// Resolver builds devices from the current host state.
type Resolver struct {
	entry     *Entry
	catalog   *Catalog
	errorCode ErrorCodeFunc
}

// NewResolver creates a resolver over h. A nil catalog uses DefaultCatalog.
func NewResolver(h host.Host, cfg config.AliceConfig, catalog *Catalog) *Resolver {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Resolver{
		entry:   &Entry{Host: h, Config: cfg, Log: noopLogger{}},
		catalog: catalog,
	}
}

// SetLogger sets the logger used by the resolver and its devices.
func (r *Resolver) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.entry.Log = logger
}

// SetErrorCodeFunc sets the function that overrides action outcomes.
func (r *Resolver) SetErrorCodeFunc(fn ErrorCodeFunc) {
	r.errorCode = fn
}

// Host returns the host the resolver reads from.
func (r *Resolver) Host() host.Host {
	return r.entry.Host
}

// Config returns the bridge configuration.
func (r *Resolver) Config() config.AliceConfig {
	return r.entry.Config
}

// Resolve returns the device for entityID. It fails with ErrEntityNotFound
// when the host has no state for it.
func (r *Resolver) Resolve(ctx context.Context, entityID string) (*Device, error) {
	if err := host.ValidateEntityID(entityID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntityID, entityID)
	}
	st, err := r.entry.Host.GetState(ctx, entityID)
	if errors.Is(err, host.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading state of %s: %w", entityID, err)
	}
	return r.Device(st), nil
}

// Device returns the device for a state already read from the host.
func (r *Resolver) Device(st *host.State) *Device {
	return newDevice(r.entry, r.catalog, r.errorCode, st)
}

// All returns a device for every entity known to the host.
func (r *Resolver) All(ctx context.Context) ([]*Device, error) {
	states, err := r.entry.Host.States(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing states: %w", err)
	}
	devices := make([]*Device, 0, len(states))
	for _, st := range states {
		devices = append(devices, r.Device(st))
	}
	return devices, nil
}

// Unreachable returns the action result for a device that cannot be
// resolved and fires its EventDeviceAction event.
func (r *Resolver) Unreachable(ctx context.Context, entityID string) schema.ActionResultDevice {
	return unreachableResult(ctx, r.entry, entityID)
}
