package host

import (
	"context"
	"time"
)

// ServiceCall is an action invocation on the host platform, addressed as
// "domain.service". The target entity, if any, is carried in Data under
// "entity_id".
type ServiceCall struct {
	Domain  string         `json:"domain"`
	Service string         `json:"service"`
	Data    map[string]any `json:"data,omitempty"`
}

// NewServiceCall creates a call targeting entityID.
func NewServiceCall(domain, service, entityID string, data map[string]any) ServiceCall {
	d := make(map[string]any, len(data)+1)
	for k, v := range data {
		d[k] = v
	}
	if entityID != "" {
		d["entity_id"] = entityID
	}
	return ServiceCall{Domain: domain, Service: service, Data: d}
}

// Name returns "domain.service".
func (c ServiceCall) Name() string {
	return c.Domain + "." + c.Service
}

// Event is a host bus event.
type Event struct {
	Type      string         `json:"event_type"`
	Data      map[string]any `json:"data"`
	TimeFired time.Time      `json:"time_fired"`
}

// EntityEntry is the entity registry record of an entity.
type EntityEntry struct {
	EntityID     string   `json:"entity_id"`
	Name         string   `json:"name,omitempty"`
	OriginalName string   `json:"original_name,omitempty"`
	Aliases      []string `json:"aliases,omitempty"`
	AreaID       string   `json:"area_id,omitempty"`
	DeviceID     string   `json:"device_id,omitempty"`
}

// DeviceEntry is the device registry record of a physical device.
type DeviceEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	HWVersion    string `json:"hw_version,omitempty"`
	SWVersion    string `json:"sw_version,omitempty"`
	AreaID       string `json:"area_id,omitempty"`
}

// AreaEntry is the area registry record of an area.
type AreaEntry struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// StateReader reads current entity states. GetState returns ErrNotFound
// for an unknown entity.
type StateReader interface {
	GetState(ctx context.Context, entityID string) (*State, error)
	States(ctx context.Context) ([]*State, error)
}

// ServiceCaller invokes host services.
type ServiceCaller interface {
	CallService(ctx context.Context, call ServiceCall) error
}

// EventBus publishes host events.
type EventBus interface {
	FireEvent(ctx context.Context, event Event) error
}

// Registry looks up entity, device and area records. Lookups return
// ErrNotFound for unknown ids.
type Registry interface {
	Entity(ctx context.Context, entityID string) (*EntityEntry, error)
	Device(ctx context.Context, id string) (*DeviceEntry, error)
	Area(ctx context.Context, id string) (*AreaEntry, error)
}

// EntryStore persists integration-level flags.
type EntryStore interface {
	DevicesDiscovered(ctx context.Context) (bool, error)
	SetDevicesDiscovered(ctx context.Context) error
}

// Host is everything the bridge consumes from the home automation platform.
type Host interface {
	StateReader
	ServiceCaller
	EventBus
	Registry
	EntryStore
}

// Bundle assembles a Host from independent implementations.
type Bundle struct {
	StateReader
	ServiceCaller
	EventBus
	Registry
	EntryStore
}

// MultiBus fans an event out to several buses. Every bus is tried; the
// first error is returned.
type MultiBus []EventBus

// FireEvent implements EventBus.
func (m MultiBus) FireEvent(ctx context.Context, event Event) error {
	var first error
	for _, bus := range m {
		if bus == nil {
			continue
		}
		if err := bus.FireEvent(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
