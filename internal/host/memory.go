package host

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Memory is an in-memory Host. It records every service call and event so
// callers can assert on them, and can be told to fail specific services.
//
// Thread Safety: all methods are safe for concurrent use.
type Memory struct {
	mu            sync.RWMutex
	states        map[string]*State
	entities      map[string]*EntityEntry
	devices       map[string]*DeviceEntry
	areas         map[string]*AreaEntry
	discovered    bool
	calls         []ServiceCall
	events        []Event
	serviceErrors map[string]error
}

// NewMemory creates an empty in-memory host.
func NewMemory() *Memory {
	return &Memory{
		states:        make(map[string]*State),
		entities:      make(map[string]*EntityEntry),
		devices:       make(map[string]*DeviceEntry),
		areas:         make(map[string]*AreaEntry),
		serviceErrors: make(map[string]error),
	}
}

// ValidateEntityID checks that id has the form "domain.object_id".
func ValidateEntityID(id string) error {
	domain := SplitEntityID(id)
	if domain == "" || domain == id || len(id) == len(domain)+1 {
		return fmt.Errorf("%w: %q", ErrInvalidEntityID, id)
	}
	return nil
}

// SetState stores a state for entityID, replacing any previous state.
func (m *Memory) SetState(entityID, state string, attrs map[string]any) error {
	return m.PutState(NewState(entityID, state, attrs))
}

// PutState stores s.
func (m *Memory) PutState(s *State) error {
	if err := ValidateEntityID(s.EntityID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[s.EntityID] = s
	return nil
}

// RemoveState forgets an entity state.
func (m *Memory) RemoveState(entityID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, entityID)
}

// GetState implements StateReader.
func (m *Memory) GetState(_ context.Context, entityID string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[entityID]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// States implements StateReader. States are ordered by entity id.
func (m *Memory) States(_ context.Context) ([]*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*State, 0, len(m.states))
	for _, s := range m.states {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *State) int {
		switch {
		case a.EntityID < b.EntityID:
			return -1
		case a.EntityID > b.EntityID:
			return 1
		}
		return 0
	})
	return out, nil
}

// AddEntity stores an entity registry record.
func (m *Memory) AddEntity(e EntityEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[e.EntityID] = &e
}

// AddDevice stores a device registry record.
func (m *Memory) AddDevice(d DeviceEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[d.ID] = &d
}

// AddArea stores an area registry record.
func (m *Memory) AddArea(a AreaEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.areas[a.ID] = &a
}

// Entity implements Registry.
func (m *Memory) Entity(_ context.Context, entityID string) (*EntityEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entities[entityID]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

// Device implements Registry.
func (m *Memory) Device(_ context.Context, id string) (*DeviceEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.devices[id]; ok {
		return d, nil
	}
	return nil, ErrNotFound
}

// Area implements Registry.
func (m *Memory) Area(_ context.Context, id string) (*AreaEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.areas[id]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

// FailService makes calls to the named "domain.service" return err.
// A nil err clears the failure.
func (m *Memory) FailService(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.serviceErrors, name)
		return
	}
	m.serviceErrors[name] = err
}

// CallService implements ServiceCaller. Failed calls are recorded too.
func (m *Memory) CallService(ctx context.Context, call ServiceCall) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.serviceErrors[call.Name()]
}

// Calls returns the recorded service calls.
func (m *Memory) Calls() []ServiceCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.calls)
}

// FireEvent implements EventBus.
func (m *Memory) FireEvent(_ context.Context, event Event) error {
	if event.TimeFired.IsZero() {
		event.TimeFired = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns the recorded events.
func (m *Memory) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.events)
}

// Reset clears recorded calls and events.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.events = nil
}

// DevicesDiscovered implements EntryStore.
func (m *Memory) DevicesDiscovered(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.discovered, nil
}

// SetDevicesDiscovered implements EntryStore.
func (m *Memory) SetDevicesDiscovered(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discovered = true
	return nil
}

var _ Host = (*Memory)(nil)
