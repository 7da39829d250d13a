// Package host models the home automation platform the Alice bridge sits on.
//
// The bridge never owns entity state. It reads the current State of an
// entity through a StateReader, changes it by sending a ServiceCall through a
// ServiceCaller, and announces what it did on an EventBus. Names and rooms
// come from the entity, device and area Registry.
//
// Implementations:
//   - Memory: in-process host used by tests and local runs
//   - hoststore.Store: SQLite-backed states, registries and entry flags
//   - bridge.Client: MQTT service-call and event transport
//
// Bundle composes independent implementations into a single Host.
package host
