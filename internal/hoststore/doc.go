// Package hoststore persists the bridge's view of the home automation
// host in SQLite.
//
// The Store keeps:
//   - the current state of every entity (cached in memory, written through)
//   - the entity, device and area registries
//   - integration flags such as devices_discovered
//   - a journal of service calls, used when no broker is connected
//
// Store implements host.StateReader, host.Registry, host.EntryStore and
// host.ServiceCaller. States are loaded into the cache by Load on startup.
//
// Thread Safety: all methods are safe for concurrent use.
package hoststore
