// Package device resolves host entities into smart home devices.
//
// A Device is built fresh for every request from the current host state
// of one entity and its entity configuration. It owns an ordered list of
// capabilities (things the platform can change) and properties (things
// it can only read), resolved from:
//
//   - custom capabilities and properties declared in entity configuration
//   - the Catalog of built-in kinds, tried in priority order
//
// Duplicates by (type, instance) are dropped, the first one wins.
//
// The package answers the three operations of the smart home API:
//
//   - Describe: the device list entry (name, room, type, parameters)
//   - Query: current values of retrievable capabilities and properties
//   - Execute: a capability change, always returned as a result record
//
// Every executed action fires an EventDeviceAction event on the host bus.
//
// Thread Safety:
//   - Catalog and Resolver are immutable after construction and safe for
//     concurrent use.
//   - Device values are not shared between requests and hold no locks.
//
// Usage:
//
//	res := device.NewResolver(h, cfg.Alice, device.DefaultCatalog())
//	res.SetLogger(logger)
//	d, err := res.Resolve(ctx, "light.kitchen")
//	if err != nil {
//	    return err
//	}
//	state := d.Query(ctx)
package device
