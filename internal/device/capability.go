package device

import (
	"context"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// CapabilityInfo identifies a capability and carries its discovery flags.
type CapabilityInfo struct {
	Type        schema.CapabilityType
	Instance    schema.CapabilityInstance
	Retrievable bool
	Reportable  bool

	// Hidden capabilities are queried and executed but not described in
	// the device list; their parameters are merged into another one.
	Hidden bool
}

// Capability is a controllable aspect of a device.
type Capability interface {
	Info() CapabilityInfo

	// Parameters returns the parameters for a device list response, or
	// nil when the capability has none.
	Parameters() any

	// Value returns the current value, or nil when there is none.
	Value(ctx context.Context) (any, error)

	// Set changes the capability state. A non-nil result is returned to
	// the platform as the action value.
	Set(ctx context.Context, state schema.CapabilityInstanceActionState) (any, error)
}

func describeCapability(c Capability) schema.CapabilityDescription {
	info := c.Info()
	return schema.CapabilityDescription{
		Type:        info.Type,
		Retrievable: info.Retrievable,
		Reportable:  info.Reportable,
		Parameters:  c.Parameters(),
	}
}

// stateCapability is the common part of capabilities bound to the state of
// the device entity.
type stateCapability struct {
	info  CapabilityInfo
	entry *Entry
	state *host.State
}

func newStateCapability(entry *Entry, state *host.State, t schema.CapabilityType, instance schema.CapabilityInstance) stateCapability {
	return stateCapability{
		info: CapabilityInfo{
			Type:        t,
			Instance:    instance,
			Retrievable: true,
			Reportable:  entry.reportable(),
		},
		entry: entry,
		state: state,
	}
}

// actionOnly marks the capability as write-only.
func (c *stateCapability) actionOnly() {
	c.info.Retrievable = false
	c.info.Reportable = false
}

func (c *stateCapability) Info() CapabilityInfo { return c.info }

func (c *stateCapability) entityID() string { return c.state.EntityID }

func (c *stateCapability) entityConfig() config.EntityConfig {
	return c.entry.entityConfig(c.state.EntityID)
}

// call invokes a service on the device entity.
func (c *stateCapability) call(ctx context.Context, domain, service string, data map[string]any) error {
	return c.entry.Host.CallService(ctx, host.NewServiceCall(domain, service, c.state.EntityID, data))
}

// callDomain invokes a service of the entity's own domain.
func (c *stateCapability) callDomain(ctx context.Context, service string, data map[string]any) error {
	return c.call(ctx, c.state.Domain(), service, data)
}
