package device

import (
	"context"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// onOffCapability switches an entity on and off. Kinds differ in how the
// value is read and which services are called; a service call configured
// in turn_on/turn_off replaces the built-in one.
type onOffCapability struct {
	stateCapability
	split bool

	value   func() any
	turnOn  func(ctx context.Context) error
	turnOff func(ctx context.Context) error
}

func newOnOff(entry *Entry, state *host.State) *onOffCapability {
	c := &onOffCapability{
		stateCapability: newStateCapability(entry, state, schema.CapabilityOnOff, schema.InstanceOn),
	}
	c.value = func() any { return state.State == host.StateOn }
	c.turnOn = func(ctx context.Context) error { return c.callDomain(ctx, "turn_on", nil) }
	c.turnOff = func(ctx context.Context) error { return c.callDomain(ctx, "turn_off", nil) }
	return c
}

func (c *onOffCapability) Parameters() any {
	if c.split || !c.info.Retrievable {
		return schema.OnOffCapabilityParameters{Split: true}
	}
	return nil
}

func (c *onOffCapability) Value(_ context.Context) (any, error) {
	if !c.info.Retrievable || c.state.Unavailable() {
		return nil, nil
	}
	return c.value(), nil
}

func (c *onOffCapability) Set(ctx context.Context, state schema.CapabilityInstanceActionState) (any, error) {
	on, err := state.BoolValue()
	if err != nil {
		return nil, err
	}

	cfg := c.entityConfig()
	if on && cfg.TurnOn.Call != nil {
		return nil, callConfigured(ctx, c.entry, c.entityID(), *cfg.TurnOn.Call, on)
	}
	if !on && cfg.TurnOff.Call != nil {
		return nil, callConfigured(ctx, c.entry, c.entityID(), *cfg.TurnOff.Call, on)
	}

	if on {
		return nil, c.turnOn(ctx)
	}
	return nil, c.turnOff(ctx)
}

// ============================================================================
// Kinds
// ============================================================================

var basicOnOffDomains = map[string]bool{
	domainAutomation:   true,
	domainFan:          true,
	domainHumidifier:   true,
	domainInputBoolean: true,
	domainLight:        true,
	domainRemote:       true,
	domainSiren:        true,
	domainSwitch:       true,
}

func newBasicOnOff(entry *Entry, state *host.State) Capability {
	return newOnOff(entry, state)
}

// supportsBasicOnOff also accepts any entity with a configured turn_on
// service call.
func supportsBasicOnOff(entry *Entry, st *host.State) bool {
	return basicOnOffDomains[st.Domain()] || entry.entityConfig(st.EntityID).TurnOn.Call != nil
}

func newGroupOnOff(entry *Entry, state *host.State) Capability {
	c := newOnOff(entry, state)
	c.value = func() any { return state.State == host.StateOn || state.State == host.StateOpen }
	c.turnOn = func(ctx context.Context) error { return c.call(ctx, "homeassistant", "turn_on", nil) }
	c.turnOff = func(ctx context.Context) error { return c.call(ctx, "homeassistant", "turn_off", nil) }
	return c
}

func supportsGroupOnOff(_ *Entry, st *host.State) bool {
	return st.Domain() == domainGroup
}

// newActionOnOff activates scenes, scripts and buttons. Both values run
// the same service.
func newActionOnOff(entry *Entry, state *host.State) Capability {
	c := newOnOff(entry, state)
	c.actionOnly()
	activate := func(ctx context.Context) error {
		switch state.Domain() {
		case domainButton, domainInputButton:
			return c.callDomain(ctx, "press", nil)
		}
		return c.callDomain(ctx, "turn_on", nil)
	}
	c.turnOn, c.turnOff = activate, activate
	return c
}

func supportsActionOnOff(_ *Entry, st *host.State) bool {
	switch st.Domain() {
	case domainScene, domainScript, domainButton, domainInputButton:
		return true
	}
	return false
}

func newCoverOnOff(entry *Entry, state *host.State) Capability {
	c := newOnOff(entry, state)
	prefix := "cover"
	if state.Domain() == domainValve {
		prefix = "valve"
	}
	c.value = func() any { return state.State == host.StateOpen || state.State == "opening" }
	c.turnOn = func(ctx context.Context) error { return c.callDomain(ctx, "open_"+prefix, nil) }
	c.turnOff = func(ctx context.Context) error { return c.callDomain(ctx, "close_"+prefix, nil) }
	if !state.HasFeature(coverSupportOpen|coverSupportClose) && state.Domain() == domainCover {
		c.split = true
	}
	return c
}

func supportsCoverOnOff(_ *Entry, st *host.State) bool {
	return st.Domain() == domainCover || st.Domain() == domainValve
}

func newLockOnOff(entry *Entry, state *host.State) Capability {
	c := newOnOff(entry, state)
	c.value = func() any { return state.State == "unlocked" || state.State == host.StateOpen }
	c.turnOn = func(ctx context.Context) error { return c.callDomain(ctx, "unlock", nil) }
	c.turnOff = func(ctx context.Context) error { return c.callDomain(ctx, "lock", nil) }
	return c
}

func supportsLockOnOff(_ *Entry, st *host.State) bool {
	return st.Domain() == domainLock
}

func newMediaPlayerOnOff(entry *Entry, state *host.State) Capability {
	c := newOnOff(entry, state)
	c.value = func() any { return state.State != host.StateOff && state.State != "standby" }
	c.split = !state.HasFeature(mediaSupportTurnOn | mediaSupportTurnOff)
	return c
}

func supportsMediaPlayerOnOff(entry *Entry, st *host.State) bool {
	if st.Domain() != domainMediaPlayer {
		return false
	}
	return st.HasFeature(mediaSupportTurnOn) || st.HasFeature(mediaSupportTurnOff) ||
		entry.entityConfig(st.EntityID).TurnOn.Call != nil
}

func newVacuumOnOff(entry *Entry, state *host.State) Capability {
	c := newOnOff(entry, state)
	c.value = func() any { return state.State == host.StateOn || state.State == "cleaning" }
	c.turnOn = func(ctx context.Context) error {
		if state.HasFeature(vacuumSupportStart) {
			return c.callDomain(ctx, "start", nil)
		}
		return c.callDomain(ctx, "turn_on", nil)
	}
	c.turnOff = func(ctx context.Context) error {
		switch {
		case state.HasFeature(vacuumSupportReturnHome):
			return c.callDomain(ctx, "return_to_base", nil)
		case state.HasFeature(vacuumSupportStop):
			return c.callDomain(ctx, "stop", nil)
		}
		return c.callDomain(ctx, "turn_off", nil)
	}
	return c
}

func supportsVacuumOnOff(_ *Entry, st *host.State) bool {
	if st.Domain() != domainVacuum {
		return false
	}
	return st.HasFeature(vacuumSupportStart) ||
		st.HasFeature(vacuumSupportTurnOn|vacuumSupportTurnOff) ||
		st.HasFeature(vacuumSupportReturnHome) || st.HasFeature(vacuumSupportStop)
}

// newClimateOnOff turns climate devices and water heaters off, and on
// again through the host's generic turn_on service.
func newClimateOnOff(entry *Entry, state *host.State) Capability {
	c := newOnOff(entry, state)
	c.value = func() any { return state.State != host.StateOff }
	return c
}

func supportsClimateOnOff(_ *Entry, st *host.State) bool {
	return st.Domain() == domainClimate || st.Domain() == domainWaterHeater
}
