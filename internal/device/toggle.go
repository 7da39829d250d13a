package device

import (
	"context"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// toggleCapability switches one aspect of a device, like mute or pause.
type toggleCapability struct {
	stateCapability
	value func() any
	set   func(ctx context.Context, on bool) error
}

func newToggle(entry *Entry, state *host.State, instance schema.CapabilityInstance) *toggleCapability {
	return &toggleCapability{
		stateCapability: newStateCapability(entry, state, schema.CapabilityToggle, instance),
	}
}

func (c *toggleCapability) Parameters() any {
	return schema.ToggleCapabilityParameters{Instance: c.info.Instance}
}

func (c *toggleCapability) Value(_ context.Context) (any, error) {
	if !c.info.Retrievable || c.state.Unavailable() {
		return nil, nil
	}
	return c.value(), nil
}

func (c *toggleCapability) Set(ctx context.Context, state schema.CapabilityInstanceActionState) (any, error) {
	on, err := state.BoolValue()
	if err != nil {
		return nil, err
	}
	return nil, c.set(ctx, on)
}

// ============================================================================
// Kinds
// ============================================================================

func newMute(entry *Entry, state *host.State) Capability {
	c := newToggle(entry, state, schema.ToggleMute)
	if _, ok := state.AttrBool(attrVolumeMuted); !ok {
		c.info.Retrievable = false
	}
	c.value = func() any {
		muted, _ := state.AttrBool(attrVolumeMuted)
		return muted
	}
	c.set = func(ctx context.Context, on bool) error {
		return c.callDomain(ctx, "volume_mute", map[string]any{attrVolumeMuted: on})
	}
	return c
}

func supportsMute(entry *Entry, st *host.State) bool {
	if st.Domain() != domainMediaPlayer {
		return false
	}
	return st.HasFeature(mediaSupportVolumeMute) ||
		entry.entityConfig(st.EntityID).HasFeature(config.FeatureVolumeMute)
}

// newPause pauses media players and vacuums and stops moving covers.
func newPause(entry *Entry, state *host.State) Capability {
	c := newToggle(entry, state, schema.TogglePause)
	switch state.Domain() {
	case domainMediaPlayer:
		c.value = func() any { return state.State != "playing" }
		c.set = func(ctx context.Context, on bool) error {
			if on {
				return c.callDomain(ctx, "media_pause", nil)
			}
			return c.callDomain(ctx, "media_play", nil)
		}
	case domainVacuum:
		c.value = func() any { return state.State == "paused" }
		c.set = func(ctx context.Context, on bool) error {
			if on {
				return c.callDomain(ctx, "pause", nil)
			}
			return c.callDomain(ctx, "start", nil)
		}
	default:
		c.info.Retrievable = false
		c.value = func() any { return false }
		c.set = func(ctx context.Context, _ bool) error {
			return c.callDomain(ctx, "stop_cover", nil)
		}
	}
	return c
}

func supportsPause(_ *Entry, st *host.State) bool {
	switch st.Domain() {
	case domainMediaPlayer:
		return st.HasFeature(mediaSupportPause) && st.HasFeature(mediaSupportPlay)
	case domainVacuum:
		return st.HasFeature(vacuumSupportPause) && st.HasFeature(vacuumSupportStart)
	case domainCover:
		return st.HasFeature(coverSupportStop)
	}
	return false
}

func newOscillation(entry *Entry, state *host.State) Capability {
	c := newToggle(entry, state, schema.ToggleOscillation)
	c.value = func() any {
		v, _ := state.AttrBool("oscillating")
		return v
	}
	c.set = func(ctx context.Context, on bool) error {
		return c.callDomain(ctx, "oscillate", map[string]any{"oscillating": on})
	}
	return c
}

func supportsOscillation(_ *Entry, st *host.State) bool {
	return st.Domain() == domainFan && st.HasFeature(fanSupportOscillate)
}
