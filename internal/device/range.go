package device

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

var defaultRange = schema.RangeCapabilityRange{Min: 0, Max: 100, Precision: 1}

// applyRangeConfig overrides the bounds set in entity configuration.
func applyRangeConfig(r schema.RangeCapabilityRange, cfg config.RangeConfig) schema.RangeCapabilityRange {
	if cfg.Min != nil {
		r.Min = *cfg.Min
	}
	if cfg.Max != nil {
		r.Max = *cfg.Max
	}
	if cfg.Precision != nil {
		r.Precision = *cfg.Precision
	}
	return r
}

// rangeCapability is the common part of range capabilities. Kinds supply
// the raw value reader and the setter.
type rangeCapability struct {
	stateCapability
	unit         schema.Unit
	randomAccess bool
	bounds       schema.RangeCapabilityRange

	raw func() any
	set func(ctx context.Context, value float64, relative bool) error
}

func newRangeCapability(entry *Entry, state *host.State, instance schema.CapabilityInstance, def schema.RangeCapabilityRange, randomAccess bool) *rangeCapability {
	c := &rangeCapability{
		stateCapability: newStateCapability(entry, state, schema.CapabilityRange, instance),
		randomAccess:    randomAccess,
	}
	c.bounds = applyRangeConfig(def, c.entityConfig().Range)
	c.info.Retrievable = randomAccess
	return c
}

func (c *rangeCapability) Parameters() any {
	p := schema.RangeCapabilityParameters{
		Instance:     c.info.Instance,
		Unit:         c.unit,
		RandomAccess: c.randomAccess,
	}
	relativeOnly := !c.randomAccess &&
		(c.info.Instance == schema.RangeVolume || c.info.Instance == schema.RangeChannel)
	if !relativeOnly {
		r := c.bounds
		p.Range = &r
	}
	return p
}

// Value returns the current value. Values outside of the range are logged
// and reported as missing.
func (c *rangeCapability) Value(_ context.Context) (any, error) {
	raw := c.raw()
	v, ok, err := parseFloatValue(raw)
	if err != nil {
		return nil, schema.NewAPIError(schema.CodeNotSupportedInCurrentMode,
			"Unsupported value '%s' for instance %s of %s", host.FormatValue(raw), c.info.Instance, c.entityID())
	}
	if !ok {
		return nil, nil
	}
	if !c.bounds.Contains(v) {
		c.entry.logger().Warn(fmt.Sprintf("Value %s is not in range [%s, %s] for instance %s of %s",
			host.FormatValue(raw), formatRangeFloat(c.bounds.Min), formatRangeFloat(c.bounds.Max),
			c.info.Instance, c.entityID()))
		return nil, nil
	}
	return v, nil
}

func (c *rangeCapability) Set(ctx context.Context, state schema.CapabilityInstanceActionState) (any, error) {
	v, err := state.FloatValue()
	if err != nil {
		return nil, err
	}
	return nil, c.set(ctx, v, state.Relative)
}

// absolute applies a relative change to the current value, clamped to the
// range.
func (c *rangeCapability) absolute(ctx context.Context, delta float64) (float64, error) {
	current, err := c.Value(ctx)
	if err != nil {
		return 0, err
	}
	if current == nil {
		if c.state.State == host.StateOff {
			return 0, schema.NewAPIError(schema.CodeDeviceOff, "Device %s probably turned off", c.entityID())
		}
		return 0, schema.NewAPIError(schema.CodeInvalidValue,
			"Unable to get current value or %s instance of %s", c.info.Instance, c.entityID())
	}
	return c.bounds.Clamp(current.(float64) + delta), nil
}

// target resolves the requested value to an absolute one.
func (c *rangeCapability) target(ctx context.Context, value float64, relative bool) (float64, error) {
	if relative {
		return c.absolute(ctx, value)
	}
	return value, nil
}

// ============================================================================
// Kinds
// ============================================================================

func newCoverPosition(entry *Entry, state *host.State) Capability {
	c := newRangeCapability(entry, state, schema.RangeOpen, defaultRange, true)
	c.unit = schema.UnitPercent
	c.raw = attrRaw(state, attrCurrentPosition)
	c.set = func(ctx context.Context, value float64, relative bool) error {
		v, err := c.target(ctx, value, relative)
		if err != nil {
			return err
		}
		if state.Domain() == domainValve {
			return c.callDomain(ctx, "set_valve_position", map[string]any{"position": int(v)})
		}
		return c.callDomain(ctx, "set_cover_position", map[string]any{"position": int(v)})
	}
	return c
}

func supportsCoverPosition(_ *Entry, st *host.State) bool {
	switch st.Domain() {
	case domainCover:
		return st.HasFeature(coverSupportSetPosition)
	case domainValve:
		return st.HasFeature(valveSupportSetPosition)
	}
	return false
}

func newTargetTemperature(entry *Entry, state *host.State) Capability {
	def := schema.RangeCapabilityRange{Min: 0, Max: 100, Precision: 0.5}
	if v, ok := state.AttrFloat("min_temp"); ok {
		def.Min = v
	}
	if v, ok := state.AttrFloat("max_temp"); ok {
		def.Max = v
	}
	if v, ok := state.AttrFloat("target_temp_step"); ok {
		def.Precision = v
	}
	c := newRangeCapability(entry, state, schema.RangeTemperature, def, true)
	c.unit = schema.UnitTemperatureCelsius
	c.raw = attrRaw(state, attrTemperature)
	c.set = func(ctx context.Context, value float64, relative bool) error {
		v, err := c.target(ctx, value, relative)
		if err != nil {
			return err
		}
		return c.callDomain(ctx, "set_temperature", map[string]any{"temperature": v})
	}
	return c
}

func supportsTargetTemperature(_ *Entry, st *host.State) bool {
	switch st.Domain() {
	case domainClimate:
		return st.HasFeature(climateSupportTargetTemperature)
	case domainWaterHeater:
		return st.HasFeature(waterHeaterSupportTargetTemperature)
	}
	return false
}

func newHumidifierHumidity(entry *Entry, state *host.State) Capability {
	def := schema.RangeCapabilityRange{Min: 0, Max: 100, Precision: 1}
	if v, ok := state.AttrFloat("min_humidity"); ok {
		def.Min = v
	}
	if v, ok := state.AttrFloat("max_humidity"); ok {
		def.Max = v
	}
	c := newRangeCapability(entry, state, schema.RangeHumidity, def, true)
	c.unit = schema.UnitPercent
	c.raw = attrRaw(state, attrHumidity)
	c.set = func(ctx context.Context, value float64, relative bool) error {
		v, err := c.target(ctx, value, relative)
		if err != nil {
			return err
		}
		return c.callDomain(ctx, "set_humidity", map[string]any{"humidity": int(v)})
	}
	return c
}

func supportsHumidifierHumidity(_ *Entry, st *host.State) bool {
	return st.Domain() == domainHumidifier
}

// newFanHumidity controls the target humidity of Xiaomi humidifiers exposed
// as fans.
func newFanHumidity(entry *Entry, state *host.State) Capability {
	c := newRangeCapability(entry, state, schema.RangeHumidity, defaultRange, true)
	c.unit = schema.UnitPercent
	c.raw = attrRaw(state, attrTargetHumidity)
	c.set = func(ctx context.Context, value float64, relative bool) error {
		v, err := c.target(ctx, value, relative)
		if err != nil {
			return err
		}
		return c.call(ctx, "xiaomi_miio", "fan_set_target_humidity", map[string]any{"humidity": int(v)})
	}
	return c
}

func supportsFanHumidity(_ *Entry, st *host.State) bool {
	if st.Domain() != domainFan {
		return false
	}
	if _, ok := st.Attr(attrTargetHumidity); !ok {
		return false
	}
	return strings.HasPrefix(st.AttrString(attrModel), "zhimi.")
}

var brightnessColorModes = []string{"brightness", "color_temp", "hs", "xy", "rgb", "rgbw", "rgbww", "white"}

func newBrightness(entry *Entry, state *host.State) Capability {
	c := newRangeCapability(entry, state, schema.RangeBrightness,
		schema.RangeCapabilityRange{Min: 1, Max: 100, Precision: 1}, true)
	c.unit = schema.UnitPercent
	c.raw = func() any {
		b, ok := state.AttrFloat(attrBrightness)
		if !ok {
			return nil
		}
		return math.Round(b * 100 / 255)
	}
	c.set = func(ctx context.Context, value float64, relative bool) error {
		if relative {
			return c.callDomain(ctx, "turn_on", map[string]any{"brightness_step_pct": int(value)})
		}
		return c.callDomain(ctx, "turn_on", map[string]any{"brightness_pct": int(value)})
	}
	return c
}

func supportsBrightness(_ *Entry, st *host.State) bool {
	if st.Domain() != domainLight {
		return false
	}
	if st.HasFeature(lightSupportBrightness) {
		return true
	}
	return hasAny(st.AttrStrings(attrSupportedColorMode), brightnessColorModes...)
}

func volumeRandomAccess(entry *Entry, st *host.State) bool {
	return st.HasFeature(mediaSupportVolumeSet) ||
		entry.entityConfig(st.EntityID).HasFeature(config.FeatureVolumeSet)
}

func newVolume(entry *Entry, state *host.State) Capability {
	c := newRangeCapability(entry, state, schema.RangeVolume, defaultRange, volumeRandomAccess(entry, state))
	c.raw = func() any {
		level, ok := state.AttrFloat(attrVolumeLevel)
		if !ok {
			return nil
		}
		return math.Round(level * 100)
	}
	c.set = func(ctx context.Context, value float64, relative bool) error {
		if c.randomAccess {
			v, err := c.target(ctx, value, relative)
			if err != nil {
				return err
			}
			return c.callDomain(ctx, "volume_set", map[string]any{"volume_level": v / 100})
		}
		if !relative {
			return schema.NewAPIError(schema.CodeInvalidValue,
				"Absolute volume is not supported for %s", c.entityID())
		}

		service := "volume_up"
		if value < 0 {
			service = "volume_down"
		}
		steps := int(math.Abs(value))
		if steps == 1 {
			steps = int(c.bounds.Precision)
		}
		for range steps {
			if err := c.callDomain(ctx, service, nil); err != nil {
				return err
			}
		}
		return nil
	}
	return c
}

func supportsVolume(entry *Entry, st *host.State) bool {
	if st.Domain() != domainMediaPlayer {
		return false
	}
	return st.HasFeature(mediaSupportVolumeStep) || volumeRandomAccess(entry, st)
}

func channelNextPrevious(entry *Entry, st *host.State) bool {
	return st.HasFeature(mediaSupportPreviousTrack|mediaSupportNextTrack) ||
		entry.entityConfig(st.EntityID).HasFeature(config.FeatureNextPreviousTrack)
}

func channelRandomAccess(entry *Entry, st *host.State) bool {
	cfg := entry.entityConfig(st.EntityID)
	if cfg.SupportSetChannel != nil && !*cfg.SupportSetChannel {
		return false
	}
	return st.DeviceClass() == "tv" && st.HasFeature(mediaSupportPlayMedia)
}

func newChannel(entry *Entry, state *host.State) Capability {
	c := newRangeCapability(entry, state, schema.RangeChannel,
		schema.RangeCapabilityRange{Min: 0, Max: 999, Precision: 1}, channelRandomAccess(entry, state))
	c.raw = func() any {
		if state.AttrString(attrMediaContentType) != "channel" {
			return nil
		}
		id, err := strconv.Atoi(state.AttrString(attrMediaContentID))
		if err != nil {
			return nil
		}
		return float64(id)
	}
	playChannel := func(ctx context.Context, channel float64) error {
		err := c.callDomain(ctx, "play_media", map[string]any{
			"media_content_id":   int(channel),
			"media_content_type": "channel",
		})
		if err != nil {
			return schema.NewAPIError(schema.CodeNotSupportedInCurrentMode,
				"Failed to set channel for %s. Please change setting \"support_set_channel\" to \"false\" in "+
					"entity_config if the device does not support channel selection. Error: %v", c.entityID(), err)
		}
		return nil
	}
	c.set = func(ctx context.Context, value float64, relative bool) error {
		if !relative {
			return playChannel(ctx, value)
		}
		if c.randomAccess {
			if current, _ := c.Value(ctx); current != nil {
				return playChannel(ctx, c.bounds.Clamp(current.(float64)+value))
			}
		}
		if channelNextPrevious(entry, state) {
			if value > 0 {
				return c.callDomain(ctx, "media_next_track", nil)
			}
			return c.callDomain(ctx, "media_previous_track", nil)
		}
		return schema.NewAPIError(schema.CodeNotSupportedInCurrentMode,
			"Failed to set relative value for channel instance of %s", c.entityID())
	}
	return c
}

func supportsChannel(entry *Entry, st *host.State) bool {
	if st.Domain() != domainMediaPlayer {
		return false
	}
	return st.HasFeature(mediaSupportPlayMedia) || channelNextPrevious(entry, st)
}

// attrRaw reads an attribute of the bound state.
func attrRaw(state *host.State, name string) func() any {
	return func() any {
		v, _ := state.Attr(name)
		return v
	}
}

func hasAny(list []string, values ...string) bool {
	for _, l := range list {
		for _, v := range values {
			if l == v {
				return true
			}
		}
	}
	return false
}
