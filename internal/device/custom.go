package device

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// valuePlaceholders are replaced with the requested value in configured
// service call data.
var valuePlaceholders = []string{"{{ value }}", "{{value}}"}

// callConfigured runs a service call from entity configuration. When the
// call has no entity_id the device entity is not implied.
func callConfigured(ctx context.Context, entry *Entry, deviceID string, call config.ServiceCallConfig, value any) error {
	domain, service := call.Split()
	if domain == "" || service == "" {
		return schema.NewAPIError(schema.CodeInternalError, "Invalid service %q in configuration of %s", call.Service, deviceID)
	}
	data, _ := substituteValue(call.Data, value).(map[string]any)
	return entry.Host.CallService(ctx, host.NewServiceCall(domain, service, call.EntityID, data))
}

func substituteValue(v any, value any) any {
	switch x := v.(type) {
	case string:
		if slices.Contains(valuePlaceholders, strings.TrimSpace(x)) {
			return value
		}
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = substituteValue(item, value)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = substituteValue(item, value)
		}
		return out
	}
	return v
}

// serviceValue renders integral floats as ints.
func serviceValue(v float64) any {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return int(v)
	}
	return v
}

// customCapability is the common part of capabilities declared in entity
// configuration.
type customCapability struct {
	info     CapabilityInfo
	entry    *Entry
	deviceID string
	cfg      config.CustomCapabilityConfig
	source   valueSource
}

func newCustomCapability(entry *Entry, state *host.State, t schema.CapabilityType, cfg config.CustomCapabilityConfig) customCapability {
	source := valueSource{entry: entry, entityID: state.EntityID, attribute: cfg.StateAttribute, bound: state}
	if cfg.StateEntityID != "" && cfg.StateEntityID != state.EntityID {
		source = valueSource{entry: entry, entityID: cfg.StateEntityID, attribute: cfg.StateAttribute}
	}
	return customCapability{
		info: CapabilityInfo{
			Type:        t,
			Instance:    schema.CapabilityInstance(cfg.Instance),
			Retrievable: cfg.StateEntityID != "" || cfg.StateAttribute != "",
			Reportable:  entry.reportable(),
		},
		entry:    entry,
		deviceID: state.EntityID,
		cfg:      cfg,
		source:   source,
	}
}

func (c *customCapability) Info() CapabilityInfo { return c.info }

func (c *customCapability) rawValue(ctx context.Context) (any, error) {
	if !c.info.Retrievable {
		return nil, nil
	}
	st, raw, err := c.source.read(ctx)
	if err != nil || st == nil {
		return nil, err
	}
	return raw, nil
}

// ============================================================================
// Mode
// ============================================================================

type customMode struct {
	customCapability
	modes modeMap
}

func newCustomMode(entry *Entry, state *host.State, cfg config.CustomCapabilityConfig) *customMode {
	return &customMode{
		customCapability: newCustomCapability(entry, state, schema.CapabilityMode, cfg),
		modes:            configuredModes(entry.entityConfig(state.EntityID), schema.CapabilityInstance(cfg.Instance)),
	}
}

func (c *customMode) Parameters() any {
	return schema.ModeCapabilityParameters{Instance: c.info.Instance, Modes: c.modes.parameters()}
}

func (c *customMode) Value(ctx context.Context) (any, error) {
	raw, err := c.rawValue(ctx)
	if err != nil || raw == nil {
		return nil, err
	}
	if m, ok := c.modes.toMode(host.FormatValue(raw)); ok {
		return m, nil
	}
	return nil, nil
}

func (c *customMode) Set(ctx context.Context, state schema.CapabilityInstanceActionState) (any, error) {
	mode, ok := state.Value.(schema.ModeValue)
	if !ok {
		return nil, schema.NewAPIError(schema.CodeInvalidValue, "Unexpected value %v for instance %s", state.Value, state.Instance)
	}
	native, ok := c.modes.toNative(mode)
	if !ok {
		return nil, schema.NewAPIError(schema.CodeInvalidValue,
			"Unsupported mode '%s' for %s instance of %s", mode, c.info.Instance, c.deviceID)
	}
	return nil, callConfigured(ctx, c.entry, c.deviceID, *c.cfg.SetMode, native)
}

// ============================================================================
// Toggle
// ============================================================================

type customToggle struct {
	customCapability
}

func newCustomToggle(entry *Entry, state *host.State, cfg config.CustomCapabilityConfig) *customToggle {
	return &customToggle{customCapability: newCustomCapability(entry, state, schema.CapabilityToggle, cfg)}
}

func (c *customToggle) Parameters() any {
	return schema.ToggleCapabilityParameters{Instance: c.info.Instance}
}

func (c *customToggle) Value(ctx context.Context) (any, error) {
	raw, err := c.rawValue(ctx)
	if err != nil || raw == nil {
		return nil, err
	}
	v := strings.ToLower(host.FormatValue(raw))
	if host.IsNoValue(v) {
		return nil, nil
	}
	return slices.Contains([]string{host.StateOn, "true", "1"}, v), nil
}

func (c *customToggle) Set(ctx context.Context, state schema.CapabilityInstanceActionState) (any, error) {
	on, err := state.BoolValue()
	if err != nil {
		return nil, err
	}
	call := c.cfg.TurnOff
	if on {
		call = c.cfg.TurnOn
	}
	if call == nil {
		return nil, schema.NewAPIError(schema.CodeNotSupportedInCurrentMode,
			"Missing service call for %s instance of %s", c.info.Instance, c.deviceID)
	}
	return nil, callConfigured(ctx, c.entry, c.deviceID, *call, on)
}

// ============================================================================
// Range
// ============================================================================

type customRange struct {
	customCapability
	bounds schema.RangeCapabilityRange
}

func newCustomRange(entry *Entry, state *host.State, cfg config.CustomCapabilityConfig) *customRange {
	c := &customRange{
		customCapability: newCustomCapability(entry, state, schema.CapabilityRange, cfg),
		bounds:           applyRangeConfig(defaultRange, cfg.Range),
	}
	if !c.randomAccess() {
		c.info.Retrievable = false
	}
	return c
}

func (c *customRange) randomAccess() bool {
	return c.cfg.SetValue != nil
}

func (c *customRange) Parameters() any {
	p := schema.RangeCapabilityParameters{
		Instance:     c.info.Instance,
		RandomAccess: c.randomAccess(),
	}
	if c.info.Instance == schema.RangeBrightness || c.info.Instance == schema.RangeHumidity ||
		c.info.Instance == schema.RangeOpen {
		p.Unit = schema.UnitPercent
	}
	if c.info.Instance == schema.RangeTemperature {
		p.Unit = schema.UnitTemperatureCelsius
	}
	if c.randomAccess() || (c.info.Instance != schema.RangeVolume && c.info.Instance != schema.RangeChannel) {
		r := c.bounds
		p.Range = &r
	}
	return p
}

func (c *customRange) Value(ctx context.Context) (any, error) {
	raw, err := c.rawValue(ctx)
	if err != nil || raw == nil {
		return nil, err
	}
	v, ok, err := parseFloatValue(raw)
	if err != nil {
		return nil, schema.NewAPIError(schema.CodeNotSupportedInCurrentMode,
			"Unsupported value '%s' for instance %s of %s", host.FormatValue(raw), c.info.Instance, c.deviceID)
	}
	if !ok {
		return nil, nil
	}
	if !c.bounds.Contains(v) {
		c.entry.logger().Warn(fmt.Sprintf("Value %s is not in range [%s, %s] for instance %s of %s",
			host.FormatValue(raw), formatRangeFloat(c.bounds.Min), formatRangeFloat(c.bounds.Max),
			c.info.Instance, c.deviceID))
		return nil, nil
	}
	return v, nil
}

func (c *customRange) Set(ctx context.Context, state schema.CapabilityInstanceActionState) (any, error) {
	v, err := state.FloatValue()
	if err != nil {
		return nil, err
	}

	if state.Relative {
		switch {
		case v >= 0 && c.cfg.IncreaseValue != nil:
			return nil, callConfigured(ctx, c.entry, c.deviceID, *c.cfg.IncreaseValue, serviceValue(v))
		case v < 0 && c.cfg.DecreaseValue != nil:
			return nil, callConfigured(ctx, c.entry, c.deviceID, *c.cfg.DecreaseValue, serviceValue(v))
		}

		current, err := c.Value(ctx)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, schema.NewAPIError(schema.CodeInvalidValue,
				"Unable to get current value or %s instance of %s", c.info.Instance, c.deviceID)
		}
		v = c.bounds.Clamp(current.(float64) + v)
	}

	if c.cfg.SetValue == nil {
		return nil, schema.NewAPIError(schema.CodeNotSupportedInCurrentMode,
			"Missing set_value service call for %s instance of %s", c.info.Instance, c.deviceID)
	}
	return nil, callConfigured(ctx, c.entry, c.deviceID, *c.cfg.SetValue, serviceValue(v))
}

// customCapabilities builds the capabilities declared in entity
// configuration: modes, toggles, then ranges, each in document order.
// Declarations with an unknown instance are logged and skipped.
func customCapabilities(entry *Entry, state *host.State) []Capability {
	cfg := entry.entityConfig(state.EntityID)
	var caps []Capability

	for _, cc := range cfg.CustomModes {
		if !validCustom(entry, state, schema.CapabilityMode, cc) {
			continue
		}
		if cc.SetMode == nil {
			continue
		}
		caps = append(caps, newCustomMode(entry, state, cc))
	}
	for _, cc := range cfg.CustomToggles {
		if !validCustom(entry, state, schema.CapabilityToggle, cc) {
			continue
		}
		caps = append(caps, newCustomToggle(entry, state, cc))
	}
	for _, cc := range cfg.CustomRanges {
		if !validCustom(entry, state, schema.CapabilityRange, cc) {
			continue
		}
		caps = append(caps, newCustomRange(entry, state, cc))
	}
	return caps
}

func validCustom(entry *Entry, state *host.State, t schema.CapabilityType, cc config.CustomCapabilityConfig) bool {
	instance := schema.CapabilityInstance(cc.Instance)
	if instance == schema.ColorBase || !schema.ValidInstance(t, instance) {
		entry.logger().Error(fmt.Sprintf("Unsupported instance %s for %s of %s", cc.Instance, t, state.EntityID),
			"error", ErrUnsupportedInstance)
		return false
	}
	return true
}
