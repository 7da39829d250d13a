package device

import (
	"context"
	"slices"
	"strings"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// modeEntry is one mode value and the entity values it stands for.
type modeEntry struct {
	mode   schema.ModeValue
	native []string
}

// modeMap is an ordered mapping between mode values and entity values.
type modeMap []modeEntry

func (m modeMap) toMode(native string) (schema.ModeValue, bool) {
	for _, e := range m {
		for _, n := range e.native {
			if strings.EqualFold(n, native) {
				return e.mode, true
			}
		}
	}
	return "", false
}

func (m modeMap) toNative(mode schema.ModeValue) (string, bool) {
	for _, e := range m {
		if e.mode == mode && len(e.native) > 0 {
			return e.native[0], true
		}
	}
	return "", false
}

func (m modeMap) parameters() []schema.ModeCapabilityMode {
	out := make([]schema.ModeCapabilityMode, 0, len(m))
	for _, e := range m {
		out = append(out, schema.ModeCapabilityMode{Value: e.mode})
	}
	return out
}

// configuredModes returns the modes entity configuration declares for
// instance, in mode value order.
func configuredModes(cfg config.EntityConfig, instance schema.CapabilityInstance) modeMap {
	declared := cfg.Modes[string(instance)]
	if len(declared) == 0 {
		return nil
	}
	var out modeMap
	for _, mode := range schema.AllModeValues() {
		if native, ok := declared[string(mode)]; ok && len(native) > 0 {
			out = append(out, modeEntry{mode: mode, native: native})
		}
	}
	return out
}

// buildModes maps the entity values in available onto mode values. A
// configured mapping replaces the defaults. With ordinals, entity values
// left unmapped are assigned the free ordinal modes in order.
func buildModes(available []string, defaults, configured modeMap, ordinals bool) modeMap {
	if len(configured) > 0 {
		return configured
	}

	var out modeMap
	used := make(map[string]bool)
	for _, d := range defaults {
		var native []string
		for _, a := range available {
			if slices.ContainsFunc(d.native, func(n string) bool { return strings.EqualFold(n, a) }) {
				native = append(native, a)
				used[a] = true
			}
		}
		if len(native) > 0 {
			out = append(out, modeEntry{mode: d.mode, native: native})
		}
	}

	if !ordinals {
		return out
	}
	free := slices.DeleteFunc(schema.OrdinalModes(), func(m schema.ModeValue) bool {
		return slices.ContainsFunc(out, func(e modeEntry) bool { return e.mode == m })
	})
	for _, a := range available {
		if used[a] || strings.EqualFold(a, host.StateOff) || len(free) == 0 {
			continue
		}
		out = append(out, modeEntry{mode: free[0], native: []string{a}})
		free = free[1:]
	}
	return out
}

// modeSpec describes how a mode kind talks to its entity.
type modeSpec struct {
	instance schema.CapabilityInstance
	domain   string
	feature  int

	listAttr    string
	currentAttr string // empty reads the entity state
	service     string
	dataKey     string

	defaults modeMap
	ordinals bool
}

func (s modeSpec) modes(entry *Entry, st *host.State) modeMap {
	return buildModes(st.AttrStrings(s.listAttr), s.defaults,
		configuredModes(entry.entityConfig(st.EntityID), s.instance), s.ordinals)
}

func (s modeSpec) supported(entry *Entry, st *host.State) bool {
	if st.Domain() != s.domain || !st.HasFeature(s.feature) {
		return false
	}
	return len(s.modes(entry, st)) > 0
}

type modeCapability struct {
	stateCapability
	spec  modeSpec
	modes modeMap
}

func (s modeSpec) capability(entry *Entry, st *host.State) Capability {
	return &modeCapability{
		stateCapability: newStateCapability(entry, st, schema.CapabilityMode, s.instance),
		spec:            s,
		modes:           s.modes(entry, st),
	}
}

func (c *modeCapability) Parameters() any {
	return schema.ModeCapabilityParameters{Instance: c.info.Instance, Modes: c.modes.parameters()}
}

func (c *modeCapability) Value(_ context.Context) (any, error) {
	current := c.state.State
	if c.spec.currentAttr != "" {
		current = c.state.AttrString(c.spec.currentAttr)
	}
	if host.IsNoValue(current) {
		return nil, nil
	}
	if m, ok := c.modes.toMode(current); ok {
		return m, nil
	}
	return nil, nil
}

func (c *modeCapability) Set(ctx context.Context, state schema.CapabilityInstanceActionState) (any, error) {
	mode, ok := state.Value.(schema.ModeValue)
	if !ok {
		return nil, schema.NewAPIError(schema.CodeInvalidValue, "Unexpected value %v for instance %s", state.Value, state.Instance)
	}
	native, ok := c.modes.toNative(mode)
	if !ok {
		return nil, schema.NewAPIError(schema.CodeInvalidValue,
			"Unsupported mode '%s' for %s instance of %s", mode, c.info.Instance, c.entityID())
	}
	return nil, c.callDomain(ctx, c.spec.service, map[string]any{c.spec.dataKey: native})
}

// ============================================================================
// Kinds
// ============================================================================

var fanSpeedDefaults = modeMap{
	{schema.ModeValueAuto, []string{"auto"}},
	{schema.ModeValueQuiet, []string{"quiet", "silent", "sleep", "night"}},
	{schema.ModeValueLow, []string{"low", "min", "level 1"}},
	{schema.ModeValueMedium, []string{"medium", "middle", "mid", "level 2"}},
	{schema.ModeValueHigh, []string{"high", "strong", "level 3"}},
	{schema.ModeValueTurbo, []string{"turbo", "boost", "favorite"}},
	{schema.ModeValueMax, []string{"max", "maximum"}},
}

var thermostatMode = modeSpec{
	instance: schema.ModeThermostat,
	domain:   domainClimate,
	listAttr: "hvac_modes",
	service:  "set_hvac_mode",
	dataKey:  "hvac_mode",
	defaults: modeMap{
		{schema.ModeValueHeat, []string{"heat"}},
		{schema.ModeValueCool, []string{"cool"}},
		{schema.ModeValueAuto, []string{"heat_cool", "auto"}},
		{schema.ModeValueDry, []string{"dry"}},
		{schema.ModeValueFanOnly, []string{"fan_only"}},
	},
}

var swingMode = modeSpec{
	instance:    schema.ModeSwing,
	domain:      domainClimate,
	feature:     climateSupportSwingMode,
	listAttr:    "swing_modes",
	currentAttr: "swing_mode",
	service:     "set_swing_mode",
	dataKey:     "swing_mode",
	defaults: modeMap{
		{schema.ModeValueVertical, []string{"vertical"}},
		{schema.ModeValueHorizontal, []string{"horizontal"}},
		{schema.ModeValueStationary, []string{"off"}},
		{schema.ModeValueAuto, []string{"both", "auto", "on"}},
	},
}

var climateFanSpeedMode = modeSpec{
	instance:    schema.ModeFanSpeed,
	domain:      domainClimate,
	feature:     climateSupportFanMode,
	listAttr:    "fan_modes",
	currentAttr: "fan_mode",
	service:     "set_fan_mode",
	dataKey:     "fan_mode",
	defaults:    fanSpeedDefaults,
}

var fanPresetMode = modeSpec{
	instance:    schema.ModeFanSpeed,
	domain:      domainFan,
	feature:     fanSupportPresetMode,
	listAttr:    "preset_modes",
	currentAttr: "preset_mode",
	service:     "set_preset_mode",
	dataKey:     "preset_mode",
	defaults:    fanSpeedDefaults,
}

var cleanupMode = modeSpec{
	instance:    schema.ModeCleanupMode,
	domain:      domainVacuum,
	feature:     vacuumSupportFanSpeed,
	listAttr:    "fan_speed_list",
	currentAttr: "fan_speed",
	service:     "set_fan_speed",
	dataKey:     "fan_speed",
	defaults: modeMap{
		{schema.ModeValueQuiet, []string{"quiet", "silent"}},
		{schema.ModeValueEco, []string{"eco"}},
		{schema.ModeValueNormal, []string{"standard", "balanced", "normal", "medium"}},
		{schema.ModeValueTurbo, []string{"turbo", "strong", "high"}},
		{schema.ModeValueMax, []string{"max", "maximum", "max+"}},
	},
}

var inputSourceMode = modeSpec{
	instance:    schema.ModeInputSource,
	domain:      domainMediaPlayer,
	feature:     mediaSupportSelectSource,
	listAttr:    "source_list",
	currentAttr: "source",
	service:     "select_source",
	dataKey:     "source",
	ordinals:    true,
}

var humidifierProgramMode = modeSpec{
	instance:    schema.ModeProgram,
	domain:      domainHumidifier,
	feature:     humidifierSupportModes,
	listAttr:    "available_modes",
	currentAttr: "mode",
	service:     "set_mode",
	dataKey:     "mode",
	defaults: modeMap{
		{schema.ModeValueAuto, []string{"auto"}},
		{schema.ModeValueEco, []string{"eco"}},
		{schema.ModeValueNormal, []string{"normal", "home"}},
		{schema.ModeValueQuiet, []string{"sleep", "quiet", "night"}},
		{schema.ModeValueMin, []string{"away", "min"}},
		{schema.ModeValueMax, []string{"boost", "max"}},
		{schema.ModeValueTurbo, []string{"turbo"}},
	},
}
