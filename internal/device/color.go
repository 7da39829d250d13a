package device

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// Light color modes from the supported_color_modes attribute.
const (
	colorModeColorTemp = "color_temp"
	colorModeHS        = "hs"
)

var rgbColorModes = []string{"hs", "xy", "rgb", "rgbw", "rgbww"}

const (
	defaultMinColorTempKelvin = 2700
	defaultMaxColorTempKelvin = 6500
)

func supportsRGB(_ *Entry, st *host.State) bool {
	if st.Domain() != domainLight || hsOnly(st) {
		return false
	}
	return st.HasFeature(lightSupportColor) || hasAny(st.AttrStrings(attrSupportedColorMode), rgbColorModes...)
}

// hsOnly reports whether the light takes colors in hue/saturation form
// only.
func hsOnly(st *host.State) bool {
	modes := slices.DeleteFunc(slices.Clone(st.AttrStrings(attrSupportedColorMode)),
		func(m string) bool { return !slices.Contains(rgbColorModes, m) })
	return len(modes) == 1 && modes[0] == colorModeHS
}

func supportsHSV(_ *Entry, st *host.State) bool {
	return st.Domain() == domainLight && hsOnly(st)
}

func supportsColorTemperature(_ *Entry, st *host.State) bool {
	if st.Domain() != domainLight {
		return false
	}
	return st.HasFeature(lightSupportColorTemp) ||
		slices.Contains(st.AttrStrings(attrSupportedColorMode), colorModeColorTemp)
}

func supportsColorScene(entry *Entry, st *host.State) bool {
	if st.Domain() != domainLight {
		return false
	}
	return len(sceneModes(entry, st)) > 0
}

func colorTemperatureBounds(st *host.State) schema.TemperatureKParameter {
	p := schema.TemperatureKParameter{Min: defaultMinColorTempKelvin, Max: defaultMaxColorTempKelvin}
	if v, ok := st.AttrFloat(attrMinColorTempKelvin); ok {
		p.Min = int(v)
	}
	if v, ok := st.AttrFloat(attrMaxColorTempKelvin); ok {
		p.Max = int(v)
	}
	return p
}

// sceneModes maps the light effects onto color scenes. Configured scene
// modes replace matching by name.
func sceneModes(entry *Entry, st *host.State) modeMap {
	effects := st.AttrStrings(attrEffectList)
	declared := entry.entityConfig(st.EntityID).Modes[string(schema.ColorSceneInstance)]

	var out modeMap
	for _, scene := range schema.AllColorScenes() {
		var native []string
		if len(declared) > 0 {
			native = declared[string(scene)]
		} else {
			for _, e := range effects {
				if strings.EqualFold(e, string(scene)) {
					native = append(native, e)
				}
			}
		}
		if len(native) > 0 {
			out = append(out, modeEntry{mode: schema.ModeValue(scene), native: native})
		}
	}
	return out
}

func colorScenes(modes modeMap) []schema.ColorScene {
	out := make([]schema.ColorScene, 0, len(modes))
	for _, m := range modes {
		out = append(out, schema.ColorScene(m.mode))
	}
	return out
}

// ============================================================================
// Base
// ============================================================================

// colorBase describes the color_setting capability with the parameters of
// every supported color instance merged. It has no value of its own.
type colorBase struct {
	stateCapability
}

func newColorBase(entry *Entry, state *host.State) Capability {
	return &colorBase{stateCapability: newStateCapability(entry, state, schema.CapabilityColorSetting, schema.ColorBase)}
}

func supportsColorBase(entry *Entry, st *host.State) bool {
	return supportsRGB(entry, st) || supportsHSV(entry, st) ||
		supportsColorTemperature(entry, st) || supportsColorScene(entry, st)
}

func (c *colorBase) Parameters() any {
	var p schema.ColorSettingCapabilityParameters
	switch {
	case supportsRGB(c.entry, c.state):
		m := schema.ColorModelRGB
		p.ColorModel = &m
	case supportsHSV(c.entry, c.state):
		m := schema.ColorModelHSV
		p.ColorModel = &m
	}
	if supportsColorTemperature(c.entry, c.state) {
		t := colorTemperatureBounds(c.state)
		p.TemperatureK = &t
	}
	if modes := sceneModes(c.entry, c.state); len(modes) > 0 {
		p.ColorScene = schema.NewColorSceneParameter(colorScenes(modes))
	}
	return p
}

func (c *colorBase) Value(_ context.Context) (any, error) { return nil, nil }

func (c *colorBase) Set(_ context.Context, state schema.CapabilityInstanceActionState) (any, error) {
	return nil, schema.NewAPIError(schema.CodeInvalidAction, "Unsupported instance %s for %s", state.Instance, c.entityID())
}

// ============================================================================
// Instances
// ============================================================================

// colorCapability is one hidden color_setting instance.
type colorCapability struct {
	stateCapability
	value func() any
	set   func(ctx context.Context, value any) error
}

func newColorInstance(entry *Entry, state *host.State, instance schema.CapabilityInstance) *colorCapability {
	c := &colorCapability{stateCapability: newStateCapability(entry, state, schema.CapabilityColorSetting, instance)}
	c.info.Hidden = true
	return c
}

func (c *colorCapability) Parameters() any { return nil }

func (c *colorCapability) Value(_ context.Context) (any, error) {
	if c.state.Unavailable() {
		return nil, nil
	}
	return c.value(), nil
}

func (c *colorCapability) Set(ctx context.Context, state schema.CapabilityInstanceActionState) (any, error) {
	return nil, c.set(ctx, state.Value)
}

func unexpectedValue(instance schema.CapabilityInstance, v any) error {
	return schema.NewAPIError(schema.CodeInvalidValue, "Unexpected value %v for instance %s", v, instance)
}

// attrNumbers returns a numeric list attribute such as rgb_color.
func attrNumbers(st *host.State, key string) []float64 {
	v, ok := st.Attr(key)
	if !ok {
		return nil
	}
	var out []float64
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			f, ok := host.ToFloat(item)
			if !ok {
				return nil
			}
			out = append(out, f)
		}
	case []float64:
		out = list
	case []int:
		for _, item := range list {
			out = append(out, float64(item))
		}
	}
	return out
}

func newRGB(entry *Entry, state *host.State) Capability {
	c := newColorInstance(entry, state, schema.ColorRGB)
	c.value = func() any {
		if state.AttrString(attrColorMode) == colorModeColorTemp {
			return nil
		}
		rgb := attrNumbers(state, attrRGBColor)
		if len(rgb) != 3 {
			return nil
		}
		var out int
		for _, part := range rgb {
			out = out<<8 | int(part)&0xFF
		}
		return out
	}
	c.set = func(ctx context.Context, value any) error {
		v, ok := value.(int)
		if !ok {
			return unexpectedValue(schema.ColorRGB, value)
		}
		return c.callDomain(ctx, "turn_on", map[string]any{
			attrRGBColor: []int{v >> 16 & 0xFF, v >> 8 & 0xFF, v & 0xFF},
		})
	}
	return c
}

func newHSV(entry *Entry, state *host.State) Capability {
	c := newColorInstance(entry, state, schema.ColorHSV)
	c.value = func() any {
		hs := attrNumbers(state, attrHSColor)
		if len(hs) != 2 {
			return nil
		}
		value := 100
		if b, ok := state.AttrFloat(attrBrightness); ok {
			value = int(math.Round(b * 100 / 255))
		}
		return schema.HSV{H: int(math.Round(hs[0])), S: int(math.Round(hs[1])), V: value}
	}
	c.set = func(ctx context.Context, value any) error {
		v, ok := value.(schema.HSV)
		if !ok {
			return unexpectedValue(schema.ColorHSV, value)
		}
		return c.callDomain(ctx, "turn_on", map[string]any{attrHSColor: []int{v.H, v.S}})
	}
	return c
}

func newColorTemperature(entry *Entry, state *host.State) Capability {
	c := newColorInstance(entry, state, schema.ColorTemperatureK)
	c.value = func() any {
		if mode := state.AttrString(attrColorMode); mode != "" && mode != colorModeColorTemp {
			return nil
		}
		v, ok := state.AttrFloat(attrColorTempKelvin)
		if !ok {
			return nil
		}
		return int(v)
	}
	c.set = func(ctx context.Context, value any) error {
		v, ok := value.(int)
		if !ok {
			return unexpectedValue(schema.ColorTemperatureK, value)
		}
		return c.callDomain(ctx, "turn_on", map[string]any{attrColorTempKelvin: v})
	}
	return c
}

func newColorScene(entry *Entry, state *host.State) Capability {
	c := newColorInstance(entry, state, schema.ColorSceneInstance)
	modes := sceneModes(entry, state)
	c.value = func() any {
		effect := state.AttrString(attrEffect)
		if host.IsNoValue(effect) {
			return nil
		}
		if m, ok := modes.toMode(effect); ok {
			return schema.ColorScene(m)
		}
		return nil
	}
	c.set = func(ctx context.Context, value any) error {
		scene, ok := value.(schema.ColorScene)
		if !ok {
			return unexpectedValue(schema.ColorSceneInstance, value)
		}
		effect, ok := modes.toNative(schema.ModeValue(scene))
		if !ok {
			return schema.NewAPIError(schema.CodeInvalidValue,
				"Unsupported scene '%s' for %s", scene, c.entityID())
		}
		return c.callDomain(ctx, "turn_on", map[string]any{attrEffect: effect})
	}
	return c
}
