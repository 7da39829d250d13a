package schema

import (
	"encoding/json"
	"fmt"
	"slices"
)

// CapabilityType is the kind of a device capability.
type CapabilityType string

// Capability types.
const (
	CapabilityOnOff        CapabilityType = "devices.capabilities.on_off"
	CapabilityColorSetting CapabilityType = "devices.capabilities.color_setting"
	CapabilityMode         CapabilityType = "devices.capabilities.mode"
	CapabilityRange        CapabilityType = "devices.capabilities.range"
	CapabilityToggle       CapabilityType = "devices.capabilities.toggle"
	CapabilityVideoStream  CapabilityType = "devices.capabilities.video_stream"
)

// AllCapabilityTypes returns every capability type.
func AllCapabilityTypes() []CapabilityType {
	return []CapabilityType{
		CapabilityOnOff, CapabilityColorSetting, CapabilityMode,
		CapabilityRange, CapabilityToggle, CapabilityVideoStream,
	}
}

// CapabilityInstance is a sub-kind of a capability type.
type CapabilityInstance string

// on_off instance.
const InstanceOn CapabilityInstance = "on"

// toggle instances.
const (
	ToggleBacklight      CapabilityInstance = "backlight"
	ToggleControlsLocked CapabilityInstance = "controls_locked"
	ToggleIonization     CapabilityInstance = "ionization"
	ToggleKeepWarm       CapabilityInstance = "keep_warm"
	ToggleMute           CapabilityInstance = "mute"
	ToggleOscillation    CapabilityInstance = "oscillation"
	TogglePause          CapabilityInstance = "pause"
)

// range instances.
const (
	RangeBrightness  CapabilityInstance = "brightness"
	RangeChannel     CapabilityInstance = "channel"
	RangeHumidity    CapabilityInstance = "humidity"
	RangeOpen        CapabilityInstance = "open"
	RangeTemperature CapabilityInstance = "temperature"
	RangeVolume      CapabilityInstance = "volume"
)

// mode instances.
const (
	ModeCleanupMode CapabilityInstance = "cleanup_mode"
	ModeCoffeeMode  CapabilityInstance = "coffee_mode"
	ModeDishwashing CapabilityInstance = "dishwashing"
	ModeFanSpeed    CapabilityInstance = "fan_speed"
	ModeHeat        CapabilityInstance = "heat"
	ModeInputSource CapabilityInstance = "input_source"
	ModeProgram     CapabilityInstance = "program"
	ModeSwing       CapabilityInstance = "swing"
	ModeTeaMode     CapabilityInstance = "tea_mode"
	ModeThermostat  CapabilityInstance = "thermostat"
	ModeWorkSpeed   CapabilityInstance = "work_speed"
)

// color_setting instances. ColorBase is internal and never sent in a state.
const (
	ColorBase          CapabilityInstance = "base"
	ColorRGB           CapabilityInstance = "rgb"
	ColorHSV           CapabilityInstance = "hsv"
	ColorTemperatureK  CapabilityInstance = "temperature_k"
	ColorSceneInstance CapabilityInstance = "scene"
)

// video_stream instance.
const VideoGetStream CapabilityInstance = "get_stream"

// InstancesOf returns the instances valid for a capability type.
func InstancesOf(t CapabilityType) []CapabilityInstance {
	switch t {
	case CapabilityOnOff:
		return []CapabilityInstance{InstanceOn}
	case CapabilityToggle:
		return []CapabilityInstance{
			ToggleBacklight, ToggleControlsLocked, ToggleIonization,
			ToggleKeepWarm, ToggleMute, ToggleOscillation, TogglePause,
		}
	case CapabilityRange:
		return []CapabilityInstance{
			RangeBrightness, RangeChannel, RangeHumidity,
			RangeOpen, RangeTemperature, RangeVolume,
		}
	case CapabilityMode:
		return []CapabilityInstance{
			ModeCleanupMode, ModeCoffeeMode, ModeDishwashing, ModeFanSpeed,
			ModeHeat, ModeInputSource, ModeProgram, ModeSwing,
			ModeTeaMode, ModeThermostat, ModeWorkSpeed,
		}
	case CapabilityColorSetting:
		return []CapabilityInstance{ColorBase, ColorRGB, ColorHSV, ColorTemperatureK, ColorSceneInstance}
	case CapabilityVideoStream:
		return []CapabilityInstance{VideoGetStream}
	}
	return nil
}

// ValidInstance reports whether instance belongs to capability type t.
func ValidInstance(t CapabilityType, instance CapabilityInstance) bool {
	return slices.Contains(InstancesOf(t), instance)
}

// CapabilityDescription describes a capability in a device list response.
type CapabilityDescription struct {
	Type        CapabilityType `json:"type"`
	Retrievable bool           `json:"retrievable"`
	Reportable  bool           `json:"reportable"`
	Parameters  any            `json:"parameters,omitempty"`
}

// CapabilityInstanceStateValue is the value part of a capability state.
type CapabilityInstanceStateValue struct {
	Instance CapabilityInstance `json:"instance"`
	Value    any                `json:"value"`
}

// CapabilityInstanceState is a capability state in a query response.
type CapabilityInstanceState struct {
	Type  CapabilityType               `json:"type"`
	State CapabilityInstanceStateValue `json:"state"`
}

// CapabilityInstanceActionState is the requested new state of a capability.
// Value holds the decoded Go type described in the package documentation.
type CapabilityInstanceActionState struct {
	Instance CapabilityInstance `json:"instance"`
	Value    any                `json:"value"`
	Relative bool               `json:"relative,omitempty"`
}

// CapabilityInstanceAction is one capability change in an action request.
type CapabilityInstanceAction struct {
	Type  CapabilityType                `json:"type"`
	State CapabilityInstanceActionState `json:"state"`
}

type rawActionState struct {
	Instance CapabilityInstance `json:"instance"`
	Value    json.RawMessage    `json:"value"`
	Relative bool               `json:"relative"`
}

type rawAction struct {
	Type  CapabilityType `json:"type"`
	State rawActionState `json:"state"`
}

// UnmarshalJSON decodes an action and its value according to the
// capability type and instance.
func (a *CapabilityInstanceAction) UnmarshalJSON(data []byte) error {
	var raw rawAction
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !slices.Contains(AllCapabilityTypes(), raw.Type) {
		return fmt.Errorf("%w: unknown capability type %q", ErrInvalidPayload, raw.Type)
	}
	if !ValidInstance(raw.Type, raw.State.Instance) || raw.State.Instance == ColorBase {
		return fmt.Errorf("%w: unknown instance %q for %s", ErrInvalidPayload, raw.State.Instance, raw.Type)
	}

	value, err := decodeActionValue(raw.Type, raw.State.Instance, raw.State.Value)
	if err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrInvalidPayload, raw.Type, raw.State.Instance, err)
	}

	*a = CapabilityInstanceAction{
		Type: raw.Type,
		State: CapabilityInstanceActionState{
			Instance: raw.State.Instance,
			Value:    value,
			Relative: raw.State.Relative,
		},
	}
	if a.State.Relative && a.Type != CapabilityRange {
		return fmt.Errorf("%w: relative value is only valid for range", ErrInvalidPayload)
	}
	return nil
}

func decodeActionValue(t CapabilityType, instance CapabilityInstance, raw json.RawMessage) (any, error) {
	switch t {
	case CapabilityOnOff, CapabilityToggle:
		var v bool
		err := json.Unmarshal(raw, &v)
		return v, err
	case CapabilityRange:
		var v float64
		err := json.Unmarshal(raw, &v)
		return v, err
	case CapabilityMode:
		var v ModeValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if !slices.Contains(AllModeValues(), v) {
			return nil, fmt.Errorf("unknown mode %q", v)
		}
		return v, nil
	case CapabilityColorSetting:
		return decodeColorValue(instance, raw)
	case CapabilityVideoStream:
		var v GetStreamValue
		err := json.Unmarshal(raw, &v)
		return v, err
	}
	return nil, fmt.Errorf("unsupported capability type %q", t)
}

// BoolValue returns the action value as a bool.
func (s CapabilityInstanceActionState) BoolValue() (bool, error) {
	v, ok := s.Value.(bool)
	if !ok {
		return false, NewAPIError(CodeInvalidValue, "Unexpected value %v for instance %s", s.Value, s.Instance)
	}
	return v, nil
}

// FloatValue returns the action value as a float64.
func (s CapabilityInstanceActionState) FloatValue() (float64, error) {
	switch v := s.Value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, NewAPIError(CodeInvalidValue, "Unexpected value %v for instance %s", s.Value, s.Instance)
}

// OnOffCapabilityParameters are the parameters of an on_off capability.
type OnOffCapabilityParameters struct {
	Split bool `json:"split"`
}

// ToggleCapabilityParameters are the parameters of a toggle capability.
type ToggleCapabilityParameters struct {
	Instance CapabilityInstance `json:"instance"`
}

// RangeCapabilityRange is the value range of a range capability.
type RangeCapabilityRange struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Precision float64 `json:"precision"`
}

// Contains reports whether v lies within the range.
func (r RangeCapabilityRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp limits v to the range.
func (r RangeCapabilityRange) Clamp(v float64) float64 {
	return max(r.Min, min(r.Max, v))
}

// RangeCapabilityParameters are the parameters of a range capability.
// Range is omitted for relative-only instances that do not require it.
type RangeCapabilityParameters struct {
	Instance     CapabilityInstance    `json:"instance"`
	Unit         Unit                  `json:"unit,omitempty"`
	RandomAccess bool                  `json:"random_access"`
	Range        *RangeCapabilityRange `json:"range,omitempty"`
}

// ModeCapabilityMode is one mode of a mode capability.
type ModeCapabilityMode struct {
	Value ModeValue `json:"value"`
}

// ModeCapabilityParameters are the parameters of a mode capability.
type ModeCapabilityParameters struct {
	Instance CapabilityInstance   `json:"instance"`
	Modes    []ModeCapabilityMode `json:"modes"`
}

// VideoStreamCapabilityParameters are the parameters of a video_stream capability.
type VideoStreamCapabilityParameters struct {
	Protocols []string `json:"protocols"`
}

// GetStreamValue is the action value of a get_stream instance.
type GetStreamValue struct {
	Protocols []string `json:"protocols"`
}

// GetStreamResultValue is returned by a successful get_stream action.
type GetStreamResultValue struct {
	StreamURL string `json:"stream_url"`
	Protocol  string `json:"protocol"`
}
