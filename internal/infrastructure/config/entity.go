package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Media player features that can be forced on through entity configuration.
const (
	FeatureVolumeMute        = "volume_mute"
	FeatureVolumeSet         = "volume_set"
	FeatureNextPreviousTrack = "next_previous_track"
)

// EntityConfig contains per-entity overrides for the exposed device.
type EntityConfig struct {
	Name        string `yaml:"name"`
	Room        string `yaml:"room"`
	Type        string `yaml:"type"`
	DeviceClass string `yaml:"device_class"`

	// TurnOn and TurnOff accept false to disable the action, or a service
	// call to replace the default one.
	TurnOn  ActionConfig `yaml:"turn_on"`
	TurnOff ActionConfig `yaml:"turn_off"`

	Features          []string    `yaml:"features"`
	SupportSetChannel *bool       `yaml:"support_set_channel"`
	Range             RangeConfig `yaml:"range"`

	// Modes maps a mode instance to mode values and the entity values
	// each of them stands for.
	Modes map[string]map[string][]string `yaml:"modes"`

	CustomModes   CustomCapabilities `yaml:"custom_modes"`
	CustomToggles CustomCapabilities `yaml:"custom_toggles"`
	CustomRanges  CustomCapabilities `yaml:"custom_ranges"`

	Properties     []PropertyConfig `yaml:"properties"`
	ErrorCodeRules []ErrorCodeRule  `yaml:"error_code_rules"`
}

// HasFeature reports whether feature is listed in Features.
func (e EntityConfig) HasFeature(feature string) bool {
	for _, f := range e.Features {
		if f == feature {
			return true
		}
	}
	return false
}

func (e EntityConfig) validate() []string {
	var errs []string
	for _, f := range e.Features {
		switch f {
		case FeatureVolumeMute, FeatureVolumeSet, FeatureNextPreviousTrack:
		default:
			errs = append(errs, fmt.Sprintf("unknown feature %q", f))
		}
	}
	for _, a := range []struct {
		name string
		cfg  ActionConfig
	}{{"turn_on", e.TurnOn}, {"turn_off", e.TurnOff}} {
		if a.cfg.Call != nil {
			if err := a.cfg.Call.validate(); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", a.name, err))
			}
		}
	}
	for _, c := range e.CustomModes {
		if c.SetMode == nil {
			errs = append(errs, fmt.Sprintf("custom_modes.%s: set_mode is required", c.Instance))
		}
	}
	for _, c := range e.CustomToggles {
		if c.TurnOn == nil || c.TurnOff == nil {
			errs = append(errs, fmt.Sprintf("custom_toggles.%s: turn_on and turn_off are required", c.Instance))
		}
	}
	for _, c := range e.CustomRanges {
		if c.SetValue == nil && c.IncreaseValue == nil && c.DecreaseValue == nil {
			errs = append(errs, fmt.Sprintf("custom_ranges.%s: set_value or increase_value/decrease_value is required", c.Instance))
		}
	}
	for i, p := range e.Properties {
		if p.Type == "" {
			errs = append(errs, fmt.Sprintf("properties[%d]: type is required", i))
		}
	}
	for i, r := range e.ErrorCodeRules {
		if r.Code == "" {
			errs = append(errs, fmt.Sprintf("error_code_rules[%d]: code is required", i))
		}
	}
	return errs
}

// ServiceCallConfig is a configured host service call. String values in
// Data equal to "{{ value }}" are replaced with the requested value.
type ServiceCallConfig struct {
	Service  string         `yaml:"service"`
	EntityID string         `yaml:"entity_id"`
	Data     map[string]any `yaml:"data"`
}

// Split returns the domain and service parts of Service.
func (s ServiceCallConfig) Split() (domain, service string) {
	domain, service, _ = strings.Cut(s.Service, ".")
	return domain, service
}

func (s ServiceCallConfig) validate() error {
	domain, service := s.Split()
	if domain == "" || service == "" {
		return fmt.Errorf("service %q must have the form domain.service", s.Service)
	}
	return nil
}

// ActionConfig overrides a built-in on/off action.
type ActionConfig struct {
	Disabled bool
	Call     *ServiceCallConfig
}

// UnmarshalYAML accepts a boolean or a service call mapping.
func (a *ActionConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return fmt.Errorf("line %d: expected boolean or service call: %w", node.Line, err)
		}
		*a = ActionConfig{Disabled: !enabled}
	case yaml.MappingNode:
		var call ServiceCallConfig
		if err := node.Decode(&call); err != nil {
			return err
		}
		*a = ActionConfig{Call: &call}
	default:
		return fmt.Errorf("line %d: expected boolean or service call", node.Line)
	}
	return nil
}

// RangeConfig overrides the bounds of a range capability.
type RangeConfig struct {
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	Precision *float64 `yaml:"precision"`
}

// CustomCapabilityConfig declares a capability backed by arbitrary entity
// state and service calls. Which fields apply depends on the section it
// is declared in.
type CustomCapabilityConfig struct {
	Instance       string `yaml:"-"`
	StateEntityID  string `yaml:"state_entity_id"`
	StateAttribute string `yaml:"state_attribute"`

	// custom_modes
	SetMode *ServiceCallConfig `yaml:"set_mode"`

	// custom_toggles
	TurnOn  *ServiceCallConfig `yaml:"turn_on"`
	TurnOff *ServiceCallConfig `yaml:"turn_off"`

	// custom_ranges
	SetValue      *ServiceCallConfig `yaml:"set_value"`
	IncreaseValue *ServiceCallConfig `yaml:"increase_value"`
	DecreaseValue *ServiceCallConfig `yaml:"decrease_value"`
	Range         RangeConfig        `yaml:"range"`
}

// CustomCapabilities is a mapping from instance to capability config that
// keeps the order of the YAML document.
type CustomCapabilities []CustomCapabilityConfig

// UnmarshalYAML decodes a mapping in document order.
func (c *CustomCapabilities) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping of instance to capability", node.Line)
	}
	out := make(CustomCapabilities, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var cc CustomCapabilityConfig
		if err := node.Content[i+1].Decode(&cc); err != nil {
			return err
		}
		cc.Instance = node.Content[i].Value
		out = append(out, cc)
	}
	*c = out
	return nil
}

// PropertyConfig declares a property read from any entity.
type PropertyConfig struct {
	// Type is a property instance such as "temperature". It may be
	// prefixed with "float." or "event." to force the property type.
	Type              string `yaml:"type"`
	EntityID          string `yaml:"entity"`
	Attribute         string `yaml:"attribute"`
	UnitOfMeasurement string `yaml:"unit_of_measurement"`
}

// ErrorCodeRule replaces the result of an action with an error code.
type ErrorCodeRule struct {
	// Type is a capability type, short ("on_off") or full.
	Type     string `yaml:"type"`
	Instance string `yaml:"instance"`

	// Value, when set, must equal the requested value.
	Value any `yaml:"value"`

	// EntityState, when set, must match the current state of an entity.
	EntityState *EntityStateCondition `yaml:"entity_state"`

	Code string `yaml:"code"`
}

// EntityStateCondition matches the current state of an entity.
type EntityStateCondition struct {
	EntityID string `yaml:"entity_id"`
	State    string `yaml:"state"`
}
