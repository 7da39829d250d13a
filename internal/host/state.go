package host

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Well-known entity states.
const (
	StateOn          = "on"
	StateOff         = "off"
	StateOpen        = "open"
	StateClosed      = "closed"
	StateUnavailable = "unavailable"
	StateUnknown     = "unknown"
)

// Well-known attribute names.
const (
	AttrFriendlyName      = "friendly_name"
	AttrDeviceClass       = "device_class"
	AttrSupportedFeatures = "supported_features"
	AttrUnitOfMeasurement = "unit_of_measurement"
)

// IsNoValue reports whether a raw state or attribute string means that
// there is currently no value.
func IsNoValue(s string) bool {
	switch s {
	case "", "-", StateUnavailable, StateUnknown, "none", "None":
		return true
	}
	return false
}

// State is the current observed state of one host entity.
type State struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastUpdated time.Time      `json:"last_updated"`
}

// NewState creates a state with a copy of attrs.
func NewState(entityID, state string, attrs map[string]any) *State {
	a := make(map[string]any, len(attrs))
	for k, v := range attrs {
		a[k] = v
	}
	return &State{EntityID: entityID, State: state, Attributes: a, LastUpdated: time.Now()}
}

// Domain returns the part of the entity id before the dot.
func (s *State) Domain() string {
	return SplitEntityID(s.EntityID)
}

// ObjectID returns the part of the entity id after the dot.
func (s *State) ObjectID() string {
	_, obj, _ := strings.Cut(s.EntityID, ".")
	return obj
}

// Unavailable reports whether the entity is unreachable.
func (s *State) Unavailable() bool {
	return s.State == StateUnavailable
}

// Attr returns a raw attribute value.
func (s *State) Attr(key string) (any, bool) {
	if s.Attributes == nil {
		return nil, false
	}
	v, ok := s.Attributes[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// AttrString returns an attribute formatted as a string, or "" if absent.
func (s *State) AttrString(key string) string {
	v, ok := s.Attr(key)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// AttrFloat returns a numeric attribute.
func (s *State) AttrFloat(key string) (float64, bool) {
	v, ok := s.Attr(key)
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// AttrBool returns a boolean attribute.
func (s *State) AttrBool(key string) (value, ok bool) {
	v, found := s.Attr(key)
	if !found {
		return false, false
	}
	b, isBool := v.(bool)
	return b, isBool
}

// AttrStrings returns a list attribute as strings.
func (s *State) AttrStrings(key string) []string {
	v, ok := s.Attr(key)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, FormatValue(item))
		}
		return out
	}
	return nil
}

// DeviceClass returns the device_class attribute.
func (s *State) DeviceClass() string {
	return s.AttrString(AttrDeviceClass)
}

// FriendlyName returns the friendly_name attribute.
func (s *State) FriendlyName() string {
	return s.AttrString(AttrFriendlyName)
}

// SupportedFeatures returns the supported_features bitmask.
func (s *State) SupportedFeatures() int {
	f, ok := s.AttrFloat(AttrSupportedFeatures)
	if !ok {
		return 0
	}
	return int(f)
}

// HasFeature reports whether all bits of feature are supported.
func (s *State) HasFeature(feature int) bool {
	return s.SupportedFeatures()&feature == feature
}

// UnitOfMeasurement returns the unit_of_measurement attribute.
func (s *State) UnitOfMeasurement() string {
	return s.AttrString(AttrUnitOfMeasurement)
}

// SplitEntityID returns the domain of an entity id.
func SplitEntityID(entityID string) string {
	domain, _, _ := strings.Cut(entityID, ".")
	return domain
}

// FormatValue renders an attribute value the way it appears in state strings.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

// ToFloat converts a numeric attribute value. NaN and infinities are
// rejected.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, finite(x)
	case float32:
		return float64(x), finite(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil && finite(f)
	}
	return 0, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
