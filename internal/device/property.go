package device

import (
	"context"
	"errors"
	"strings"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// PropertyInfo identifies a property and carries its discovery flags.
type PropertyInfo struct {
	Type        schema.PropertyType
	Instance    schema.PropertyInstance
	Retrievable bool
	Reportable  bool
}

// Property is a read-only signal of a device.
type Property interface {
	Info() PropertyInfo

	// Parameters returns the parameters for a device list response.
	Parameters() any

	// Value returns the current value, or nil when there is none.
	Value(ctx context.Context) (any, error)

	// ValueEntityID is the entity the value is read from.
	ValueEntityID() string
}

func describeProperty(p Property) schema.PropertyDescription {
	info := p.Info()
	return schema.PropertyDescription{
		Type:        info.Type,
		Retrievable: info.Retrievable,
		Reportable:  info.Reportable,
		Parameters:  p.Parameters(),
	}
}

// valueSource reads the raw value of a property: the state of an entity or
// one of its attributes.
type valueSource struct {
	entry     *Entry
	entityID  string
	attribute string

	// bound is used instead of a host lookup when set.
	bound *host.State
}

func (s valueSource) read(ctx context.Context) (*host.State, any, error) {
	st := s.bound
	if st == nil {
		var err error
		st, err = s.entry.Host.GetState(ctx, s.entityID)
		if errors.Is(err, host.ErrNotFound) {
			return nil, nil, nil
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if s.attribute != "" {
		v, _ := st.Attr(s.attribute)
		return st, v, nil
	}
	return st, st.State, nil
}

// floatProperty publishes a numeric value in the unit of its instance.
type floatProperty struct {
	info     PropertyInfo
	deviceID string
	source   valueSource
	unit     schema.Unit

	// sourceUnit overrides the unit_of_measurement of the source entity.
	sourceUnit string
}

func newFloatProperty(entry *Entry, deviceID string, instance schema.PropertyInstance, source valueSource) *floatProperty {
	return &floatProperty{
		info: PropertyInfo{
			Type:        schema.PropertyFloat,
			Instance:    instance,
			Retrievable: true,
			Reportable:  entry.reportable(),
		},
		deviceID: deviceID,
		source:   source,
		unit:     schema.FloatUnit(instance, entry.pressureUnit()),
	}
}

func (p *floatProperty) Info() PropertyInfo { return p.info }

func (p *floatProperty) ValueEntityID() string { return p.source.entityID }

func (p *floatProperty) Parameters() any {
	return schema.FloatPropertyParameters{Instance: p.info.Instance, Unit: p.unit}
}

// Value reads, clamps and converts the value. Attribute values ignore the
// entity unit_of_measurement unless a source unit is configured.
func (p *floatProperty) Value(ctx context.Context) (any, error) {
	st, raw, err := p.source.read(ctx)
	if err != nil || st == nil {
		return nil, err
	}

	v, ok, err := parseFloatValue(raw)
	if err != nil {
		return nil, schema.NewAPIError(schema.CodeNotSupportedInCurrentMode,
			"Unsupported value '%s' for instance %s of %s", host.FormatValue(raw), p.info.Instance, p.deviceID)
	}
	if !ok {
		return nil, nil
	}

	unit := p.sourceUnit
	if unit == "" && p.source.attribute == "" {
		unit = st.UnitOfMeasurement()
	}
	v = convertUnit(p.info.Instance, v, unit, p.unit)

	if percentInstances[p.info.Instance] {
		v = max(0, min(100, v))
	}
	return v, nil
}

// eventMapping lists the raw values that stand for one event.
type eventMapping struct {
	event  schema.EventValue
	values []string
}

var (
	booleanTrue  = []string{"true", "1", host.StateOn}
	booleanFalse = []string{"false", "0", host.StateOff}
)

func join(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// eventMaps maps raw values onto the events of each event instance.
var eventMaps = map[schema.PropertyInstance][]eventMapping{
	schema.InstanceOpen: {
		{schema.EventOpened, join(booleanTrue, []string{host.StateOpen})},
		{schema.EventClosed, join(booleanFalse, []string{host.StateClosed})},
	},
	schema.InstanceMotion: {
		{schema.EventDetected, booleanTrue},
		{schema.EventNotDetected, booleanFalse},
	},
	schema.InstanceGas: {
		{schema.EventDetected, booleanTrue},
		{schema.EventNotDetected, booleanFalse},
		{schema.EventHigh, []string{"high"}},
	},
	schema.InstanceSmoke: {
		{schema.EventDetected, booleanTrue},
		{schema.EventNotDetected, booleanFalse},
		{schema.EventHigh, []string{"high"}},
	},
	schema.InstanceBatteryLevel: {
		{schema.EventLow, join(booleanTrue, []string{"low"})},
		{schema.EventNormal, join(booleanFalse, []string{"normal"})},
		{schema.EventHigh, []string{"high"}},
	},
	schema.InstanceFoodLevel: {
		{schema.EventEmpty, []string{"empty"}},
		{schema.EventLow, join(booleanTrue, []string{"low"})},
		{schema.EventNormal, join(booleanFalse, []string{"normal"})},
	},
	schema.InstanceWaterLevel: {
		{schema.EventEmpty, []string{"empty"}},
		{schema.EventLow, join(booleanTrue, []string{"low"})},
		{schema.EventNormal, join(booleanFalse, []string{"normal"})},
	},
	schema.InstanceWaterLeak: {
		{schema.EventDry, join(booleanFalse, []string{"dry"})},
		{schema.EventLeak, join(booleanTrue, []string{"leak"})},
	},
	schema.InstanceButton: {
		{schema.EventClick, []string{"click", "single"}},
		{schema.EventDoubleClick, []string{"double_click", "double", "triple", "quadruple", "many"}},
		{schema.EventLongPress, []string{"long_press", "long", "long_click", "long_click_press", "hold"}},
	},
	schema.InstanceVibration: {
		{schema.EventVibration, join(booleanTrue, []string{
			"vibration", "vibrate", "actively", "move", "tap_twice", "shake_air", "swing",
		})},
		{schema.EventTilt, []string{"tilt", "flip90", "flip180", "rotate"}},
		{schema.EventFall, []string{"fall", "free_fall", "drop"}},
	},
}

// mapEvent maps a raw value onto an event of instance. Unknown and empty
// values map to nothing.
func mapEvent(instance schema.PropertyInstance, raw any) (schema.EventValue, bool) {
	if raw == nil {
		return "", false
	}
	v := strings.ToLower(host.FormatValue(raw))
	if host.IsNoValue(v) {
		return "", false
	}
	for _, m := range eventMaps[instance] {
		for _, candidate := range m.values {
			if v == candidate {
				return m.event, true
			}
		}
	}
	return "", false
}

// knownEventValue reports whether raw maps onto any event of instance.
func knownEventValue(instance schema.PropertyInstance, raw any) bool {
	_, ok := mapEvent(instance, raw)
	return ok
}

// reactiveEvents are instances that only report changes and have no
// retrievable state.
var reactiveEvents = map[schema.PropertyInstance]bool{
	schema.InstanceButton:    true,
	schema.InstanceVibration: true,
}

// eventProperty publishes a symbolic event.
type eventProperty struct {
	info   PropertyInfo
	source valueSource

	// native overrides how the raw value is read from the source state.
	native func(st *host.State) any
}

func newEventProperty(entry *Entry, instance schema.PropertyInstance, source valueSource) *eventProperty {
	return &eventProperty{
		info: PropertyInfo{
			Type:        schema.PropertyEvent,
			Instance:    instance,
			Retrievable: !reactiveEvents[instance],
			Reportable:  entry.reportable(),
		},
		source: source,
	}
}

func (p *eventProperty) Info() PropertyInfo { return p.info }

func (p *eventProperty) ValueEntityID() string { return p.source.entityID }

func (p *eventProperty) Parameters() any {
	return schema.NewEventPropertyParameters(p.info.Instance)
}

func (p *eventProperty) Value(ctx context.Context) (any, error) {
	st, raw, err := p.source.read(ctx)
	if err != nil || st == nil {
		return nil, err
	}
	if p.native != nil {
		raw = p.native(st)
	}
	event, ok := mapEvent(p.info.Instance, raw)
	if !ok {
		return nil, nil
	}
	return event, nil
}

// firstKnownEvent returns the first of the candidate values that maps onto
// an event of instance.
func firstKnownEvent(instance schema.PropertyInstance, candidates ...any) any {
	for _, c := range candidates {
		if knownEventValue(instance, c) {
			return c
		}
	}
	return nil
}

func unsupportedEntity(entityID string, instance schema.PropertyInstance, deviceID string) error {
	return schema.NewAPIError(schema.CodeNotSupportedInCurrentMode,
		"Unsupported entity %s for %s instance of %s", entityID, instance, deviceID)
}
