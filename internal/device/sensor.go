package device

import (
	"slices"
	"strings"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// deviceClassButton marks an entity as a button in its device_class
// attribute or in entity configuration.
const deviceClassButton = "button"

// ============================================================================
// Float
// ============================================================================

// floatSpec locates a numeric value on an entity: the state of a sensor of
// one of the device classes, or an attribute of an entity of another
// domain.
type floatSpec struct {
	instance      schema.PropertyInstance
	deviceClasses []string
	attribute     string
	attrDomains   []string // nil means every domain other than sensor
}

func (s floatSpec) source(entry *Entry, st *host.State) (valueSource, bool) {
	if st.Domain() == domainSensor {
		if slices.Contains(s.deviceClasses, st.DeviceClass()) {
			return valueSource{entry: entry, entityID: st.EntityID, bound: st}, true
		}
		return valueSource{}, false
	}
	if s.attribute == "" {
		return valueSource{}, false
	}
	if s.attrDomains != nil && !slices.Contains(s.attrDomains, st.Domain()) {
		return valueSource{}, false
	}
	if _, ok := st.Attr(s.attribute); !ok {
		return valueSource{}, false
	}
	return valueSource{entry: entry, entityID: st.EntityID, attribute: s.attribute, bound: st}, true
}

func (s floatSpec) supported(entry *Entry, st *host.State) bool {
	_, ok := s.source(entry, st)
	return ok
}

func (s floatSpec) property(entry *Entry, st *host.State) Property {
	source, _ := s.source(entry, st)
	return newFloatProperty(entry, st.EntityID, s.instance, source)
}

var climateDomains = []string{domainClimate, domainFan, domainHumidifier, domainWaterHeater}

var floatSpecs = []floatSpec{
	{
		instance:      schema.InstanceTemperature,
		deviceClasses: []string{"temperature"},
		attribute:     attrCurrentTemperature,
		attrDomains:   climateDomains,
	},
	{
		instance:      schema.InstanceHumidity,
		deviceClasses: []string{"humidity", "moisture"},
		attribute:     attrCurrentHumidity,
		attrDomains:   []string{domainClimate, domainFan, domainHumidifier},
	},
	{instance: schema.InstancePressure, deviceClasses: []string{"pressure", "atmospheric_pressure"}},
	{instance: schema.InstanceIllumination, deviceClasses: []string{"illuminance"}},
	{
		instance:    schema.InstanceWaterLevel,
		attribute:   attrWaterLevel,
		attrDomains: []string{domainFan, domainHumidifier},
	},
	{instance: schema.InstanceCO2Level, deviceClasses: []string{"carbon_dioxide"}},
	{instance: schema.InstanceElectricityMeter, deviceClasses: []string{"energy"}},
	{instance: schema.InstanceGasMeter, deviceClasses: []string{"gas"}},
	{instance: schema.InstanceWaterMeter, deviceClasses: []string{"water"}},
	{instance: schema.InstancePM1Density, deviceClasses: []string{"pm1"}},
	{instance: schema.InstancePM25Density, deviceClasses: []string{"pm25"}},
	{instance: schema.InstancePM10Density, deviceClasses: []string{"pm10"}},
	{
		instance:      schema.InstanceTVOC,
		deviceClasses: []string{"volatile_organic_compounds", "volatile_organic_compounds_parts"},
	},
	{instance: schema.InstancePower, deviceClasses: []string{"power"}},
	{instance: schema.InstanceVoltage, deviceClasses: []string{"voltage"}},
	{instance: schema.InstanceAmperage, deviceClasses: []string{"current"}},
	{
		instance:      schema.InstanceBatteryLevel,
		deviceClasses: []string{"battery"},
		attribute:     attrBatteryLevel,
	},
}

// ============================================================================
// Event
// ============================================================================

// eventSpec detects an event on a binary sensor by device class.
type eventSpec struct {
	instance      schema.PropertyInstance
	deviceClasses []string
}

func (s eventSpec) supported(_ *Entry, st *host.State) bool {
	return st.Domain() == domainBinarySensor && slices.Contains(s.deviceClasses, st.DeviceClass())
}

func (s eventSpec) property(entry *Entry, st *host.State) Property {
	return newEventProperty(entry, s.instance, valueSource{entry: entry, entityID: st.EntityID, bound: st})
}

var eventSpecs = []eventSpec{
	{instance: schema.InstanceOpen, deviceClasses: []string{"door", "garage_door", "window", "opening"}},
	{instance: schema.InstanceMotion, deviceClasses: []string{"motion", "occupancy", "presence"}},
	{instance: schema.InstanceGas, deviceClasses: []string{"gas"}},
	{instance: schema.InstanceSmoke, deviceClasses: []string{"smoke"}},
	{instance: schema.InstanceBatteryLevel, deviceClasses: []string{"battery"}},
	{instance: schema.InstanceWaterLevel, deviceClasses: []string{"water_level"}},
	{instance: schema.InstanceWaterLeak, deviceClasses: []string{"moisture"}},
}

// buttonReleaseActions are reported by buttons but map onto no event.
var buttonReleaseActions = []string{"long_click_release", "release"}

func lowerAttr(st *host.State, name string) string {
	return strings.ToLower(st.AttrString(name))
}

func supportsButton(entry *Entry, st *host.State) bool {
	if st.DeviceClass() == deviceClassButton || entry.entityConfig(st.EntityID).DeviceClass == deviceClassButton {
		return true
	}
	var action string
	switch st.Domain() {
	case domainBinarySensor:
		action = lowerAttr(st, attrLastAction)
	case domainSensor:
		action = lowerAttr(st, attrAction)
	default:
		return false
	}
	return knownEventValue(schema.InstanceButton, action) || slices.Contains(buttonReleaseActions, action)
}

func newButton(entry *Entry, st *host.State) Property {
	p := newEventProperty(entry, schema.InstanceButton, valueSource{entry: entry, entityID: st.EntityID, bound: st})
	p.native = func(s *host.State) any {
		return firstKnownEvent(schema.InstanceButton, lowerAttr(s, attrLastAction), lowerAttr(s, attrAction), s.State)
	}
	return p
}

func supportsVibration(_ *Entry, st *host.State) bool {
	switch st.Domain() {
	case domainBinarySensor:
		return st.DeviceClass() == "vibration" || knownEventValue(schema.InstanceVibration, lowerAttr(st, attrLastAction))
	case domainSensor:
		return knownEventValue(schema.InstanceVibration, lowerAttr(st, attrAction))
	}
	return false
}

func newVibration(entry *Entry, st *host.State) Property {
	p := newEventProperty(entry, schema.InstanceVibration, valueSource{entry: entry, entityID: st.EntityID, bound: st})
	p.native = func(s *host.State) any {
		if s.DeviceClass() == "vibration" {
			return s.State
		}
		return firstKnownEvent(schema.InstanceVibration, lowerAttr(s, attrLastAction), lowerAttr(s, attrAction))
	}
	return p
}
