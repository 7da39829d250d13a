package schema

import "slices"

// PropertyType is the kind of a device property.
type PropertyType string

// Property types.
const (
	PropertyFloat PropertyType = "devices.properties.float"
	PropertyEvent PropertyType = "devices.properties.event"
)

// PropertyInstance is a sub-kind of a property type.
type PropertyInstance string

// Property instances. Some instances exist as both float and event.
const (
	InstanceAmperage         PropertyInstance = "amperage"
	InstanceBatteryLevel     PropertyInstance = "battery_level"
	InstanceCO2Level         PropertyInstance = "co2_level"
	InstanceElectricityMeter PropertyInstance = "electricity_meter"
	InstanceFoodLevel        PropertyInstance = "food_level"
	InstanceGasMeter         PropertyInstance = "gas_meter"
	InstanceHeatMeter        PropertyInstance = "heat_meter"
	InstanceHumidity         PropertyInstance = "humidity"
	InstanceIllumination     PropertyInstance = "illumination"
	InstanceMeter            PropertyInstance = "meter"
	InstancePM1Density       PropertyInstance = "pm1_density"
	InstancePM10Density      PropertyInstance = "pm10_density"
	InstancePM25Density      PropertyInstance = "pm2.5_density"
	InstancePower            PropertyInstance = "power"
	InstancePressure         PropertyInstance = "pressure"
	InstanceTemperature      PropertyInstance = "temperature"
	InstanceTVOC             PropertyInstance = "tvoc"
	InstanceVoltage          PropertyInstance = "voltage"
	InstanceWaterLevel       PropertyInstance = "water_level"
	InstanceWaterMeter       PropertyInstance = "water_meter"

	InstanceButton    PropertyInstance = "button"
	InstanceGas       PropertyInstance = "gas"
	InstanceMotion    PropertyInstance = "motion"
	InstanceOpen      PropertyInstance = "open"
	InstanceSmoke     PropertyInstance = "smoke"
	InstanceVibration PropertyInstance = "vibration"
	InstanceWaterLeak PropertyInstance = "water_leak"
)

// FloatInstances returns the instances valid for a float property.
func FloatInstances() []PropertyInstance {
	return []PropertyInstance{
		InstanceAmperage, InstanceBatteryLevel, InstanceCO2Level, InstanceElectricityMeter,
		InstanceFoodLevel, InstanceGasMeter, InstanceHeatMeter, InstanceHumidity,
		InstanceIllumination, InstanceMeter, InstancePM1Density, InstancePM10Density,
		InstancePM25Density, InstancePower, InstancePressure, InstanceTemperature,
		InstanceTVOC, InstanceVoltage, InstanceWaterLevel, InstanceWaterMeter,
	}
}

// EventInstances returns the instances valid for an event property.
func EventInstances() []PropertyInstance {
	return []PropertyInstance{
		InstanceBatteryLevel, InstanceButton, InstanceFoodLevel, InstanceGas,
		InstanceMotion, InstanceOpen, InstanceSmoke, InstanceVibration,
		InstanceWaterLeak, InstanceWaterLevel,
	}
}

// IsFloatInstance reports whether instance can be a float property.
func IsFloatInstance(instance PropertyInstance) bool {
	return slices.Contains(FloatInstances(), instance)
}

// IsEventInstance reports whether instance can be an event property.
func IsEventInstance(instance PropertyInstance) bool {
	return slices.Contains(EventInstances(), instance)
}

// EventValue is a symbolic value of an event property.
type EventValue string

// Event values.
const (
	EventOpened      EventValue = "opened"
	EventClosed      EventValue = "closed"
	EventDetected    EventValue = "detected"
	EventNotDetected EventValue = "not_detected"
	EventHigh        EventValue = "high"
	EventLow         EventValue = "low"
	EventNormal      EventValue = "normal"
	EventEmpty       EventValue = "empty"
	EventDry         EventValue = "dry"
	EventLeak        EventValue = "leak"
	EventClick       EventValue = "click"
	EventDoubleClick EventValue = "double_click"
	EventLongPress   EventValue = "long_press"
	EventVibration   EventValue = "vibration"
	EventTilt        EventValue = "tilt"
	EventFall        EventValue = "fall"
)

// EventsOf returns the ordered events an event instance may report.
func EventsOf(instance PropertyInstance) []EventValue {
	switch instance {
	case InstanceOpen:
		return []EventValue{EventOpened, EventClosed}
	case InstanceMotion:
		return []EventValue{EventDetected, EventNotDetected}
	case InstanceGas, InstanceSmoke:
		return []EventValue{EventDetected, EventNotDetected, EventHigh}
	case InstanceBatteryLevel:
		return []EventValue{EventLow, EventNormal, EventHigh}
	case InstanceFoodLevel, InstanceWaterLevel:
		return []EventValue{EventEmpty, EventLow, EventNormal}
	case InstanceWaterLeak:
		return []EventValue{EventDry, EventLeak}
	case InstanceButton:
		return []EventValue{EventClick, EventDoubleClick, EventLongPress}
	case InstanceVibration:
		return []EventValue{EventTilt, EventFall, EventVibration}
	}
	return nil
}

// FloatPropertyParameters are the parameters of a float property.
type FloatPropertyParameters struct {
	Instance PropertyInstance `json:"instance"`
	Unit     Unit             `json:"unit,omitempty"`
}

// EventEntry is one event in an event property parameter.
type EventEntry struct {
	Value EventValue `json:"value"`
}

// EventPropertyParameters are the parameters of an event property.
type EventPropertyParameters struct {
	Instance PropertyInstance `json:"instance"`
	Events   []EventEntry     `json:"events"`
}

// NewEventPropertyParameters builds parameters listing every event of instance.
func NewEventPropertyParameters(instance PropertyInstance) EventPropertyParameters {
	events := EventsOf(instance)
	p := EventPropertyParameters{Instance: instance, Events: make([]EventEntry, 0, len(events))}
	for _, e := range events {
		p.Events = append(p.Events, EventEntry{Value: e})
	}
	return p
}

// PropertyDescription describes a property in a device list response.
type PropertyDescription struct {
	Type        PropertyType `json:"type"`
	Retrievable bool         `json:"retrievable"`
	Reportable  bool         `json:"reportable"`
	Parameters  any          `json:"parameters"`
}

// PropertyInstanceStateValue is the value part of a property state.
type PropertyInstanceStateValue struct {
	Instance PropertyInstance `json:"instance"`
	Value    any              `json:"value"`
}

// PropertyInstanceState is a property state in a query response.
type PropertyInstanceState struct {
	Type  PropertyType               `json:"type"`
	State PropertyInstanceStateValue `json:"state"`
}
