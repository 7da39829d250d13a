package device

import (
	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

var domainDeviceTypes = map[string]schema.DeviceType{
	domainAutomation:   schema.DeviceTypeSwitch,
	domainBinarySensor: schema.DeviceTypeSensor,
	domainButton:       schema.DeviceTypeOther,
	domainCamera:       schema.DeviceTypeCamera,
	domainClimate:      schema.DeviceTypeThermostat,
	domainCover:        schema.DeviceTypeOpenable,
	domainFan:          schema.DeviceTypeFan,
	domainGroup:        schema.DeviceTypeSwitch,
	domainHumidifier:   schema.DeviceTypeHumidifier,
	domainInputBoolean: schema.DeviceTypeSwitch,
	domainInputButton:  schema.DeviceTypeOther,
	domainLight:        schema.DeviceTypeLight,
	domainLock:         schema.DeviceTypeOpenable,
	domainMediaPlayer:  schema.DeviceTypeMediaDevice,
	domainRemote:       schema.DeviceTypeMediaDeviceTVBox,
	domainScene:        schema.DeviceTypeOther,
	domainScript:       schema.DeviceTypeOther,
	domainSensor:       schema.DeviceTypeSensor,
	domainSiren:        schema.DeviceTypeOther,
	domainSwitch:       schema.DeviceTypeSwitch,
	domainVacuum:       schema.DeviceTypeVacuumCleaner,
	domainValve:        schema.DeviceTypeOpenable,
	domainWaterHeater:  schema.DeviceTypeKettle,
}

var binarySensorDeviceTypes = map[string]schema.DeviceType{
	"door":        schema.DeviceTypeSensorOpen,
	"garage_door": schema.DeviceTypeSensorOpen,
	"window":      schema.DeviceTypeSensorOpen,
	"opening":     schema.DeviceTypeSensorOpen,
	"motion":      schema.DeviceTypeSensorMotion,
	"occupancy":   schema.DeviceTypeSensorMotion,
	"presence":    schema.DeviceTypeSensorMotion,
	"gas":         schema.DeviceTypeSensorGas,
	"smoke":       schema.DeviceTypeSensorSmoke,
	"moisture":    schema.DeviceTypeSensorWaterLeak,
	"vibration":   schema.DeviceTypeSensorVibration,
}

var sensorDeviceTypes = map[string]schema.DeviceType{
	"temperature":                      schema.DeviceTypeSensorClimate,
	"humidity":                         schema.DeviceTypeSensorClimate,
	"pressure":                         schema.DeviceTypeSensorClimate,
	"atmospheric_pressure":             schema.DeviceTypeSensorClimate,
	"carbon_dioxide":                   schema.DeviceTypeSensorClimate,
	"pm1":                              schema.DeviceTypeSensorClimate,
	"pm25":                             schema.DeviceTypeSensorClimate,
	"pm10":                             schema.DeviceTypeSensorClimate,
	"volatile_organic_compounds":       schema.DeviceTypeSensorClimate,
	"volatile_organic_compounds_parts": schema.DeviceTypeSensorClimate,
	"illuminance":                      schema.DeviceTypeSensorIllumination,
}

// inferDeviceType derives the device type from the domain and device
// class. configuredClass is the device_class from entity configuration.
func inferDeviceType(st *host.State, configuredClass string) schema.DeviceType {
	class := st.DeviceClass()
	if configuredClass == deviceClassButton || class == deviceClassButton {
		switch st.Domain() {
		case domainBinarySensor, domainSensor:
			return schema.DeviceTypeSensorButton
		}
	}

	switch st.Domain() {
	case domainBinarySensor:
		if t, ok := binarySensorDeviceTypes[class]; ok {
			return t
		}
	case domainSensor:
		if t, ok := sensorDeviceTypes[class]; ok {
			return t
		}
	case domainMediaPlayer:
		switch class {
		case "tv":
			return schema.DeviceTypeMediaDeviceTV
		case "receiver":
			return schema.DeviceTypeMediaDeviceReceiver
		}
	case domainSwitch:
		if class == "outlet" {
			return schema.DeviceTypeSocket
		}
	case domainCover:
		switch class {
		case "curtain", "blind", "shade", "shutter":
			return schema.DeviceTypeOpenableCurtain
		}
	case domainHumidifier:
		if class == "dehumidifier" {
			return schema.DeviceTypePurifier
		}
	}
	return domainDeviceTypes[st.Domain()]
}
