package device

// Host entity domains.
const (
	domainAutomation   = "automation"
	domainBinarySensor = "binary_sensor"
	domainButton       = "button"
	domainCamera       = "camera"
	domainClimate      = "climate"
	domainCover        = "cover"
	domainFan          = "fan"
	domainGroup        = "group"
	domainHumidifier   = "humidifier"
	domainInputBoolean = "input_boolean"
	domainInputButton  = "input_button"
	domainInputNumber  = "input_number"
	domainLight        = "light"
	domainLock         = "lock"
	domainMediaPlayer  = "media_player"
	domainRemote       = "remote"
	domainScene        = "scene"
	domainScript       = "script"
	domainSensor       = "sensor"
	domainSiren        = "siren"
	domainSwitch       = "switch"
	domainVacuum       = "vacuum"
	domainValve        = "valve"
	domainWaterHeater  = "water_heater"
)

// supportedDomains are the domains a device can be built from.
var supportedDomains = map[string]bool{
	domainAutomation: true, domainBinarySensor: true, domainButton: true,
	domainCamera: true, domainClimate: true, domainCover: true,
	domainFan: true, domainGroup: true, domainHumidifier: true,
	domainInputBoolean: true, domainInputButton: true, domainInputNumber: true,
	domainLight: true, domainLock: true, domainMediaPlayer: true,
	domainRemote: true, domainScene: true, domainScript: true,
	domainSensor: true, domainSiren: true, domainSwitch: true,
	domainVacuum: true, domainValve: true, domainWaterHeater: true,
}

// Supported feature bits of the supported_features attribute, per domain.
const (
	lightSupportBrightness = 1
	lightSupportColorTemp  = 2
	lightSupportColor      = 16

	coverSupportOpen        = 1
	coverSupportClose       = 2
	coverSupportSetPosition = 4
	coverSupportStop        = 8

	climateSupportTargetTemperature = 1
	climateSupportFanMode           = 8
	climateSupportSwingMode         = 32

	waterHeaterSupportTargetTemperature = 1

	mediaSupportPause         = 1
	mediaSupportVolumeSet     = 4
	mediaSupportVolumeMute    = 8
	mediaSupportPreviousTrack = 16
	mediaSupportNextTrack     = 32
	mediaSupportTurnOn        = 128
	mediaSupportTurnOff       = 256
	mediaSupportPlayMedia     = 512
	mediaSupportVolumeStep    = 1024
	mediaSupportSelectSource  = 2048
	mediaSupportPlay          = 16384

	fanSupportOscillate  = 2
	fanSupportPresetMode = 8

	vacuumSupportTurnOn     = 1
	vacuumSupportTurnOff    = 2
	vacuumSupportPause      = 4
	vacuumSupportStop       = 8
	vacuumSupportReturnHome = 16
	vacuumSupportFanSpeed   = 32
	vacuumSupportStart      = 8192

	humidifierSupportModes = 1

	cameraSupportStream = 2

	valveSupportSetPosition = 4
)

// Common attribute names.
const (
	attrAction             = "action"
	attrLastAction         = "last_action"
	attrBatteryLevel       = "battery_level"
	attrBrightness         = "brightness"
	attrColorMode          = "color_mode"
	attrColorTempKelvin    = "color_temp_kelvin"
	attrCurrentHumidity    = "current_humidity"
	attrCurrentPosition    = "current_position"
	attrCurrentTemperature = "current_temperature"
	attrEffect             = "effect"
	attrEffectList         = "effect_list"
	attrHSColor            = "hs_color"
	attrHumidity           = "humidity"
	attrMaxColorTempKelvin = "max_color_temp_kelvin"
	attrMinColorTempKelvin = "min_color_temp_kelvin"
	attrMediaContentID     = "media_content_id"
	attrMediaContentType   = "media_content_type"
	attrModel              = "model"
	attrRGBColor           = "rgb_color"
	attrStreamURL          = "stream_url"
	attrSupportedColorMode = "supported_color_modes"
	attrTargetHumidity     = "target_humidity"
	attrTemperature        = "temperature"
	attrVolumeLevel        = "volume_level"
	attrVolumeMuted        = "is_volume_muted"
	attrWaterLevel         = "water_level"
)
