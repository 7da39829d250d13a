package device

import (
	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// SupportedFunc reports whether a kind applies to an entity state.
type SupportedFunc func(entry *Entry, st *host.State) bool

// CapabilityKind describes one built-in capability kind.
type CapabilityKind struct {
	Type      schema.CapabilityType
	Instance  schema.CapabilityInstance
	Supported SupportedFunc
	New       func(entry *Entry, st *host.State) Capability
}

// PropertyKind describes one built-in property kind.
type PropertyKind struct {
	Type      schema.PropertyType
	Instance  schema.PropertyInstance
	Supported SupportedFunc
	New       func(entry *Entry, st *host.State) Property
}

// Catalog is the ordered set of built-in kinds tried for every entity.
// Earlier kinds win over later ones with the same type and instance.
type Catalog struct {
	Capabilities []CapabilityKind
	Properties   []PropertyKind
}

func modeKind(s modeSpec) CapabilityKind {
	return CapabilityKind{
		Type:      schema.CapabilityMode,
		Instance:  s.instance,
		Supported: s.supported,
		New:       s.capability,
	}
}

// DefaultCatalog returns the built-in kinds. Color instances come before
// on_off so lights are described with their color settings first, and the
// domain-specific on_off kinds before the basic one.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		Capabilities: []CapabilityKind{
			{schema.CapabilityColorSetting, schema.ColorBase, supportsColorBase, newColorBase},
			{schema.CapabilityColorSetting, schema.ColorRGB, supportsRGB, newRGB},
			{schema.CapabilityColorSetting, schema.ColorHSV, supportsHSV, newHSV},
			{schema.CapabilityColorSetting, schema.ColorTemperatureK, supportsColorTemperature, newColorTemperature},
			{schema.CapabilityColorSetting, schema.ColorSceneInstance, supportsColorScene, newColorScene},

			{schema.CapabilityRange, schema.RangeBrightness, supportsBrightness, newBrightness},
			{schema.CapabilityRange, schema.RangeVolume, supportsVolume, newVolume},
			{schema.CapabilityRange, schema.RangeChannel, supportsChannel, newChannel},
			{schema.CapabilityRange, schema.RangeOpen, supportsCoverPosition, newCoverPosition},
			{schema.CapabilityRange, schema.RangeTemperature, supportsTargetTemperature, newTargetTemperature},
			{schema.CapabilityRange, schema.RangeHumidity, supportsHumidifierHumidity, newHumidifierHumidity},
			{schema.CapabilityRange, schema.RangeHumidity, supportsFanHumidity, newFanHumidity},

			{schema.CapabilityToggle, schema.ToggleMute, supportsMute, newMute},
			{schema.CapabilityToggle, schema.TogglePause, supportsPause, newPause},
			{schema.CapabilityToggle, schema.ToggleOscillation, supportsOscillation, newOscillation},

			modeKind(thermostatMode),
			modeKind(swingMode),
			modeKind(climateFanSpeedMode),
			modeKind(fanPresetMode),
			modeKind(cleanupMode),
			modeKind(inputSourceMode),
			modeKind(humidifierProgramMode),

			{schema.CapabilityVideoStream, schema.VideoGetStream, supportsVideoStream, newVideoStream},

			{schema.CapabilityOnOff, schema.InstanceOn, supportsGroupOnOff, newGroupOnOff},
			{schema.CapabilityOnOff, schema.InstanceOn, supportsActionOnOff, newActionOnOff},
			{schema.CapabilityOnOff, schema.InstanceOn, supportsCoverOnOff, newCoverOnOff},
			{schema.CapabilityOnOff, schema.InstanceOn, supportsLockOnOff, newLockOnOff},
			{schema.CapabilityOnOff, schema.InstanceOn, supportsMediaPlayerOnOff, newMediaPlayerOnOff},
			{schema.CapabilityOnOff, schema.InstanceOn, supportsVacuumOnOff, newVacuumOnOff},
			{schema.CapabilityOnOff, schema.InstanceOn, supportsClimateOnOff, newClimateOnOff},
			{schema.CapabilityOnOff, schema.InstanceOn, supportsBasicOnOff, newBasicOnOff},
		},
	}

	for _, s := range floatSpecs {
		c.Properties = append(c.Properties, PropertyKind{
			Type:      schema.PropertyFloat,
			Instance:  s.instance,
			Supported: s.supported,
			New:       s.property,
		})
	}
	for _, s := range eventSpecs {
		c.Properties = append(c.Properties, PropertyKind{
			Type:      schema.PropertyEvent,
			Instance:  s.instance,
			Supported: s.supported,
			New:       s.property,
		})
	}
	c.Properties = append(c.Properties,
		PropertyKind{schema.PropertyEvent, schema.InstanceButton, supportsButton, newButton},
		PropertyKind{schema.PropertyEvent, schema.InstanceVibration, supportsVibration, newVibration},
	)
	return c
}
