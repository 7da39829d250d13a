package device

import (
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// Prefixes that force the type of a custom property.
const (
	customFloatPrefix = "float."
	customEventPrefix = "event."
)

// customPropertyType decides the property type of a configured instance.
// Instances that exist as both types are events on binary sensors.
func customPropertyType(declared string, sourceDomain string) (schema.PropertyType, schema.PropertyInstance, error) {
	switch {
	case strings.HasPrefix(declared, customFloatPrefix):
		instance := schema.PropertyInstance(strings.TrimPrefix(declared, customFloatPrefix))
		if !schema.IsFloatInstance(instance) {
			return "", instance, ErrUnsupportedInstance
		}
		return schema.PropertyFloat, instance, nil
	case strings.HasPrefix(declared, customEventPrefix):
		instance := schema.PropertyInstance(strings.TrimPrefix(declared, customEventPrefix))
		if !schema.IsEventInstance(instance) {
			return "", instance, ErrUnsupportedInstance
		}
		return schema.PropertyEvent, instance, nil
	}

	instance := schema.PropertyInstance(declared)
	isFloat, isEvent := schema.IsFloatInstance(instance), schema.IsEventInstance(instance)
	switch {
	case isFloat && isEvent:
		if sourceDomain == domainBinarySensor {
			return schema.PropertyEvent, instance, nil
		}
		return schema.PropertyFloat, instance, nil
	case isEvent:
		return schema.PropertyEvent, instance, nil
	case isFloat:
		return schema.PropertyFloat, instance, nil
	}
	return "", instance, ErrUnsupportedInstance
}

// newCustomProperty builds a property declared in entity configuration for
// device deviceID. The value is read from the configured entity, or the
// device entity when none is set.
func newCustomProperty(entry *Entry, deviceID string, cfg config.PropertyConfig) (Property, error) {
	entityID := cfg.EntityID
	if entityID == "" {
		entityID = deviceID
	}
	sourceDomain := host.SplitEntityID(entityID)

	t, instance, err := customPropertyType(cfg.Type, sourceDomain)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, cfg.Type)
	}

	source := valueSource{entry: entry, entityID: entityID, attribute: cfg.Attribute}
	if t == schema.PropertyEvent {
		return newEventProperty(entry, instance, source), nil
	}

	if sourceDomain == domainBinarySensor {
		return nil, unsupportedEntity(entityID, instance, deviceID)
	}
	p := newFloatProperty(entry, deviceID, instance, source)
	p.sourceUnit = cfg.UnitOfMeasurement
	return p, nil
}
