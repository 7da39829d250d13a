package device

import (
	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// Entry is the context shared by the capabilities and properties of every
// device resolved by one Resolver.
type Entry struct {
	Host   host.Host
	Config config.AliceConfig
	Log    Logger
}

func (e *Entry) entityConfig(entityID string) config.EntityConfig {
	return e.Config.Entity(entityID)
}

func (e *Entry) reportable() bool {
	return e.Config.ReportStates
}

func (e *Entry) pressureUnit() schema.Unit {
	u, ok := config.ParsePressureUnit(e.Config.PressureUnit)
	if !ok {
		return schema.UnitPressureMmHg
	}
	return schema.Unit(u)
}

func (e *Entry) logger() Logger {
	if e.Log == nil {
		return noopLogger{}
	}
	return e.Log
}
