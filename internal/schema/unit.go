package schema

// Unit is a unit of measurement of a float property or range capability.
type Unit string

// Units.
const (
	UnitAmpere             Unit = "unit.ampere"
	UnitCubicMeter         Unit = "unit.cubic_meter"
	UnitGigacalorie        Unit = "unit.gigacalorie"
	UnitKilowattHour       Unit = "unit.kilowatt_hour"
	UnitLux                Unit = "unit.illumination.lux"
	UnitMCGM3              Unit = "unit.density.mcg_m3"
	UnitPercent            Unit = "unit.percent"
	UnitPPM                Unit = "unit.ppm"
	UnitVolt               Unit = "unit.volt"
	UnitWatt               Unit = "unit.watt"
	UnitPressureATM        Unit = "unit.pressure.atm"
	UnitPressureBar        Unit = "unit.pressure.bar"
	UnitPressureMmHg       Unit = "unit.pressure.mmhg"
	UnitPressurePascal     Unit = "unit.pressure.pascal"
	UnitTemperatureCelsius Unit = "unit.temperature.celsius"
	UnitTemperatureKelvin  Unit = "unit.temperature.kelvin"
)

// PressureUnits returns the units a pressure property may be published in.
func PressureUnits() []Unit {
	return []Unit{UnitPressureMmHg, UnitPressurePascal, UnitPressureATM, UnitPressureBar}
}

// FloatUnit returns the unit a float instance is published in. Pressure
// uses the configured pressure unit.
func FloatUnit(instance PropertyInstance, pressure Unit) Unit {
	switch instance {
	case InstanceAmperage:
		return UnitAmpere
	case InstanceBatteryLevel, InstanceFoodLevel, InstanceHumidity, InstanceWaterLevel:
		return UnitPercent
	case InstanceCO2Level:
		return UnitPPM
	case InstanceElectricityMeter:
		return UnitKilowattHour
	case InstanceGasMeter, InstanceMeter, InstanceWaterMeter:
		return UnitCubicMeter
	case InstanceHeatMeter:
		return UnitGigacalorie
	case InstanceIllumination:
		return UnitLux
	case InstancePM1Density, InstancePM10Density, InstancePM25Density, InstanceTVOC:
		return UnitMCGM3
	case InstancePower:
		return UnitWatt
	case InstancePressure:
		if pressure == "" {
			return UnitPressureMmHg
		}
		return pressure
	case InstanceTemperature:
		return UnitTemperatureCelsius
	case InstanceVoltage:
		return UnitVolt
	}
	return ""
}
