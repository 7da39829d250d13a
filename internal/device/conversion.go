package device

import (
	"math"
	"strconv"
	"strings"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// Pascals per unit of pressure.
var pressureToPascal = map[string]float64{
	"pa":   1,
	"hpa":  100,
	"mbar": 100,
	"kpa":  1000,
	"cbar": 1000,
	"bar":  100000,
	"mmhg": 133.322387415,
	"inhg": 3386.389,
	"psi":  6894.757,
	"atm":  101325,
}

var pressureUnitToPascal = map[schema.Unit]float64{
	schema.UnitPressurePascal: 1,
	schema.UnitPressureBar:    100000,
	schema.UnitPressureMmHg:   133.322387415,
	schema.UnitPressureATM:    101325,
}

// Factors from a source unit to the published unit, per instance.
var unitFactors = map[schema.PropertyInstance]map[string]float64{
	schema.InstanceTVOC: {
		"ppb":   4.4963,
		"ppm":   4496.3,
		"mg/m³": 1000,
		"µg/m³": 1,
		"μg/m³": 1,
	},
	schema.InstanceAmperage: {
		"ma": 0.001,
		"a":  1,
	},
	schema.InstanceVoltage: {
		"mv": 0.001,
		"v":  1,
		"kv": 1000,
	},
	schema.InstancePower: {
		"mw": 0.001,
		"w":  1,
		"kw": 1000,
	},
	schema.InstanceElectricityMeter: {
		"wh":  0.001,
		"kwh": 1,
		"mwh": 1000,
	},
	schema.InstanceGasMeter: {
		"l":   0.001,
		"m³":  1,
		"ft³": 0.0283168,
	},
	schema.InstanceWaterMeter: {
		"l":   0.001,
		"m³":  1,
		"ft³": 0.0283168,
	},
}

// percentInstances are clamped to 0..100.
var percentInstances = map[schema.PropertyInstance]bool{
	schema.InstanceBatteryLevel: true,
	schema.InstanceFoodLevel:    true,
	schema.InstanceHumidity:     true,
	schema.InstanceWaterLevel:   true,
}

// convertUnit converts v measured in unit to the unit published for
// instance. Unknown units are passed through unchanged. Converted values
// are rounded to two decimals.
func convertUnit(instance schema.PropertyInstance, v float64, unit string, target schema.Unit) float64 {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		return v
	}

	switch instance {
	case schema.InstanceTemperature:
		switch u {
		case "°f", "f":
			return round2((v - 32) * 5 / 9)
		case "k":
			return round2(v - 273.15)
		}
		return v
	case schema.InstancePressure:
		from, ok := pressureToPascal[u]
		to, known := pressureUnitToPascal[target]
		if !ok || !known || from == to {
			return v
		}
		return round2(v * from / to)
	}

	factor, ok := unitFactors[instance][u]
	if !ok || factor == 1 {
		return v
	}
	return round2(v * factor)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// parseFloatValue converts a raw state or attribute value. It returns
// (0, false, nil) when there is no value.
func parseFloatValue(raw any) (float64, bool, error) {
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case bool:
		if v {
			return 1, true, nil
		}
		return 0, true, nil
	case string:
		if host.IsNoValue(v) {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false, strconv.ErrSyntax
		}
		return f, true, nil
	}
	if f, ok := host.ToFloat(raw); ok {
		return f, true, nil
	}
	return 0, false, strconv.ErrSyntax
}

// formatRangeFloat renders a float with at least one decimal ("0.0", "27.5").
func formatRangeFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
