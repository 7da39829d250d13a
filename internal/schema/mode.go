package schema

// ModeValue is a value of a mode capability.
type ModeValue string

// Mode values.
const (
	// General.
	ModeValueAuto  ModeValue = "auto"
	ModeValueEco   ModeValue = "eco"
	ModeValueSmart ModeValue = "smart"
	ModeValueTurbo ModeValue = "turbo"

	// Climate.
	ModeValueCool    ModeValue = "cool"
	ModeValueDry     ModeValue = "dry"
	ModeValueFanOnly ModeValue = "fan_only"
	ModeValueHeat    ModeValue = "heat"
	ModeValuePreheat ModeValue = "preheat"

	// Speed and level.
	ModeValueHigh    ModeValue = "high"
	ModeValueLow     ModeValue = "low"
	ModeValueMedium  ModeValue = "medium"
	ModeValueMax     ModeValue = "max"
	ModeValueMin     ModeValue = "min"
	ModeValueFast    ModeValue = "fast"
	ModeValueSlow    ModeValue = "slow"
	ModeValueExpress ModeValue = "express"
	ModeValueNormal  ModeValue = "normal"
	ModeValueQuiet   ModeValue = "quiet"

	// Swing.
	ModeValueHorizontal ModeValue = "horizontal"
	ModeValueStationary ModeValue = "stationary"
	ModeValueVertical   ModeValue = "vertical"

	// Ordinal.
	ModeValueOne   ModeValue = "one"
	ModeValueTwo   ModeValue = "two"
	ModeValueThree ModeValue = "three"
	ModeValueFour  ModeValue = "four"
	ModeValueFive  ModeValue = "five"
	ModeValueSix   ModeValue = "six"
	ModeValueSeven ModeValue = "seven"
	ModeValueEight ModeValue = "eight"
	ModeValueNine  ModeValue = "nine"
	ModeValueTen   ModeValue = "ten"

	// Coffee.
	ModeValueAmericano      ModeValue = "americano"
	ModeValueCappuccino     ModeValue = "cappuccino"
	ModeValueDoubleEspresso ModeValue = "double_espresso"
	ModeValueEspresso       ModeValue = "espresso"
	ModeValueLatte          ModeValue = "latte"

	// Tea.
	ModeValueBlackTea  ModeValue = "black_tea"
	ModeValueFlowerTea ModeValue = "flower_tea"
	ModeValueGreenTea  ModeValue = "green_tea"
	ModeValueHerbalTea ModeValue = "herbal_tea"
	ModeValueOolongTea ModeValue = "oolong_tea"
	ModeValuePuerhTea  ModeValue = "puerh_tea"
	ModeValueRedTea    ModeValue = "red_tea"
	ModeValueWhiteTea  ModeValue = "white_tea"

	// Dishwashing.
	ModeValueGlass     ModeValue = "glass"
	ModeValueIntensive ModeValue = "intensive"
	ModeValuePreRinse  ModeValue = "pre_rinse"

	// Cooking programs.
	ModeValueAspic        ModeValue = "aspic"
	ModeValueBabyFood     ModeValue = "baby_food"
	ModeValueBaking       ModeValue = "baking"
	ModeValueBread        ModeValue = "bread"
	ModeValueBoiling      ModeValue = "boiling"
	ModeValueCereals      ModeValue = "cereals"
	ModeValueCheesecake   ModeValue = "cheesecake"
	ModeValueDeepFryer    ModeValue = "deep_fryer"
	ModeValueDessert      ModeValue = "dessert"
	ModeValueFowl         ModeValue = "fowl"
	ModeValueFrying       ModeValue = "frying"
	ModeValueMacaroni     ModeValue = "macaroni"
	ModeValueMilkPorridge ModeValue = "milk_porridge"
	ModeValueMulticooker  ModeValue = "multicooker"
	ModeValuePasta        ModeValue = "pasta"
	ModeValuePilaf        ModeValue = "pilaf"
	ModeValuePizza        ModeValue = "pizza"
	ModeValueSauce        ModeValue = "sauce"
	ModeValueSlowCook     ModeValue = "slow_cook"
	ModeValueSoup         ModeValue = "soup"
	ModeValueSteam        ModeValue = "steam"
	ModeValueStewing      ModeValue = "stewing"
	ModeValueVacuum       ModeValue = "vacuum"
	ModeValueYogurt       ModeValue = "yogurt"
)

// AllModeValues returns every mode value.
func AllModeValues() []ModeValue {
	return []ModeValue{
		ModeValueAuto, ModeValueEco, ModeValueSmart, ModeValueTurbo,
		ModeValueCool, ModeValueDry, ModeValueFanOnly, ModeValueHeat, ModeValuePreheat,
		ModeValueHigh, ModeValueLow, ModeValueMedium, ModeValueMax, ModeValueMin,
		ModeValueFast, ModeValueSlow, ModeValueExpress, ModeValueNormal, ModeValueQuiet,
		ModeValueHorizontal, ModeValueStationary, ModeValueVertical,
		ModeValueOne, ModeValueTwo, ModeValueThree, ModeValueFour, ModeValueFive,
		ModeValueSix, ModeValueSeven, ModeValueEight, ModeValueNine, ModeValueTen,
		ModeValueAmericano, ModeValueCappuccino, ModeValueDoubleEspresso, ModeValueEspresso, ModeValueLatte,
		ModeValueBlackTea, ModeValueFlowerTea, ModeValueGreenTea, ModeValueHerbalTea,
		ModeValueOolongTea, ModeValuePuerhTea, ModeValueRedTea, ModeValueWhiteTea,
		ModeValueGlass, ModeValueIntensive, ModeValuePreRinse,
		ModeValueAspic, ModeValueBabyFood, ModeValueBaking, ModeValueBread, ModeValueBoiling,
		ModeValueCereals, ModeValueCheesecake, ModeValueDeepFryer, ModeValueDessert, ModeValueFowl,
		ModeValueFrying, ModeValueMacaroni, ModeValueMilkPorridge, ModeValueMulticooker,
		ModeValuePasta, ModeValuePilaf, ModeValuePizza, ModeValueSauce, ModeValueSlowCook,
		ModeValueSoup, ModeValueSteam, ModeValueStewing, ModeValueVacuum, ModeValueYogurt,
	}
}

// OrdinalModes are the numbered modes used for enumerations without
// a natural mapping, such as media sources.
func OrdinalModes() []ModeValue {
	return []ModeValue{
		ModeValueOne, ModeValueTwo, ModeValueThree, ModeValueFour, ModeValueFive,
		ModeValueSix, ModeValueSeven, ModeValueEight, ModeValueNine, ModeValueTen,
	}
}
