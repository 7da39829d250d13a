package schema

import (
	"encoding/json"
	"fmt"
	"slices"
)

// ColorScene is a predefined light scene.
type ColorScene string

// Color scenes.
const (
	SceneAlarm   ColorScene = "alarm"
	SceneAlice   ColorScene = "alice"
	SceneCandle  ColorScene = "candle"
	SceneDinner  ColorScene = "dinner"
	SceneFantasy ColorScene = "fantasy"
	SceneGarland ColorScene = "garland"
	SceneJungle  ColorScene = "jungle"
	SceneMovie   ColorScene = "movie"
	SceneNeon    ColorScene = "neon"
	SceneNight   ColorScene = "night"
	SceneOcean   ColorScene = "ocean"
	SceneParty   ColorScene = "party"
	SceneReading ColorScene = "reading"
	SceneRest    ColorScene = "rest"
	SceneRomance ColorScene = "romance"
	SceneSiren   ColorScene = "siren"
	SceneSunrise ColorScene = "sunrise"
	SceneSunset  ColorScene = "sunset"
)

// AllColorScenes returns every color scene in declaration order.
func AllColorScenes() []ColorScene {
	return []ColorScene{
		SceneAlarm, SceneAlice, SceneCandle, SceneDinner, SceneFantasy, SceneGarland,
		SceneJungle, SceneMovie, SceneNeon, SceneNight, SceneOcean, SceneParty,
		SceneReading, SceneRest, SceneRomance, SceneSiren, SceneSunrise, SceneSunset,
	}
}

// ColorModel is the color model announced by a color_setting capability.
type ColorModel string

// Color models.
const (
	ColorModelRGB ColorModel = "rgb"
	ColorModelHSV ColorModel = "hsv"
)

// HSV is a color in hue/saturation/value form.
type HSV struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

// TemperatureKParameter is the supported white temperature range in kelvin.
type TemperatureKParameter struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ColorSceneEntry is one scene in a color_scene parameter.
type ColorSceneEntry struct {
	ID ColorScene `json:"id"`
}

// ColorSceneParameter lists the scenes a light supports.
type ColorSceneParameter struct {
	Scenes []ColorSceneEntry `json:"scenes"`
}

// NewColorSceneParameter builds a parameter from a scene list.
func NewColorSceneParameter(scenes []ColorScene) *ColorSceneParameter {
	p := &ColorSceneParameter{Scenes: make([]ColorSceneEntry, 0, len(scenes))}
	for _, s := range scenes {
		p.Scenes = append(p.Scenes, ColorSceneEntry{ID: s})
	}
	return p
}

// ColorSettingCapabilityParameters are the parameters of a color_setting
// capability. At least one field must be set.
type ColorSettingCapabilityParameters struct {
	ColorModel   *ColorModel            `json:"color_model,omitempty"`
	TemperatureK *TemperatureKParameter `json:"temperature_k,omitempty"`
	ColorScene   *ColorSceneParameter   `json:"color_scene,omitempty"`
}

// Validate checks that at least one parameter is present.
func (p ColorSettingCapabilityParameters) Validate() error {
	if p.ColorModel == nil && p.TemperatureK == nil && p.ColorScene == nil {
		return fmt.Errorf("%w: one of color_model, temperature_k or color_scene must have a value", ErrInvalidParameters)
	}
	return nil
}

func decodeColorValue(instance CapabilityInstance, raw json.RawMessage) (any, error) {
	switch instance {
	case ColorRGB, ColorTemperatureK:
		var v int
		err := json.Unmarshal(raw, &v)
		return v, err
	case ColorHSV:
		var v HSV
		err := json.Unmarshal(raw, &v)
		return v, err
	case ColorSceneInstance:
		var v ColorScene
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if !slices.Contains(AllColorScenes(), v) {
			return nil, fmt.Errorf("unknown scene %q", v)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported color instance %q", instance)
}
