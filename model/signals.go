package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Keys accepted in a raw auxiliary signal bundle. Anything else is ignored.
const (
	SignalHasFaces           = "has_faces"
	SignalAvgBrightness      = "avg_brightness"
	SignalBrightnessVariance = "brightness_variance"
	SignalSceneChanges       = "scene_changes"
)

// AuxiliarySignals is the closed bundle of non-text features produced by the visual/audio analysers.
// Signals only feed classifier bonus rules and context narratives, never ranking.
type AuxiliarySignals struct {
	HasFaces           bool    `json:"has_faces"`
	AvgBrightness      float64 `json:"avg_brightness"`      // Mean grey level, 0-255
	BrightnessVariance float64 `json:"brightness_variance"` // Variance of per-frame brightness
	SceneChanges       int     `json:"scene_changes"`
}

// Validate rejects values an analyser could not have produced.
func (s *AuxiliarySignals) Validate() error {
	if math.IsNaN(s.AvgBrightness) || math.IsInf(s.AvgBrightness, 0) {
		return fmt.Errorf("%s is not a finite number", SignalAvgBrightness)
	}
	if s.AvgBrightness < 0 || s.AvgBrightness > 255 {
		return fmt.Errorf("%s %.2f outside [0,255]", SignalAvgBrightness, s.AvgBrightness)
	}
	if math.IsNaN(s.BrightnessVariance) || math.IsInf(s.BrightnessVariance, 0) || s.BrightnessVariance < 0 {
		return fmt.Errorf("%s must be a non-negative finite number", SignalBrightnessVariance)
	}
	if s.SceneChanges < 0 {
		return fmt.Errorf("%s cannot be negative", SignalSceneChanges)
	}
	return nil
}

// ParseSignals converts an untyped bundle (as decoded from JSON) into AuxiliarySignals.
// Unknown keys are ignored; known keys with the wrong type make the whole bundle malformed.
// A nil or empty bundle yields nil signals.
func ParseSignals(raw map[string]any) (*AuxiliarySignals, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	signals := &AuxiliarySignals{}
	for key, value := range raw {
		switch key {
		case SignalHasFaces:
			b, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("%s: expected bool, got %T", key, value)
			}
			signals.HasFaces = b
		case SignalAvgBrightness:
			f, err := toFloat(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			signals.AvgBrightness = f
		case SignalBrightnessVariance:
			f, err := toFloat(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			signals.BrightnessVariance = f
		case SignalSceneChanges:
			f, err := toFloat(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			if f != math.Trunc(f) {
				return nil, fmt.Errorf("%s: expected an integer, got %v", key, f)
			}
			signals.SceneChanges = int(f)
		}
	}
	if err := signals.Validate(); err != nil {
		return nil, err
	}
	return signals, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}
