package model

import (
	"math"
	"strings"
)

// MaxMeasurement bounds time and distance inputs so that values stay exact
// at hundredth precision.
const MaxMeasurement = 1e9

// NormalizeName trims name and rejects it when nothing is left.
func NormalizeName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalid(field, "must not be empty")
	}
	return name, nil
}

// SameName compares participant names case-insensitively.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ValidateTime rejects times that are not finite or not positive. A zero
// time means the athlete entered nothing.
func ValidateTime(seconds float64) error {
	switch {
	case math.IsNaN(seconds) || math.IsInf(seconds, 0):
		return Invalid("time", "must be a finite number")
	case seconds <= 0:
		return Invalid("time", "must be greater than zero")
	case seconds > MaxMeasurement:
		return Invalid("time", "is out of range")
	}
	return nil
}

// ValidateMeasurement checks the primary result value for the event type.
// Distance accepts zero; reps must be a whole number of at least one.
func ValidateMeasurement(t EventType, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Invalid(measurementField(t), "must be a finite number")
	}
	switch t {
	case EventTypeDistance:
		if v < 0 {
			return Invalid("distance", "must not be negative")
		}
		if v > MaxMeasurement {
			return Invalid("distance", "is out of range")
		}
	case EventTypeReps:
		if v != math.Trunc(v) {
			return Invalid("reps", "must be a whole number")
		}
		if v < 1 {
			return Invalid("reps", "must be at least 1")
		}
		if v > MaxMeasurement {
			return Invalid("reps", "is out of range")
		}
	default:
		return Invalid("type", "must be distance or reps")
	}
	return nil
}

func measurementField(t EventType) string {
	if t == EventTypeReps {
		return "reps"
	}
	return "distance"
}
