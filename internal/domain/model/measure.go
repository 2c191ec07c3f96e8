package model

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	secondsPerMinute = 60
	centisPerSecond  = 100
	maxSecondsPart   = 59
	maxCentisPart    = 99
	hundredthsExp    = 2
)

// TimeFromParts converts an M:SS.CC stopwatch reading to seconds.
// All-zero parts yield 0, which ValidateTime rejects.
func TimeFromParts(minutes, seconds, centis int) (float64, error) {
	switch {
	case minutes < 0:
		return 0, Invalid("minutes", "must not be negative")
	case seconds < 0 || seconds > maxSecondsPart:
		return 0, Invalid("seconds", "must be between 0 and 59")
	case centis < 0 || centis > maxCentisPart:
		return 0, Invalid("centis", "must be between 0 and 99")
	}
	whole := decimal.NewFromInt(int64(minutes)*secondsPerMinute + int64(seconds))
	total := whole.Add(decimal.New(int64(centis), -hundredthsExp))
	f, _ := total.Float64()
	return f, nil
}

// Hundredths rounds v to two decimals and returns it as a whole number of
// hundredths, as shown on a stopwatch.
func Hundredths(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(hundredthsExp).Shift(hundredthsExp).IntPart()
}

// FormatTime renders seconds as M:SS.CC.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "-"
	}
	c := Hundredths(seconds)
	perMinute := int64(secondsPerMinute * centisPerSecond)
	return fmt.Sprintf("%d:%02d.%02d", c/perMinute, (c/centisPerSecond)%secondsPerMinute, c%centisPerSecond)
}

// FormatDistance renders meters with two decimals.
func FormatDistance(meters float64) string {
	if math.IsNaN(meters) || math.IsInf(meters, 0) {
		return "-"
	}
	return decimal.NewFromFloat(meters).StringFixed(hundredthsExp)
}
