// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/stock-planner/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ClampNonNegative clamps tiny negative subtraction artifacts (and any
// genuinely negative value) to zero.
func ClampNonNegative(val float64) float64 {
	if val < 0 {
		return 0
	}
	return val
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// CeilDiv returns the number of whole units of size needed to cover volume.
// A volume within VolumeTolerance of a whole multiple does not start a new
// unit; zero or negative volume needs zero units.
func CeilDiv(volume, size float64) int {
	if volume <= constants.VolumeTolerance || size <= 0 {
		return 0
	}
	ratio := volume / size
	units := int(math.Ceil(ratio - constants.VolumeTolerance))
	if units < 1 {
		units = 1
	}
	return units
}
