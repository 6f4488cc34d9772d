// Package units provides shared constants and validation for angle units
package units

import "math"

// Unit constants
const (
	Radians = "rad"
	Degrees = "deg"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Radians, Degrees}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "rad, deg"
}

// ConvertAngle converts an angle in radians to the target units.
// Unknown units leave the value in radians.
func ConvertAngle(rad float64, targetUnits string) float64 {
	switch targetUnits {
	case Degrees:
		return rad * 180 / math.Pi
	default:
		return rad
	}
}

// Suffix returns the short label printed after a converted angle.
func Suffix(unit string) string {
	if unit == Degrees {
		return "°"
	}
	return " rad"
}
