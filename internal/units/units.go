// Package units provides shared constants and validation for depth and
// vertical-velocity units
package units

// Depth unit constants
const (
	Meters      = "m"
	Decibars    = "dbar"
	Centimeters = "cm"
)

// Velocity unit constants
const (
	CMPS = "cmps"
	MPS  = "mps"
)

// ValidDepthUnits contains all valid depth unit values
var ValidDepthUnits = []string{Meters, Decibars, Centimeters}

// ValidVelocityUnits contains all valid velocity unit values
var ValidVelocityUnits = []string{CMPS, MPS}

// IsValidDepth checks if the given unit is a valid depth unit
func IsValidDepth(unit string) bool {
	for _, valid := range ValidDepthUnits {
		if unit == valid {
			return true
		}
	}
	return false
}

// IsValidVelocity checks if the given unit is a valid velocity unit
func IsValidVelocity(unit string) bool {
	for _, valid := range ValidVelocityUnits {
		if unit == valid {
			return true
		}
	}
	return false
}

// GetValidDepthUnitsString returns a comma-separated string of valid depth
// units for error messages
func GetValidDepthUnitsString() string {
	return "m, dbar, cm"
}

// ConvertDepth converts a depth from meters to the target units.
// Database stores depths in meters; decibars are treated as numerically
// equal to meters, the usual proxy for glider pressure sensors.
func ConvertDepth(depthMeters float64, targetUnits string) float64 {
	switch targetUnits {
	case Meters, Decibars:
		return depthMeters
	case Centimeters:
		return depthMeters * 100
	default:
		return depthMeters
	}
}

// ConvertVelocity converts a vertical velocity from cm/s to the target
// units. The segmentation pipeline works in cm/s throughout.
func ConvertVelocity(velocityCMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case CMPS:
		return velocityCMPS
	case MPS:
		return velocityCMPS / 100
	default:
		return velocityCMPS
	}
}
