// Package glider segments raw glider telemetry (time, depth) into dive
// phases and fractional dive numbers. All functions are pure: they derive
// new slices from their inputs and keep no state between calls.
package glider

import (
	"math"
	"time"
)

// VertVelocity computes the instantaneous vertical velocity of a glider in
// cm/s from timestamps and depth (m) or pressure (dbar as a depth proxy).
// Positive values mean the glider is descending.
//
// The result has the same length as the inputs. Element 0 is NaN: there is
// no prior sample to difference against. A zero time delta propagates
// ±Inf (or NaN for a repeated sample at the same depth) rather than failing;
// phase classification resolves such samples to surface or undetermined.
func VertVelocity(times []time.Time, depths []float64) ([]float64, error) {
	if len(times) != len(depths) {
		return nil, &ShapeError{What: "time, depth", Len1: len(times), Len2: len(depths)}
	}

	velocity := make([]float64, len(times))
	if len(velocity) == 0 {
		return velocity, nil
	}

	velocity[0] = math.NaN()
	for i := 1; i < len(times); i++ {
		dtSeconds := times[i].Sub(times[i-1]).Seconds()
		dDepthCm := (depths[i] - depths[i-1]) * 100
		velocity[i] = dDepthCm / dtSeconds
	}
	return velocity, nil
}
