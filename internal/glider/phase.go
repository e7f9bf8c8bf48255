package glider

import "time"

// Phase classifies a single sample's motion state using the EGO dive phase
// numbering.
type Phase int

const (
	Surface      Phase = 0 // at or above the dive depth threshold, incl. surface drift
	Descent      Phase = 1
	Inflexion    Phase = 3 // at depth with near-zero vertical velocity (turning point)
	Ascent       Phase = 4
	Undetermined Phase = 6 // velocity or depth unavailable for this sample
)

func (p Phase) String() string {
	switch p {
	case Surface:
		return "surface"
	case Descent:
		return "descent"
	case Inflexion:
		return "inflexion"
	case Ascent:
		return "ascent"
	case Undetermined:
		return "undetermined"
	default:
		return "invalid"
	}
}

// DefaultDiveDepthThreshold is the minimum depth (m or dbar) at which a
// sample can belong to a dive. It should be shallower than the most shallow
// expected dive.
const DefaultDiveDepthThreshold = 15.0

// stallVelocityCmps bounds the vertical velocity band (cm/s) treated as
// "not moving" when separating descent, ascent and inflexion.
const stallVelocityCmps = 0.5

// phaseRule pairs a predicate with the label it assigns. Rules are applied
// in order and a later match overwrites an earlier one, so the position of a
// rule in the table is part of the classification contract.
type phaseRule struct {
	label Phase
	match func(depth, velocity float64) bool
}

// ClassifyPhases labels every sample with a dive phase given its depth and
// vertical velocity (cm/s, as produced by VertVelocity).
//
// The rule order is load-bearing: the shallow-water rule comes after the
// velocity rules so that samples above diveDepthThreshold are always
// Surface no matter how fast they move. Samples matching no rule (NaN
// velocity at depth, NaN depth) stay Undetermined. NaN comparisons are
// false, so undefined velocities fall through the velocity rules without
// any special casing.
func ClassifyPhases(depths, velocity []float64, diveDepthThreshold float64) ([]Phase, error) {
	if len(depths) != len(velocity) {
		return nil, &ShapeError{What: "depth, velocity", Len1: len(depths), Len2: len(velocity)}
	}

	rules := []phaseRule{
		{Descent, func(d, v float64) bool { return v > stallVelocityCmps }},
		{Ascent, func(d, v float64) bool { return v < -stallVelocityCmps }},
		{Inflexion, func(d, v float64) bool {
			return d > diveDepthThreshold && v >= -stallVelocityCmps && v <= stallVelocityCmps
		}},
		{Surface, func(d, v float64) bool { return d <= diveDepthThreshold }},
	}

	phases := make([]Phase, len(depths))
	for i := range phases {
		label := Undetermined
		for _, r := range rules {
			if r.match(depths[i], velocity[i]) {
				label = r.label
			}
		}
		phases[i] = label
	}
	return phases, nil
}

// ClassifyTrack derives the velocity signal from a raw (time, depth) track
// and classifies it in one call.
func ClassifyTrack(times []time.Time, depths []float64, diveDepthThreshold float64) ([]Phase, error) {
	velocity, err := VertVelocity(times, depths)
	if err != nil {
		return nil, err
	}
	return ClassifyPhases(depths, velocity, diveDepthThreshold)
}
