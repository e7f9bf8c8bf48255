package glider

import "time"

// DiveNumbers converts a phase sequence into a non-decreasing fractional
// dive number per sample. Two cumulative counters are kept: one incremented
// whenever an ascent run starts (the label becomes Ascent where the previous
// sample was not) and one likewise for descent runs. The reported number is
// the average of the two counters, so each counted run start advances the
// sequence by one half and a full down-up cycle advances it by one. Down-
// and up-casts of the same cycle therefore land on distinct half-step
// values, which is what the profile grouping keys on.
//
// The first sample never counts as a run start: there is no previous label
// to transition from. A single-sample spike into Ascent or Descent counts
// as a full transition, which over-segments noisy traces.
// TODO: expose a minimum run length once there is tuning data to pick one.
func DiveNumbers(phases []Phase) []float64 {
	dives := make([]float64, len(phases))
	var ascentStarts, descentStarts int
	for i, p := range phases {
		if i > 0 {
			if p == Ascent && phases[i-1] != Ascent {
				ascentStarts++
			}
			if p == Descent && phases[i-1] != Descent {
				descentStarts++
			}
		}
		dives[i] = float64(ascentStarts+descentStarts) / 2
	}
	return dives
}

// NumberTrack runs the full segmentation pipeline on a raw (time, depth)
// track: velocity, phase classification, dive numbering.
func NumberTrack(times []time.Time, depths []float64, diveDepthThreshold float64) ([]float64, error) {
	phases, err := ClassifyTrack(times, depths, diveDepthThreshold)
	if err != nil {
		return nil, err
	}
	return DiveNumbers(phases), nil
}
