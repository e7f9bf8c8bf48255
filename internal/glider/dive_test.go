package glider

import (
	"math"
	"testing"
)

func TestDiveNumbersScenario(t *testing.T) {
	times := secondsApart(5)
	depths := []float64{5, 20, 25, 20, 5}

	dives, err := NumberTrack(times, depths, DefaultDiveDepthThreshold)
	if err != nil {
		t.Fatalf("NumberTrack returned error: %v", err)
	}

	want := []float64{0, 0.5, 0.5, 1, 1}
	for i := range want {
		if dives[i] != want[i] {
			t.Errorf("dives[%d] = %v, want %v", i, dives[i], want[i])
		}
	}
}

func TestDiveNumbersTwoCycles(t *testing.T) {
	phases := []Phase{
		Surface,
		Descent, Descent, Inflexion, Ascent, Ascent,
		Surface,
		Descent, Descent, Ascent, Ascent,
		Surface,
	}
	want := []float64{0, 0.5, 0.5, 0.5, 1, 1, 1, 1.5, 1.5, 2, 2, 2}

	dives := DiveNumbers(phases)
	for i := range want {
		if dives[i] != want[i] {
			t.Errorf("dives[%d] = %v, want %v", i, dives[i], want[i])
		}
	}
}

func TestDiveNumbersNonDecreasingHalfSteps(t *testing.T) {
	phases := []Phase{
		Undetermined, Descent, Descent, Inflexion, Descent, Ascent,
		Surface, Descent, Ascent, Descent, Ascent, Surface,
	}
	dives := DiveNumbers(phases)

	for i := 1; i < len(dives); i++ {
		if dives[i] < dives[i-1] {
			t.Fatalf("dives[%d] = %v < dives[%d] = %v; must be non-decreasing", i, dives[i], i-1, dives[i-1])
		}
	}
	for i, d := range dives {
		if math.Mod(d*2, 1) != 0 {
			t.Errorf("dives[%d] = %v; every value must be a whole or half number", i, d)
		}
	}
}

// A single-sample spike into a phase counts as a full run start. This
// over-segments noisy traces and is kept deliberately; the test pins the
// behaviour so it cannot change silently.
func TestDiveNumbersSingleSampleSpike(t *testing.T) {
	phases := []Phase{Descent, Descent, Ascent, Descent, Descent}
	dives := DiveNumbers(phases)

	// The spike at index 2 starts an ascent run, and returning to Descent
	// at index 3 starts a fresh descent run.
	want := []float64{0, 0, 0.5, 1, 1}
	for i := range want {
		if dives[i] != want[i] {
			t.Errorf("dives[%d] = %v, want %v", i, dives[i], want[i])
		}
	}
}

// The first sample never counts as a run start, even when the trace begins
// mid-descent.
func TestDiveNumbersNoTransitionAtStart(t *testing.T) {
	dives := DiveNumbers([]Phase{Descent, Descent, Ascent})
	want := []float64{0, 0, 0.5}
	for i := range want {
		if dives[i] != want[i] {
			t.Errorf("dives[%d] = %v, want %v", i, dives[i], want[i])
		}
	}
}

func TestNumberTrackDeterministic(t *testing.T) {
	times := secondsApart(8)
	depths := []float64{2, 18, 30, 35, 30, 18, 2, 2}

	first, err := NumberTrack(times, depths, DefaultDiveDepthThreshold)
	if err != nil {
		t.Fatalf("NumberTrack returned error: %v", err)
	}
	second, err := NumberTrack(times, depths, DefaultDiveDepthThreshold)
	if err != nil {
		t.Fatalf("NumberTrack returned error: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("run 1 dives[%d] = %v, run 2 = %v; segmentation must be deterministic", i, first[i], second[i])
		}
	}
}

func TestDiveNumbersEmpty(t *testing.T) {
	if dives := DiveNumbers(nil); len(dives) != 0 {
		t.Errorf("DiveNumbers(nil) length = %d, want 0", len(dives))
	}
}
