package glider

import (
	"math"
	"testing"
)

func TestClassifyPhasesRuleOrder(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name     string
		depth    float64
		velocity float64
		want     Phase
	}{
		{"descending at depth", 50, 2.0, Descent},
		{"ascending at depth", 50, -2.0, Ascent},
		{"stalled at depth", 50, 0.1, Inflexion},
		{"stalled at lower stall bound", 50, -0.5, Inflexion},
		{"stalled at upper stall bound", 50, 0.5, Inflexion},
		// The shallow rule overrides the velocity rules: a fast-moving
		// sample above the threshold is still surface drift.
		{"descending but shallow", 10, 3.0, Surface},
		{"ascending but shallow", 10, -3.0, Surface},
		{"exactly at threshold", 15, 2.0, Surface},
		{"undefined velocity while shallow", 5, nan, Surface},
		{"undefined velocity at depth", 50, nan, Undetermined},
		{"undefined depth", nan, 1.0, Descent},
		{"undefined depth and stalled", nan, 0.0, Undetermined},
		{"infinite velocity at depth", 50, math.Inf(1), Descent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases, err := ClassifyPhases([]float64{tt.depth}, []float64{tt.velocity}, DefaultDiveDepthThreshold)
			if err != nil {
				t.Fatalf("ClassifyPhases returned error: %v", err)
			}
			if phases[0] != tt.want {
				t.Errorf("ClassifyPhases(depth=%f, v=%f) = %v, want %v", tt.depth, tt.velocity, phases[0], tt.want)
			}
		})
	}
}

func TestClassifyTrackScenario(t *testing.T) {
	times := secondsApart(5)
	depths := []float64{5, 20, 25, 20, 5}

	phases, err := ClassifyTrack(times, depths, DefaultDiveDepthThreshold)
	if err != nil {
		t.Fatalf("ClassifyTrack returned error: %v", err)
	}

	// First sample has undefined velocity but is shallow, so it resolves
	// to Surface. The last sample is shallow again: the depth rule
	// overrides its ascent velocity.
	want := []Phase{Surface, Descent, Descent, Ascent, Surface}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phases[%d] = %v, want %v", i, phases[i], want[i])
		}
	}
}

func TestClassifyTrackFirstSampleDeep(t *testing.T) {
	times := secondsApart(2)
	depths := []float64{40, 42}

	phases, err := ClassifyTrack(times, depths, DefaultDiveDepthThreshold)
	if err != nil {
		t.Fatalf("ClassifyTrack returned error: %v", err)
	}
	if phases[0] != Undetermined {
		t.Errorf("phases[0] = %v, want Undetermined for deep first sample", phases[0])
	}
}

func TestClassifyPhasesShapeMismatch(t *testing.T) {
	_, err := ClassifyPhases([]float64{1, 2}, []float64{1}, DefaultDiveDepthThreshold)
	if err == nil {
		t.Fatal("ClassifyPhases accepted mismatched lengths")
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Surface, "surface"},
		{Descent, "descent"},
		{Inflexion, "inflexion"},
		{Ascent, "ascent"},
		{Undetermined, "undetermined"},
		{Phase(2), "invalid"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tt.phase), got, tt.want)
		}
	}
}
