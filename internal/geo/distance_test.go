package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/pelagic-data/dive.report/internal/glider"
)

func TestDistancesAdjacent(t *testing.T) {
	// One degree of longitude along the equator.
	lon := []float64{0, 1}
	lat := []float64{0, 0}

	d, err := Distances(lon, lat)
	if err != nil {
		t.Fatalf("Distances returned error: %v", err)
	}
	if len(d) != 2 {
		t.Fatalf("length = %d, want 2", len(d))
	}
	if d[0] != 0 {
		t.Errorf("d[0] = %f, want 0", d[0])
	}
	// 6371e3 * pi/180
	want := earthRadiusM * math.Pi / 180
	if math.Abs(d[1]-want) > 1 {
		t.Errorf("d[1] = %f, want %f within 1 m", d[1], want)
	}
}

func TestDistancesSinglePoint(t *testing.T) {
	d, err := Distances([]float64{12.5}, []float64{-34.2})
	if err != nil {
		t.Fatalf("Distances returned error: %v", err)
	}
	if len(d) != 1 || d[0] != 0 {
		t.Errorf("Distances single point = %v, want [0]", d)
	}
}

func TestDistancesShapeMismatch(t *testing.T) {
	d, err := Distances([]float64{1, 2, 3}, []float64{1, 2, 3, 4})
	if d != nil {
		t.Errorf("Distances returned partial result %v with error", d)
	}
	var shapeErr *glider.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Distances error = %v, want *glider.ShapeError", err)
	}
	if got := shapeErr.Error(); got != "lon, lat size must match; found 3, 4" {
		t.Errorf("error message = %q", got)
	}
}

func TestDistancesFrom(t *testing.T) {
	lon := []float64{0, 1, 2}
	lat := []float64{0, 0, 0}

	d, err := DistancesFrom(lon, lat, 0)
	if err != nil {
		t.Fatalf("DistancesFrom returned error: %v", err)
	}
	// Leading zero is prepended, so the result is one longer than the track
	// and the reference's own zero distance shows up at index 1.
	if len(d) != len(lon)+1 {
		t.Fatalf("length = %d, want %d", len(d), len(lon)+1)
	}
	if d[0] != 0 || d[1] != 0 {
		t.Errorf("d[0], d[1] = %f, %f; want 0, 0", d[0], d[1])
	}

	degree := earthRadiusM * math.Pi / 180
	if math.Abs(d[2]-degree) > 1 {
		t.Errorf("d[2] = %f, want %f within 1 m", d[2], degree)
	}
	if math.Abs(d[3]-2*degree) > 1 {
		t.Errorf("d[3] = %f, want %f within 1 m", d[3], 2*degree)
	}
}

func TestDistancesFromNegativeIndex(t *testing.T) {
	lon := []float64{0, 1}
	lat := []float64{0, 0}

	fromLast, err := DistancesFrom(lon, lat, -1)
	if err != nil {
		t.Fatalf("DistancesFrom(-1) returned error: %v", err)
	}
	fromIdx1, err := DistancesFrom(lon, lat, 1)
	if err != nil {
		t.Fatalf("DistancesFrom(1) returned error: %v", err)
	}
	for i := range fromLast {
		if fromLast[i] != fromIdx1[i] {
			t.Errorf("index -1 and 1 disagree at %d: %f vs %f", i, fromLast[i], fromIdx1[i])
		}
	}
}

func TestDistancesFromOutOfRange(t *testing.T) {
	if _, err := DistancesFrom([]float64{0}, []float64{0}, 3); err == nil {
		t.Error("DistancesFrom accepted out-of-range reference index")
	}
	if _, err := DistancesFrom([]float64{0}, []float64{0}, -2); err == nil {
		t.Error("DistancesFrom accepted out-of-range negative reference index")
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Cape Town to Tristan da Cunha, roughly 2,800 km.
	d := haversine(18.42, -33.92, -12.31, -37.11)
	if d < 2.7e6 || d > 2.9e6 {
		t.Errorf("haversine = %f, want roughly 2.8e6 m", d)
	}
}
