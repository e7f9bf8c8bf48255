package glider

import (
	"errors"
	"math"
	"testing"
	"time"
)

func secondsApart(n int) []time.Time {
	base := time.Date(2023, 4, 12, 6, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * time.Second)
	}
	return out
}

func TestVertVelocity(t *testing.T) {
	times := secondsApart(5)
	depths := []float64{5, 20, 25, 20, 5}

	velocity, err := VertVelocity(times, depths)
	if err != nil {
		t.Fatalf("VertVelocity returned error: %v", err)
	}

	if len(velocity) != len(times) {
		t.Fatalf("velocity length = %d, want %d", len(velocity), len(times))
	}
	if !math.IsNaN(velocity[0]) {
		t.Errorf("velocity[0] = %f, want NaN", velocity[0])
	}

	want := []float64{math.NaN(), 1500, 500, -500, -1500}
	for i := 1; i < len(want); i++ {
		if math.Abs(velocity[i]-want[i]) > 1e-9 {
			t.Errorf("velocity[%d] = %f, want %f", i, velocity[i], want[i])
		}
	}
}

func TestVertVelocitySubSecondSampling(t *testing.T) {
	base := time.Date(2023, 4, 12, 6, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(500 * time.Millisecond)}
	depths := []float64{10, 10.5}

	velocity, err := VertVelocity(times, depths)
	if err != nil {
		t.Fatalf("VertVelocity returned error: %v", err)
	}
	// 0.5 m over 0.5 s is 100 cm/s.
	if math.Abs(velocity[1]-100) > 1e-9 {
		t.Errorf("velocity[1] = %f, want 100", velocity[1])
	}
}

func TestVertVelocityZeroTimeDelta(t *testing.T) {
	base := time.Date(2023, 4, 12, 6, 0, 0, 0, time.UTC)
	times := []time.Time{base, base, base}
	depths := []float64{10, 12, 12}

	velocity, err := VertVelocity(times, depths)
	if err != nil {
		t.Fatalf("VertVelocity returned error: %v", err)
	}
	if !math.IsInf(velocity[1], 1) {
		t.Errorf("velocity[1] = %f, want +Inf for zero time delta", velocity[1])
	}
	// Same depth, same instant: 0/0.
	if !math.IsNaN(velocity[2]) {
		t.Errorf("velocity[2] = %f, want NaN for repeated sample", velocity[2])
	}
}

func TestVertVelocityShapeMismatch(t *testing.T) {
	_, err := VertVelocity(secondsApart(3), []float64{1, 2, 3, 4})
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("VertVelocity error = %v, want *ShapeError", err)
	}
	if shapeErr.Len1 != 3 || shapeErr.Len2 != 4 {
		t.Errorf("ShapeError lengths = %d, %d; want 3, 4", shapeErr.Len1, shapeErr.Len2)
	}
}

func TestVertVelocityEmpty(t *testing.T) {
	velocity, err := VertVelocity(nil, nil)
	if err != nil {
		t.Fatalf("VertVelocity returned error: %v", err)
	}
	if len(velocity) != 0 {
		t.Errorf("velocity length = %d, want 0", len(velocity))
	}
}
