package timeutil

import (
	"testing"
	"time"
)

func TestMockClockNowAndSince(t *testing.T) {
	start := time.Date(2023, 4, 12, 6, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	if !clock.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", clock.Now(), start)
	}

	clock.Advance(90 * time.Second)
	if got := clock.Since(start); got != 90*time.Second {
		t.Errorf("Since(start) = %v, want 90s", got)
	}

	later := start.Add(5 * time.Minute)
	clock.Set(later)
	if !clock.Now().Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", clock.Now(), later)
	}
}

func TestMockTickerFiresOnAdvance(t *testing.T) {
	start := time.Date(2023, 4, 12, 6, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	ticker := clock.NewTicker(time.Minute)
	defer ticker.Stop()

	clock.Advance(30 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired before its period elapsed")
	default:
	}

	clock.Advance(30 * time.Second)
	select {
	case tick := <-ticker.C():
		if !tick.Equal(start.Add(time.Minute)) {
			t.Errorf("tick time = %v, want %v", tick, start.Add(time.Minute))
		}
	default:
		t.Fatal("ticker did not fire after its period elapsed")
	}
}

func TestMockTickerStop(t *testing.T) {
	clock := NewMockClock(time.Date(2023, 4, 12, 6, 0, 0, 0, time.UTC))
	ticker := clock.NewTicker(time.Second)

	ticker.Stop()
	clock.Advance(5 * time.Second)

	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestRealClock(t *testing.T) {
	var clock Clock = RealClock{}
	before := time.Now()
	if clock.Now().Before(before) {
		t.Error("RealClock.Now() went backwards")
	}
	if clock.Since(before) < 0 {
		t.Error("RealClock.Since() returned a negative duration")
	}
}
