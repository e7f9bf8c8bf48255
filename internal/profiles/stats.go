package profiles

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes one dive group.
type Stats struct {
	Dive      float64
	Samples   int
	MinDepth  float64
	MaxDepth  float64
	MeanDepth float64
	Start     time.Time
	End       time.Time
	Mid       time.Time
}

// DiveStats computes per-dive depth and time summaries, one entry per
// distinct dive number in first-appearance order. NaN depths are excluded
// from the depth aggregates; a dive with no finite depth at all reports NaN
// for all three.
func DiveStats(ix *Index, times []time.Time, depths []float64) ([]Stats, error) {
	if err := ix.checkLen("dive, time", len(times)); err != nil {
		return nil, err
	}
	if err := ix.checkLen("dive, depth", len(depths)); err != nil {
		return nil, err
	}

	out := make([]Stats, 0, len(ix.keys))
	for _, dive := range ix.keys {
		rows := ix.rows[dive]

		start := times[rows[0]]
		end := start
		valid := make([]float64, 0, len(rows))
		for _, r := range rows {
			if times[r].Before(start) {
				start = times[r]
			}
			if times[r].After(end) {
				end = times[r]
			}
			if !math.IsNaN(depths[r]) {
				valid = append(valid, depths[r])
			}
		}

		s := Stats{
			Dive:    dive,
			Samples: len(rows),
			Start:   start,
			End:     end,
			Mid:     time.Unix((start.Unix()+end.Unix())/2, 0).UTC(),
		}
		if len(valid) > 0 {
			s.MinDepth = floats.Min(valid)
			s.MaxDepth = floats.Max(valid)
			s.MeanDepth = stat.Mean(valid, nil)
		} else {
			s.MinDepth = math.NaN()
			s.MaxDepth = math.NaN()
			s.MeanDepth = math.NaN()
		}
		out = append(out, s)
	}
	return out, nil
}
