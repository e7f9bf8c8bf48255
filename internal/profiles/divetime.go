package profiles

import "time"

// DiveMidTimes returns one representative timestamp per row: the midpoint
// of that row's dive time span, at second resolution in UTC. The midpoint
// of (min, max) is used rather than the mean of all samples so that uneven
// sampling density within a dive cannot drag the representative time
// around. Useful as a pseudo-discrete x-axis when plotting per-dive values
// against time.
func DiveMidTimes(ix *Index, times []time.Time) ([]time.Time, error) {
	if err := ix.checkLen("dive, time", len(times)); err != nil {
		return nil, err
	}

	mids := make(map[float64]time.Time, len(ix.keys))
	for _, dive := range ix.keys {
		rows := ix.rows[dive]
		minSec := times[rows[0]].Unix()
		maxSec := minSec
		for _, r := range rows[1:] {
			s := times[r].Unix()
			if s < minSec {
				minSec = s
			}
			if s > maxSec {
				maxSec = s
			}
		}
		mids[dive] = time.Unix((minSec+maxSec)/2, 0).UTC()
	}

	out := make([]time.Time, len(times))
	for i, dive := range ix.perRow {
		out[i] = mids[dive]
	}
	return out, nil
}
