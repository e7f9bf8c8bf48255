package series

import (
	"fmt"
	"math"
	"sort"
)

// DefaultInterpLim is the default bound on consecutive interpolated or
// back-filled steps during a merge.
const DefaultInterpLim = 3

// dropSuffix renames columns of the donor frame that collide with a column
// of the reference frame.
const dropSuffix = "_drop"

// Merge aligns frame b onto frame a's index. The two indices are
// outer-joined (sorted union, equal values collapsed), every column is
// linearly interpolated over the union grid with at most interpLim
// consecutive fills per gap, remaining gaps are back-filled up to the same
// limit, and the result is subset back down to exactly a's rows. Frame b
// exists only to donate values onto a's grid: its own timestamps are
// discarded from the output.
//
// Interpolation is positional (union rows are treated as equally spaced),
// so a value filled into a sparse region is a blend of its grid neighbours,
// not a time-weighted estimate. Gaps longer than interpLim keep NaN in the
// middle: interpolation fills from the left edge, back-fill from the right.
//
// Both frames must share the same index kind; mixing absolute-time and
// numeric indices fails with *IndexKindError before any work is done.
func Merge(a, b *Frame, interpLim int) (*Frame, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("merge requires two frames")
	}
	if a.kind != b.kind {
		return nil, &IndexKindError{Left: a.kind, Right: b.kind}
	}
	if interpLim < 1 {
		return nil, fmt.Errorf("interp limit must be at least 1, got %d", interpLim)
	}

	aPos, bPos, unionLen := unionPositions(a, b)

	// Lay both frames' columns out over the union grid, NaN where a row has
	// no sample. Donor columns that collide with a reference column are
	// suffixed rather than merged.
	names := make([]string, 0, len(a.names)+len(b.names))
	cols := make(map[string][]float64, len(a.names)+len(b.names))

	place := func(name string, values []float64, pos []int) {
		col := make([]float64, unionLen)
		for i := range col {
			col[i] = math.NaN()
		}
		for i, p := range pos {
			col[p] = values[i]
		}
		names = append(names, name)
		cols[name] = col
	}

	for _, name := range a.names {
		place(name, a.cols[name], aPos)
	}
	for _, name := range b.names {
		outName := name
		if _, collides := a.cols[name]; collides {
			outName = name + dropSuffix
		}
		place(outName, b.cols[name], bPos)
	}

	for _, name := range names {
		interpolateBounded(cols[name], interpLim)
		backfillBounded(cols[name], interpLim)
	}

	// Subset back to a's original rows.
	var out *Frame
	if a.kind == TimeIndex {
		out = NewTimeFrame(a.times)
	} else {
		out = NewNumericFrame(a.nums)
	}
	for _, name := range names {
		col := cols[name]
		subset := make([]float64, len(aPos))
		for i, p := range aPos {
			subset[i] = col[p]
		}
		if err := out.AddColumn(name, subset); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// unionPositions computes the sorted, deduplicated union of the two frames'
// indices and maps every row of a and b to its union position.
func unionPositions(a, b *Frame) (aPos, bPos []int, unionLen int) {
	if a.kind == TimeIndex {
		keys := make([]int64, 0, len(a.times)+len(b.times))
		for _, t := range a.times {
			keys = append(keys, t.UnixNano())
		}
		for _, t := range b.times {
			keys = append(keys, t.UnixNano())
		}
		union := dedupeInt64(keys)
		aPos = make([]int, len(a.times))
		for i, t := range a.times {
			aPos[i] = sort.Search(len(union), func(j int) bool { return union[j] >= t.UnixNano() })
		}
		bPos = make([]int, len(b.times))
		for i, t := range b.times {
			bPos[i] = sort.Search(len(union), func(j int) bool { return union[j] >= t.UnixNano() })
		}
		return aPos, bPos, len(union)
	}

	keys := make([]float64, 0, len(a.nums)+len(b.nums))
	keys = append(keys, a.nums...)
	keys = append(keys, b.nums...)
	union := dedupeFloat64(keys)
	aPos = make([]int, len(a.nums))
	for i, v := range a.nums {
		aPos[i] = sort.SearchFloat64s(union, v)
	}
	bPos = make([]int, len(b.nums))
	for i, v := range b.nums {
		bPos[i] = sort.SearchFloat64s(union, v)
	}
	return aPos, bPos, len(union)
}

func dedupeInt64(keys []int64) []int64 {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := keys[:0]
	for i, k := range keys {
		if i == 0 || k != out[len(out)-1] {
			out = append(out, k)
		}
	}
	return out
}

func dedupeFloat64(keys []float64) []float64 {
	sort.Float64s(keys)
	out := keys[:0]
	for i, k := range keys {
		if i == 0 || k != out[len(out)-1] {
			out = append(out, k)
		}
	}
	return out
}

// interpolateBounded fills NaN runs in place by positional linear
// interpolation between the surrounding valid values, at most limit fills
// per run, working forward from the left anchor. A trailing run clamps to
// the last valid value. Leading NaNs are left for backfillBounded.
func interpolateBounded(v []float64, limit int) {
	last := -1 // last valid index seen
	i := 0
	for i < len(v) {
		if !math.IsNaN(v[i]) {
			last = i
			i++
			continue
		}
		j := i
		for j < len(v) && math.IsNaN(v[j]) {
			j++
		}
		// NaN run [i, j)
		if last >= 0 {
			fill := j - i
			if fill > limit {
				fill = limit
			}
			if j < len(v) {
				step := (v[j] - v[last]) / float64(j-last)
				for k := 0; k < fill; k++ {
					v[i+k] = v[last] + step*float64(i+k-last)
				}
			} else {
				for k := 0; k < fill; k++ {
					v[i+k] = v[last]
				}
			}
		}
		i = j
	}
}

// backfillBounded fills NaN runs in place from the next valid value after
// the run, at most limit fills per run, working backward from the right
// edge. Trailing NaNs (no valid value after) stay NaN.
func backfillBounded(v []float64, limit int) {
	i := 0
	for i < len(v) {
		if !math.IsNaN(v[i]) {
			i++
			continue
		}
		j := i
		for j < len(v) && math.IsNaN(v[j]) {
			j++
		}
		// NaN run [i, j); fill the last `limit` positions from v[j].
		if j < len(v) {
			start := i
			if j-i > limit {
				start = j - limit
			}
			for k := start; k < j; k++ {
				v[k] = v[j]
			}
		}
		i = j
	}
}
