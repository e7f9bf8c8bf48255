// Package profiles groups segmented glider data by fractional dive number
// and derives per-dive masks, representative times and statistics. The
// grouping index is computed once and shared by all consumers instead of
// each operation re-deriving its own grouping.
package profiles

import (
	"github.com/pelagic-data/dive.report/internal/glider"
)

// Index is a read-only view of a dataset keyed by dive number: for every
// distinct dive value it records the row positions belonging to that dive,
// in original row order.
type Index struct {
	perRow []float64
	keys   []float64
	rows   map[float64][]int
}

// GroupByDive builds the grouping index for a per-row dive number sequence
// (as produced by glider.DiveNumbers). Keys are reported in order of first
// appearance, which is ascending for a well-formed non-decreasing sequence.
func GroupByDive(dives []float64) *Index {
	ix := &Index{
		perRow: append([]float64(nil), dives...),
		rows:   make(map[float64][]int),
	}
	for i, d := range dives {
		if _, seen := ix.rows[d]; !seen {
			ix.keys = append(ix.keys, d)
		}
		ix.rows[d] = append(ix.rows[d], i)
	}
	return ix
}

// Len returns the number of rows the index was built over.
func (ix *Index) Len() int { return len(ix.perRow) }

// Dives returns the distinct dive numbers in order of first appearance.
func (ix *Index) Dives() []float64 {
	return append([]float64(nil), ix.keys...)
}

// Rows returns the row positions of one dive, in original order. The result
// is nil for an unknown dive number.
func (ix *Index) Rows(dive float64) []int {
	return append([]int(nil), ix.rows[dive]...)
}

// Dive returns the dive number of a single row.
func (ix *Index) Dive(row int) float64 { return ix.perRow[row] }

func (ix *Index) checkLen(what string, n int) error {
	if n != len(ix.perRow) {
		return &glider.ShapeError{What: what, Len1: len(ix.perRow), Len2: n}
	}
	return nil
}
