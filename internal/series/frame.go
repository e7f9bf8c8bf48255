// Package series provides a small column-oriented, time-indexed frame and a
// bounded-interpolation merge for aligning sensor streams sampled at
// different rates.
package series

import (
	"fmt"
	"time"

	"github.com/pelagic-data/dive.report/internal/glider"
)

// IndexKind distinguishes the two index representations a Frame can carry.
// Glider streams are usually indexed by absolute timestamps, but some
// instrument dumps only carry elapsed mission seconds.
type IndexKind int

const (
	TimeIndex IndexKind = iota
	NumericIndex
)

func (k IndexKind) String() string {
	switch k {
	case TimeIndex:
		return "time"
	case NumericIndex:
		return "numeric"
	default:
		return "invalid"
	}
}

// IndexKindError reports an attempt to merge two frames whose indices are of
// different kinds. It is returned before any computation proceeds.
type IndexKindError struct {
	Left, Right IndexKind
}

func (e *IndexKindError) Error() string {
	return fmt.Sprintf("frame index kinds must match; found %s, %s", e.Left, e.Right)
}

// Frame holds named float64 columns over a shared, strictly ordered index.
// Frames are value-like: operations return new frames and never mutate their
// inputs.
type Frame struct {
	kind  IndexKind
	times []time.Time
	nums  []float64
	names []string
	cols  map[string][]float64
}

// NewTimeFrame creates an empty frame over an absolute-time index.
// Timestamps must be unique and ascending.
func NewTimeFrame(index []time.Time) *Frame {
	return &Frame{
		kind:  TimeIndex,
		times: append([]time.Time(nil), index...),
		cols:  make(map[string][]float64),
	}
}

// NewNumericFrame creates an empty frame over a numeric index (typically
// elapsed seconds). Values must be unique and ascending.
func NewNumericFrame(index []float64) *Frame {
	return &Frame{
		kind: NumericIndex,
		nums: append([]float64(nil), index...),
		cols: make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f.kind == TimeIndex {
		return len(f.times)
	}
	return len(f.nums)
}

// Kind returns the frame's index kind.
func (f *Frame) Kind() IndexKind { return f.kind }

// Times returns a copy of the absolute-time index. It is empty for
// numeric-indexed frames.
func (f *Frame) Times() []time.Time {
	return append([]time.Time(nil), f.times...)
}

// Numeric returns a copy of the numeric index. It is empty for time-indexed
// frames.
func (f *Frame) Numeric() []float64 {
	return append([]float64(nil), f.nums...)
}

// AddColumn attaches a named column. The column must match the index length
// and the name must be unused.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != f.Len() {
		return &glider.ShapeError{What: "index, " + name, Len1: f.Len(), Len2: len(values)}
	}
	if _, exists := f.cols[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}
	f.names = append(f.names, name)
	f.cols[name] = append([]float64(nil), values...)
	return nil
}

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.names...)
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	col, ok := f.cols[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), col...), true
}
