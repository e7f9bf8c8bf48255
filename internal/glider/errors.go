package glider

import "fmt"

// ShapeError reports two input sequences whose lengths were required to
// match. It is returned before any computation starts; no partial result
// accompanies it.
type ShapeError struct {
	What string // the offending pair, e.g. "time, depth"
	Len1 int
	Len2 int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s size must match; found %d, %d", e.What, e.Len1, e.Len2)
}
