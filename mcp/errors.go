package mcp

import "fmt"

// DimensionError reports a length mismatch detected at a compile- or
// solve-time boundary (spec §7 "Dimension mismatch").
type DimensionError struct {
	What     string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("pmcp: %s: expected length %d, got %d", e.What, e.Expected, e.Got)
}

func dimErr(what string, expected, got int) error {
	if expected == got {
		return nil
	}
	return &DimensionError{What: what, Expected: expected, Got: got}
}

// BoundsOrderError reports lb[i] > ub[i] for some i.
type BoundsOrderError struct {
	Index         int
	Lower, Upper  float64
}

func (e *BoundsOrderError) Error() string {
	return fmt.Sprintf("pmcp: lower_bounds[%d]=%g exceeds upper_bounds[%d]=%g", e.Index, e.Lower, e.Index, e.Upper)
}
