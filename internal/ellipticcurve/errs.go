package ellipticcurve

import "errors"

var (
	// ErrNotOnCurve is returned when the point constructor is given
	// coordinates that do not satisfy the curve equation.
	ErrNotOnCurve = errors.New("point does not exist on elliptic curve")

	// ErrCurveMismatch is returned when an operation mixes points from
	// different curves (differing a, b).
	ErrCurveMismatch = errors.New("points are on different curves")
)
