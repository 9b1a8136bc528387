// SPDX-License-Identifier: MIT

package boundary

import "errors"

var (
	// ErrConflict is returned when two conditions bind the same side of the
	// same direction or pin a shared corner to different values.
	ErrConflict = errors.New("boundary: conflicting conditions")

	// ErrDirection indicates a direction outside the mesher's dimensions.
	ErrDirection = errors.New("boundary: direction out of range")

	// ErrSide indicates a side other than Lower or Upper.
	ErrSide = errors.New("boundary: invalid side")

	// ErrNilValue is returned for a nil boundary value function.
	ErrNilValue = errors.New("boundary: nil value function")

	// ErrTooFewPoints is returned by extrapolating conditions on lines with
	// fewer nodes than the extrapolation stencil needs.
	ErrTooFewPoints = errors.New("boundary: too few points for extrapolation")
)
