// SPDX-License-Identifier: MIT
// Package operator: sentinel error set.
// Construction errors are configuration errors; ErrNonFinite and wrapped
// matrix.ErrSingular are numerical failures of one solve.

package operator

import "errors"

var (
	// ErrDirection indicates a direction outside the mesher's dimensions.
	ErrDirection = errors.New("operator: direction out of range")

	// ErrDuplicateTerm is returned when a term name is registered twice.
	ErrDuplicateTerm = errors.New("operator: duplicate term name")

	// ErrNonFinite signals a NaN or ±Inf coefficient, typically from a
	// degenerate model parameter.
	ErrNonFinite = errors.New("operator: non-finite coefficient")

	// ErrCoefficientLength signals a coefficient vector whose length is
	// neither 1 nor the mesh size.
	ErrCoefficientLength = errors.New("operator: coefficient length mismatch")

	// ErrTimeNotSet is returned when a solve is requested before SetTime.
	ErrTimeNotSet = errors.New("operator: SetTime not called")

	// ErrMismatch indicates operators built on different directions or meshes.
	ErrMismatch = errors.New("operator: incompatible operators")

	// ErrBadParameter signals an invalid model parameter.
	ErrBadParameter = errors.New("operator: invalid model parameter")
)
