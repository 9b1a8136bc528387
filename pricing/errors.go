// SPDX-License-Identifier: MIT

package pricing

import "errors"

var (
	// ErrBadOption signals an option with a non-positive strike or maturity
	// or an unknown option type.
	ErrBadOption = errors.New("pricing: invalid option")

	// ErrBadExercise signals a Bermudan exercise without dates or with dates
	// outside (0, maturity], or an unknown exercise kind.
	ErrBadExercise = errors.New("pricing: invalid exercise")

	// ErrBadModel signals missing curves or invalid model parameters.
	ErrBadModel = errors.New("pricing: invalid model")
)
