// SPDX-License-Identifier: MIT

package solver

import "errors"

var (
	// ErrEmptyGrid is returned for a time grid with fewer than two points.
	ErrEmptyGrid = errors.New("solver: time grid needs at least two points")

	// ErrNotIncreasing signals time points that are not strictly increasing.
	ErrNotIncreasing = errors.New("solver: time points not strictly increasing")

	// ErrNegativeTime rejects negative time points.
	ErrNegativeTime = errors.New("solver: negative time")

	// ErrGridStart is returned when a time grid does not start at zero.
	ErrGridStart = errors.New("solver: time grid must start at zero")

	// ErrBadSteps signals a non-positive number of time steps.
	ErrBadSteps = errors.New("solver: invalid number of time steps")

	// ErrBadMaturity signals a non-positive or non-finite maturity.
	ErrBadMaturity = errors.New("solver: invalid maturity")

	// ErrTimeNotInGrid is returned for rollback or stopping times that are
	// not points of the grid.
	ErrTimeNotInGrid = errors.New("solver: time not in grid")

	// ErrAlreadySolved is returned by Rollback after the rollback reached t = 0.
	ErrAlreadySolved = errors.New("solver: already solved, call Reset")

	// ErrNotCalculated is returned by result accessors while the solver is dirty.
	ErrNotCalculated = errors.New("solver: results not calculated")

	// ErrSize indicates a value array or point of the wrong length.
	ErrSize = errors.New("solver: size mismatch")

	// ErrOutsideMesh is returned for a query point outside the mesh.
	ErrOutsideMesh = errors.New("solver: point outside mesh")

	// ErrMissingInput signals a solver description lacking a required part.
	ErrMissingInput = errors.New("solver: missing input")
)
