// SPDX-License-Identifier: MIT
// Package mesher: sentinel error set.
// Constructors validate eagerly and return these sentinels wrapped with the
// constructor name; callers match with errors.Is.

package mesher

import "errors"

var (
	// ErrTooFewPoints is returned when a one-dimensional mesh has fewer than two nodes.
	ErrTooFewPoints = errors.New("mesher: at least two points are required")

	// ErrNotIncreasing indicates predefined locations that are not strictly increasing.
	ErrNotIncreasing = errors.New("mesher: locations must be strictly increasing")

	// ErrBadDomain signals an empty, inverted or non-finite domain, or model
	// parameters that cannot define one (e.g. non-positive spot or volatility).
	ErrBadDomain = errors.New("mesher: invalid domain")

	// ErrBadDensity indicates a non-positive or non-finite concentration density.
	ErrBadDensity = errors.New("mesher: invalid concentration density")

	// ErrNoMeshers is returned by NewComposite when called without meshers.
	ErrNoMeshers = errors.New("mesher: no one-dimensional meshers given")

	// ErrDirection indicates a direction outside [0, Dims()).
	ErrDirection = errors.New("mesher: direction out of range")
)
