// SPDX-License-Identifier: MIT

// Package mesher builds the spatial grids of the finite-difference engine.
//
// What:
//
//   - Mesher1D: strictly increasing nodes along one state variable, with
//     forward/backward spacings. Built by NewUniform, NewPredefined,
//     NewConcentrating (sinh concentration around a point) and the process
//     meshers NewBlackScholes, NewCEV, NewOrnsteinUhlenbeck and
//     NewExponentialJump.
//   - Layout: the flat-index layout of a multi-dimensional grid, direction 0
//     fastest, with reflecting neighbour lookups.
//   - Composite: the Cartesian product of one-dimensional meshers.
//
// Why:
//
//   - Operators need spacings per node (non-uniform stencils) and the
//     neighbour index along each direction; both are answered here once.
//
// Errors:
//
//   - ErrTooFewPoints (N < 2), ErrNotIncreasing, ErrBadDomain, ErrBadDensity,
//     ErrNoMeshers, ErrDirection. All are returned before any solve starts.
//
// All meshers are immutable after construction and safe for concurrent reads.
package mesher
