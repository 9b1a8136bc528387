// SPDX-License-Identifier: MIT

// Package operator discretises the spatial part of backward pricing PDEs.
//
// Building blocks:
//
//   - TripleBand: a tridiagonal operator along one direction, with row/column
//     scaling (Mult, MultR), Add, AddDiag, Axpyb and an exact line-by-line
//     Thomas solve of (b·I + a·T)x = r (SolveSplitting).
//   - NewFirstDerivative / NewSecondDerivative: non-uniform central stencils;
//     NewMixedDerivative: their tensor product across two directions (NinePoint).
//   - JumpIntegral: the compound-Poisson integral for exponential jumps,
//     assembled with Gauss-Legendre quadrature.
//
// Composite operators:
//
//   - Sum is the generic Composite: named band, zero-order and mixed terms,
//     each scaled by a CoefficientFunc of the step interval.
//   - NewCEVOp, NewBlackScholesOp, NewOrnsteinUhlenbeckOp, NewExtendedOUOp,
//     NewHullWhiteOp, NewHestonOp and NewExtOUJumpOp configure a Sum for
//     their model.
//
// Contract: Σ_d ApplyDirection(d, r) + ApplyMixed(r) == Apply(r). Mixed terms
// are explicit-only, directional terms are solved implicitly by the
// splitting schemes. SetTime must run before each step.
//
// Concurrency: a composite is used by one solve at a time. Inside one
// SolveSplitting call independent lines may be solved in parallel
// (WithParallelism).
package operator
