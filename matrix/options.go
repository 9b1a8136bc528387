// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for sparse assembly and the
// iterative solver. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

// Numeric policy.
const (
	// DefaultValidateNaNInf toggles strict finite-value validation on Append.
	DefaultValidateNaNInf = true

	// DefaultDropZeros skips exact zero entries during sparse assembly.
	DefaultDropZeros = true
)

// Iterative solver policy.
const (
	// DefaultRelTolerance is the relative residual ||r||/||b|| at which
	// BiCGStab stops.
	DefaultRelTolerance = 1e-8

	// DefaultMaxIterations bounds BiCGStab; zero means "use max(10, n)".
	DefaultMaxIterations = 0
)

const (
	panicToleranceInvalid = "matrix: WithTolerance: tol must be finite and > 0"
	panicMaxIterationsNeg = "matrix: WithMaxIterations: n must be >= 0"
	minDefaultIterations  = 10
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	validateNaNInf bool    // DefaultValidateNaNInf
	dropZeros      bool    // DefaultDropZeros
	relTol         float64 // DefaultRelTolerance
	maxIter        int     // DefaultMaxIterations (0 = auto)
}

// WithValidateNaNInf rejects NaN/±Inf entries on sparse assembly.
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf accepts any float64 on sparse assembly.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithKeepZeros stores explicit zero entries, preserving the band structure
// in the sparsity pattern.
func WithKeepZeros() Option {
	return func(o *Options) { o.dropZeros = false }
}

// WithTolerance sets the relative residual tolerance of BiCGStab.
// Panics if tol is not finite or not strictly positive.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.relTol = tol }
}

// WithMaxIterations bounds the BiCGStab iteration count.
// Zero restores the automatic bound max(10, n). Panics on negative n.
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic(panicMaxIterationsNeg)
	}

	return func(o *Options) { o.maxIter = n }
}

// gatherOptions applies user-provided setters on top of the defaults
// (last-writer-wins).
func gatherOptions(user ...Option) Options {
	o := Options{
		validateNaNInf: DefaultValidateNaNInf,
		dropZeros:      DefaultDropZeros,
		relTol:         DefaultRelTolerance,
		maxIter:        DefaultMaxIterations,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}

// iterationBudget resolves the automatic iteration bound for a system of size n.
func (o Options) iterationBudget(n int) int {
	if o.maxIter > 0 {
		return o.maxIter
	}
	if n < minDefaultIterations {
		return minDefaultIterations
	}

	return n
}
