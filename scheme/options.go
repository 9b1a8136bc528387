// SPDX-License-Identifier: MIT

package scheme

import "math"

const (
	// DefaultRelTolerance is the BiCGStab tolerance of implicit Euler steps
	// on multi-dimensional operators.
	DefaultRelTolerance = 1e-8

	// DefaultMaxIterations bounds BiCGStab; zero lets the solver choose.
	DefaultMaxIterations = 0
)

const (
	panicRelTolerance  = "scheme: WithRelTolerance: tol must be finite and > 0"
	panicMaxIterations = "scheme: WithMaxIterations: n must be >= 0"
)

// Option configures a scheme built by New.
type Option func(*Options)

// Options holds the effective scheme configuration.
type Options struct {
	relTol  float64
	maxIter int
}

// WithRelTolerance sets the iterative solver tolerance used by the implicit
// schemes. Panics if tol is not finite and positive.
func WithRelTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicRelTolerance)
	}

	return func(o *Options) { o.relTol = tol }
}

// WithMaxIterations bounds the iterative solver. Panics on negative n.
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic(panicMaxIterations)
	}

	return func(o *Options) { o.maxIter = n }
}

func gatherOptions(user ...Option) Options {
	o := Options{relTol: DefaultRelTolerance, maxIter: DefaultMaxIterations}
	for _, set := range user {
		set(&o)
	}

	return o
}
