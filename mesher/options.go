// SPDX-License-Identifier: MIT

// Package mesher: functional options shared by the process meshers.
//
// Defaults follow the usual finite-difference engine conventions: the domain
// spans the (eps, 1-eps) quantiles of the terminal distribution, widened by
// scaleFactor, without concentration unless requested.
package mesher

import "math"

// Domain policy.
const (
	// DefaultEps is the tail probability cut from each side of the domain.
	DefaultEps = 1e-4

	// DefaultScaleFactor widens the quantile-based domain.
	DefaultScaleFactor = 1.5

	// DefaultDensity is the relative concentration density used when a
	// concentration point is given without an explicit density.
	DefaultDensity = 0.1
)

const (
	panicEpsInvalid     = "mesher: WithEps: eps must lie in (0, 0.5)"
	panicScaleInvalid   = "mesher: WithScaleFactor: factor must be finite and > 0"
	panicDensityInvalid = "mesher: WithConcentration: density must be finite and > 0"
)

// Option configures a process mesher.
type Option func(*Options)

// Options stores the effective process-mesher configuration.
type Options struct {
	eps          float64
	scaleFactor  float64
	cPoint       float64 // NaN = no concentration
	density      float64
	requirePoint bool
	xMin, xMax   float64 // NaN = unconstrained
	loEdge       float64 // NaN = derived from the process
	hiEdge       float64
	drift        float64 // log-drift rate, used by NewBlackScholes
}

// WithEps sets the tail probability cut from each side of the domain.
// Panics unless 0 < eps < 0.5.
func WithEps(eps float64) Option {
	if !(eps > 0 && eps < 0.5) {
		panic(panicEpsInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithScaleFactor widens (>1) or narrows (<1) the quantile-based domain.
// Panics if factor is not finite or not strictly positive.
func WithScaleFactor(factor float64) Option {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		panic(panicScaleInvalid)
	}

	return func(o *Options) { o.scaleFactor = factor }
}

// WithConcentration concentrates nodes around point (in the state variable's
// natural units, e.g. spot rather than log-spot) with the given relative
// density. Smaller densities concentrate harder.
func WithConcentration(point, density float64) Option {
	if math.IsNaN(density) || math.IsInf(density, 0) || density <= 0 {
		panic(panicDensityInvalid)
	}

	return func(o *Options) {
		o.cPoint = point
		o.density = density
	}
}

// WithRequirePoint forces the concentration point to be a mesh node.
func WithRequirePoint() Option {
	return func(o *Options) { o.requirePoint = true }
}

// WithBounds constrains the domain to [xMin, xMax] (natural units). A NaN
// bound leaves that side unconstrained.
func WithBounds(xMin, xMax float64) Option {
	return func(o *Options) {
		o.xMin = xMin
		o.xMax = xMax
	}
}

// WithEdges places the domain ends exactly at lo and hi (natural units),
// shrinking or growing the process-derived domain. A NaN edge leaves that
// side to the process and WithBounds. Barrier engines put the edge on the
// barrier.
func WithEdges(lo, hi float64) Option {
	return func(o *Options) {
		o.loEdge = lo
		o.hiEdge = hi
	}
}

// WithDrift centres the Black-Scholes domain between spot and the forward
// spot·exp(mu·T), with mu = r - q.
func WithDrift(mu float64) Option {
	return func(o *Options) { o.drift = mu }
}

func gatherOptions(user ...Option) Options {
	o := Options{
		eps:         DefaultEps,
		scaleFactor: DefaultScaleFactor,
		cPoint:      math.NaN(),
		density:     DefaultDensity,
		xMin:        math.NaN(),
		xMax:        math.NaN(),
		loEdge:      math.NaN(),
		hiEdge:      math.NaN(),
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
