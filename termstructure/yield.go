// SPDX-License-Identifier: MIT

// Package termstructure provides the market inputs consumed by the
// finite-difference operators: discount curves and local volatility
// surfaces, reduced to plain functions of time (and state).
//
// Bootstrapping, day counts and quote observation live outside this module;
// callers capture whatever they need in the providers below.
package termstructure

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// YieldCurve is a discount curve in year fractions.
type YieldCurve interface {
	// Discount returns the discount factor to time t >= 0.
	Discount(t float64) float64
	// ForwardRate returns the continuously compounded forward rate over
	// [t1, t2]. t1 == t2 yields the instantaneous forward.
	ForwardRate(t1, t2 float64) float64
}

// forwardDt is the bump used for instantaneous forwards.
const forwardDt = 1e-4

// FlatForward is a curve with a constant continuously compounded rate.
type FlatForward float64

// Discount implements YieldCurve.
func (r FlatForward) Discount(t float64) float64 { return math.Exp(-float64(r) * t) }

// ForwardRate implements YieldCurve.
func (r FlatForward) ForwardRate(_, _ float64) float64 { return float64(r) }

// InterpolatedDiscount interpolates log discount factors linearly between
// nodes (piecewise flat forwards) and extrapolates with the last forward.
type InterpolatedDiscount struct {
	times []float64 // times[0] == 0
	logDF []float64
	pl    interp.PiecewiseLinear
}

// NewInterpolatedDiscount builds the curve from strictly increasing positive
// times and their discount factors. A node at t=0 with factor 1 is implied.
func NewInterpolatedDiscount(times, dfs []float64) (*InterpolatedDiscount, error) {
	if len(times) == 0 || len(times) != len(dfs) {
		return nil, fmt.Errorf("NewInterpolatedDiscount: %d times, %d factors: %w", len(times), len(dfs), ErrBadCurve)
	}
	c := &InterpolatedDiscount{
		times: make([]float64, 1, len(times)+1),
		logDF: make([]float64, 1, len(times)+1),
	}
	for i, t := range times {
		if !(t > c.times[len(c.times)-1]) || !(dfs[i] > 0) || math.IsInf(dfs[i], 0) {
			return nil, fmt.Errorf("NewInterpolatedDiscount node %d (t=%g, df=%g): %w", i, t, dfs[i], ErrBadCurve)
		}
		c.times = append(c.times, t)
		c.logDF = append(c.logDF, math.Log(dfs[i]))
	}
	if err := c.pl.Fit(c.times, c.logDF); err != nil {
		return nil, fmt.Errorf("NewInterpolatedDiscount: %w", err)
	}

	return c, nil
}

// Discount implements YieldCurve.
func (c *InterpolatedDiscount) Discount(t float64) float64 {
	return math.Exp(c.logDiscount(t))
}

// ForwardRate implements YieldCurve.
func (c *InterpolatedDiscount) ForwardRate(t1, t2 float64) float64 {
	if t2 < t1 {
		t1, t2 = t2, t1
	}
	if t2-t1 < forwardDt {
		t1 = math.Max(0, t1-forwardDt/2)
		t2 = t1 + forwardDt
	}

	return (c.logDiscount(t1) - c.logDiscount(t2)) / (t2 - t1)
}

func (c *InterpolatedDiscount) logDiscount(t float64) float64 {
	if t <= 0 {
		return 0
	}
	n := len(c.times)
	if t > c.times[n-1] {
		// flat extrapolation of the last forward
		f := (c.logDF[n-2] - c.logDF[n-1]) / (c.times[n-1] - c.times[n-2])
		return c.logDF[n-1] - f*(t-c.times[n-1])
	}

	return c.pl.Predict(t)
}

// Forward returns the forward price of an asset with continuous dividend
// curve q: spot · q.Discount(t) / r.Discount(t).
func Forward(spot float64, r, q YieldCurve, t float64) float64 {
	return spot * q.Discount(t) / r.Discount(t)
}
