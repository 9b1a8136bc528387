// SPDX-License-Identifier: MIT

// Package mesher: meshers whose domain is derived from the terminal
// distribution of a stochastic process.
//
// Each builder computes a half-width
//
//	w = scaleFactor · Φ⁻¹(1-eps) · stddev(T)
//
// around the relevant centre, applies optional WithBounds and WithEdges
// constraints and then lays out nodes uniformly or, with WithConcentration, through
// NewConcentrating.
package mesher

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// halfWidth returns scaleFactor · Φ⁻¹(1-eps) · stddev.
func (o Options) halfWidth(stddev float64) float64 {
	return o.scaleFactor * distuv.UnitNormal.Quantile(1-o.eps) * stddev
}

// layout builds the final mesh on [xMin, xMax]; cPoint is already mapped to
// the mesh coordinate (NaN = uniform).
func (o Options) layout(tag string, size int, xMin, xMax, cPoint float64) (*Mesher1D, error) {
	if !finite(xMin) || !finite(xMax) || xMax <= xMin {
		return nil, fmt.Errorf("%s [%g, %g]: %w", tag, xMin, xMax, ErrBadDomain)
	}
	if math.IsNaN(cPoint) {
		return NewUniform(size, xMin, xMax)
	}

	return NewConcentrating(size, xMin, xMax, cPoint, o.density, o.requirePoint)
}

// edges applies WithEdges on a mesh in natural units.
func (o Options) edges(xMin, xMax float64) (float64, float64) {
	if !math.IsNaN(o.loEdge) {
		xMin = o.loEdge
	}
	if !math.IsNaN(o.hiEdge) {
		xMax = o.hiEdge
	}

	return xMin, xMax
}

// NewBlackScholes returns a mesh in x = ln(S) for a geometric Brownian motion
// started at spot with volatility vol over maturity years. The domain covers
// spot, the forward (see WithDrift) and, when strike > 0, ln(strike).
// WithBounds, WithEdges and WithConcentration take spot-space values.
func NewBlackScholes(size int, spot, vol, maturity, strike float64, opts ...Option) (*Mesher1D, error) {
	const tag = "NewBlackScholes"
	if size < 2 {
		return nil, fmt.Errorf("%s(%d): %w", tag, size, ErrTooFewPoints)
	}
	if !(spot > 0) || !(vol > 0) || !(maturity > 0) || !finite(vol) || !finite(spot) {
		return nil, fmt.Errorf("%s spot=%g vol=%g T=%g: %w", tag, spot, vol, maturity, ErrBadDomain)
	}
	o := gatherOptions(opts...)

	w := o.halfWidth(vol * math.Sqrt(maturity))
	lnS := math.Log(spot)
	lnF := lnS + o.drift*maturity
	xMin := math.Min(lnS, lnF) - w
	xMax := math.Max(lnS, lnF) + w
	if strike > 0 {
		xMin = math.Min(xMin, math.Log(strike))
		xMax = math.Max(xMax, math.Log(strike))
	}
	if o.xMin > 0 {
		xMin = math.Max(xMin, math.Log(o.xMin))
	}
	if o.xMax > 0 {
		xMax = math.Min(xMax, math.Log(o.xMax))
	}
	if o.loEdge > 0 {
		xMin = math.Log(o.loEdge)
	}
	if o.hiEdge > 0 {
		xMax = math.Log(o.hiEdge)
	}
	c := math.NaN()
	if o.cPoint > 0 {
		c = math.Log(o.cPoint)
	}

	return o.layout(tag, size, xMin, xMax, c)
}

// NewCEV returns a forward-space mesh for dF = alpha·F^beta dW started at f0.
// The width uses the local lognormal volatility alpha·f0^(beta-1), so the
// lower bound stays strictly positive.
func NewCEV(size int, f0, alpha, beta, maturity float64, opts ...Option) (*Mesher1D, error) {
	const tag = "NewCEV"
	if size < 2 {
		return nil, fmt.Errorf("%s(%d): %w", tag, size, ErrTooFewPoints)
	}
	if !(f0 > 0) || !(alpha > 0) || !finite(beta) || !(maturity > 0) || !finite(f0) || !finite(alpha) {
		return nil, fmt.Errorf("%s f0=%g alpha=%g beta=%g T=%g: %w", tag, f0, alpha, beta, maturity, ErrBadDomain)
	}
	o := gatherOptions(opts...)

	w := o.halfWidth(alpha * math.Pow(f0, beta-1) * math.Sqrt(maturity))
	xMin := f0 * math.Exp(-w)
	xMax := f0 * math.Exp(w)
	if !math.IsNaN(o.xMin) {
		xMin = math.Max(xMin, math.Max(o.xMin, 0))
	}
	if !math.IsNaN(o.xMax) {
		xMax = math.Min(xMax, o.xMax)
	}
	xMin, xMax = o.edges(xMin, xMax)

	return o.layout(tag, size, xMin, xMax, o.cPoint)
}

// NewOrnsteinUhlenbeck returns a mesh for dx = speed(level - x)dt + sigma dW
// started at x0. The domain covers x0 and the terminal mean.
func NewOrnsteinUhlenbeck(size int, x0, speed, level, sigma, maturity float64, opts ...Option) (*Mesher1D, error) {
	const tag = "NewOrnsteinUhlenbeck"
	if size < 2 {
		return nil, fmt.Errorf("%s(%d): %w", tag, size, ErrTooFewPoints)
	}
	if !finite(x0) || !finite(level) || !(speed >= 0) || !(sigma > 0) || !(maturity > 0) {
		return nil, fmt.Errorf("%s speed=%g sigma=%g T=%g: %w", tag, speed, sigma, maturity, ErrBadDomain)
	}
	o := gatherOptions(opts...)

	mean, variance := OUMoments(x0, speed, level, sigma, maturity)
	w := o.halfWidth(math.Sqrt(variance))
	xMin := math.Min(x0, mean) - w
	xMax := math.Max(x0, mean) + w
	if !math.IsNaN(o.xMin) {
		xMin = math.Max(xMin, o.xMin)
	}
	if !math.IsNaN(o.xMax) {
		xMax = math.Min(xMax, o.xMax)
	}
	xMin, xMax = o.edges(xMin, xMax)

	return o.layout(tag, size, xMin, xMax, o.cPoint)
}

// OUMoments returns the mean and variance of an Ornstein-Uhlenbeck process
// at time t. speed == 0 degenerates to Brownian motion.
func OUMoments(x0, speed, level, sigma, t float64) (mean, variance float64) {
	if speed < 1e-12 {
		return x0, sigma * sigma * t
	}
	e := math.Exp(-speed * t)
	mean = level + (x0-level)*e
	variance = sigma * sigma / (2 * speed) * (1 - e*e)

	return mean, variance
}
