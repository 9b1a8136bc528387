// SPDX-License-Identifier: MIT

// Package operator: one-factor model operators. Each is a Sum whose
// coefficients are re-read from the model inputs at every SetTime, so the
// discount rate always matches the current step.
package operator

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/termstructure"
)

// Term names shared by the model operators.
const (
	TermDrift     = "drift"
	TermDiffusion = "diffusion"
	TermDiscount  = "discount"
)

// stepCache memoises a per-node computation shared by several terms of one
// SetTime call.
type stepCache struct {
	f      func(t1, t2 float64) ([]float64, error)
	t1, t2 float64
	ok     bool
	v      []float64
}

func (c *stepCache) get(t1, t2 float64) ([]float64, error) {
	if c.ok && c.t1 == t1 && c.t2 == t2 {
		return c.v, nil
	}
	v, err := c.f(t1, t2)
	if err != nil {
		return nil, err
	}
	c.v, c.t1, c.t2, c.ok = v, t1, t2, true

	return v, nil
}

// discountRate returns the coefficient -r(t1, t2) of a discount term.
func discountRate(curve termstructure.YieldCurve, scale float64) CoefficientFunc {
	return func(t1, t2 float64) ([]float64, error) {
		return []float64{-scale * curve.ForwardRate(t1, t2)}, nil
	}
}

// addTerms registers the standard drift/diffusion/discount triple along d.
func addTerms(s *Sum, d int, drift, diffusion, discount CoefficientFunc) error {
	if drift != nil {
		if err := s.AddBand(TermDrift, d, FirstDerivative, drift); err != nil {
			return err
		}
	}
	if err := s.AddBand(TermDiffusion, d, SecondDerivative, diffusion); err != nil {
		return err
	}
	if discount != nil {
		return s.AddZeroOrder(TermDiscount, d, discount)
	}

	return nil
}

// NewCEVOp returns the backward operator of the constant elasticity of
// variance model dF = alpha·F^beta dW along direction d:
//
//	½α²x^{2β} ∂²/∂x² - r(t1,t2).
func NewCEVOp(m *mesher.Composite, curve termstructure.YieldCurve, alpha, beta float64, d int, opts ...Option) (*Sum, error) {
	if err := m.ValidDirection(d); err != nil {
		return nil, fmt.Errorf("NewCEVOp: %w", ErrDirection)
	}
	if !(alpha > 0) || math.IsNaN(beta) || curve == nil {
		return nil, fmt.Errorf("NewCEVOp alpha=%g beta=%g: %w", alpha, beta, ErrBadParameter)
	}
	x := m.Locations(d)
	vol2 := make([]float64, len(x))
	for i, f := range x {
		vol2[i] = 0.5 * alpha * alpha * math.Pow(f, 2*beta)
	}
	s := NewSum(m, opts...)
	if err := addTerms(s, d, nil, Static(vol2), discountRate(curve, 1)); err != nil {
		return nil, fmt.Errorf("NewCEVOp: %w", err)
	}

	return s, nil
}

// NewBlackScholesOp returns the Black-Scholes operator in x = ln S along d:
//
//	(r - q - ½σ²) ∂/∂x + ½σ² ∂²/∂x² - r,
//
// with σ = vol.LocalVol(½(t1+t2), e^x) per node.
func NewBlackScholesOp(m *mesher.Composite, rTS, qTS termstructure.YieldCurve, vol termstructure.LocalVol, d int, opts ...Option) (*Sum, error) {
	if err := m.ValidDirection(d); err != nil {
		return nil, fmt.Errorf("NewBlackScholesOp: %w", ErrDirection)
	}
	if rTS == nil || qTS == nil || vol == nil {
		return nil, fmt.Errorf("NewBlackScholesOp: %w", ErrBadParameter)
	}
	spots := m.Locations(d)
	for i := range spots {
		spots[i] = math.Exp(spots[i])
	}
	variance := &stepCache{f: func(t1, t2 float64) ([]float64, error) {
		tm := 0.5 * (t1 + t2)
		v := make([]float64, len(spots))
		for i, s := range spots {
			sigma := vol.LocalVol(tm, s)
			v[i] = sigma * sigma
		}

		return v, nil
	}}
	drift := func(t1, t2 float64) ([]float64, error) {
		v, err := variance.get(t1, t2)
		if err != nil {
			return nil, err
		}
		mu := rTS.ForwardRate(t1, t2) - qTS.ForwardRate(t1, t2)
		out := make([]float64, len(v))
		for i := range v {
			out[i] = mu - 0.5*v[i]
		}

		return out, nil
	}
	diffusion := func(t1, t2 float64) ([]float64, error) {
		v, err := variance.get(t1, t2)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(v))
		for i := range v {
			out[i] = 0.5 * v[i]
		}

		return out, nil
	}
	s := NewSum(m, opts...)
	if err := addTerms(s, d, drift, diffusion, discountRate(rTS, 1)); err != nil {
		return nil, fmt.Errorf("NewBlackScholesOp: %w", err)
	}

	return s, nil
}

// NewOrnsteinUhlenbeckOp returns the operator of dx = speed(level - x)dt + σ dW
// along d, discounted with curve:
//
//	speed(level - x) ∂/∂x + ½σ² ∂²/∂x² - r.
func NewOrnsteinUhlenbeckOp(m *mesher.Composite, speed, level, sigma float64, curve termstructure.YieldCurve, d int, opts ...Option) (*Sum, error) {
	s, err := NewExtendedOUOp(m, speed, func(float64) float64 { return level }, sigma, curve, d, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewOrnsteinUhlenbeckOp: %w", err)
	}

	return s, nil
}

// NewExtendedOUOp is NewOrnsteinUhlenbeckOp with a time-dependent mean
// reversion level, evaluated at the middle of each step.
func NewExtendedOUOp(m *mesher.Composite, speed float64, level func(t float64) float64, sigma float64, curve termstructure.YieldCurve, d int, opts ...Option) (*Sum, error) {
	if err := m.ValidDirection(d); err != nil {
		return nil, fmt.Errorf("NewExtendedOUOp: %w", ErrDirection)
	}
	if !(speed >= 0) || !(sigma > 0) || level == nil || curve == nil {
		return nil, fmt.Errorf("NewExtendedOUOp speed=%g sigma=%g: %w", speed, sigma, ErrBadParameter)
	}
	s := NewSum(m, opts...)
	if err := addOUTerms(s, m, speed, level, sigma, d); err != nil {
		return nil, fmt.Errorf("NewExtendedOUOp: %w", err)
	}
	if err := s.AddZeroOrder(TermDiscount, d, discountRate(curve, 1)); err != nil {
		return nil, fmt.Errorf("NewExtendedOUOp: %w", err)
	}

	return s, nil
}

func addOUTerms(s *Sum, m *mesher.Composite, speed float64, level func(float64) float64, sigma float64, d int) error {
	x := m.Locations(d)
	drift := func(t1, t2 float64) ([]float64, error) {
		b := level(0.5 * (t1 + t2))
		out := make([]float64, len(x))
		for i := range x {
			out[i] = speed * (b - x[i])
		}

		return out, nil
	}

	return addTerms(s, d, drift, Constant(0.5*sigma*sigma), nil)
}

// NewHullWhiteOp returns the Hull-White short-rate operator in the shifted
// state x = r - φ(t):
//
//	-a·x ∂/∂x + ½σ² ∂²/∂x² - (x + φ̄),
//
// where φ(t) = f(0,t) + σ²/(2a²)(1 - e^{-at})² fits curve and φ̄ averages
// φ(t1) and φ(t2).
func NewHullWhiteOp(m *mesher.Composite, a, sigma float64, curve termstructure.YieldCurve, d int, opts ...Option) (*Sum, error) {
	if err := m.ValidDirection(d); err != nil {
		return nil, fmt.Errorf("NewHullWhiteOp: %w", ErrDirection)
	}
	if !(a > 0) || !(sigma > 0) || curve == nil {
		return nil, fmt.Errorf("NewHullWhiteOp a=%g sigma=%g: %w", a, sigma, ErrBadParameter)
	}
	x := m.Locations(d)
	drift := make([]float64, len(x))
	for i := range x {
		drift[i] = -a * x[i]
	}
	phi := func(t float64) float64 {
		e := 1 - math.Exp(-a*t)
		return curve.ForwardRate(t, t) + sigma*sigma/(2*a*a)*e*e
	}
	shortRate := func(t1, t2 float64) ([]float64, error) {
		p := 0.5 * (phi(t1) + phi(t2))
		out := make([]float64, len(x))
		for i := range x {
			out[i] = -(x[i] + p)
		}

		return out, nil
	}
	s := NewSum(m, opts...)
	if err := addTerms(s, d, Static(drift), Constant(0.5*sigma*sigma), shortRate); err != nil {
		return nil, fmt.Errorf("NewHullWhiteOp: %w", err)
	}

	return s, nil
}
