// SPDX-License-Identifier: MIT

package operator

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/termstructure"
)

// HestonParams are the variance dynamics dv = κ(θ - v)dt + σ√v dW_v with
// correlation ρ to the spot. MixingFactor scales the vol of variance
// (1 = pure Heston); zero is treated as 1.
type HestonParams struct {
	Kappa        float64
	Theta        float64
	Sigma        float64
	Rho          float64
	MixingFactor float64
}

// Validate reports ErrBadParameter for parameters the operator cannot use.
func (p HestonParams) Validate() error {
	if !(p.Kappa >= 0) || !(p.Theta >= 0) || !(p.Sigma > 0) || !(p.Rho >= -1 && p.Rho <= 1) || math.IsNaN(p.MixingFactor) {
		return fmt.Errorf("heston %+v: %w", p, ErrBadParameter)
	}

	return nil
}

// Heston term names.
const (
	TermVarianceDrift     = "variance-drift"
	TermVarianceDiffusion = "variance-diffusion"
	TermVarianceDiscount  = "variance-discount"
	TermCorrelation       = "correlation"
)

// NewHestonOp returns the Heston (stochastic local volatility when leverage
// is non-nil) operator on a mesh with x = ln S along direction 0 and the
// variance v along direction 1:
//
//	equity:   (r - q - ½vL²) ∂x + ½vL² ∂xx - ½r
//	variance: κ(θ - v) ∂v + ½σ²v ∂vv - ½r
//	mixed:    ρσvL ∂xv
//
// L = leverage.LocalVol(½(t1+t2), S) per node, or 1.
func NewHestonOp(m *mesher.Composite, p HestonParams, rTS, qTS termstructure.YieldCurve, leverage termstructure.LocalVol, opts ...Option) (*Sum, error) {
	if m.Dims() < 2 {
		return nil, fmt.Errorf("NewHestonOp: %d dims: %w", m.Dims(), ErrDirection)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("NewHestonOp: %w", err)
	}
	if rTS == nil || qTS == nil {
		return nil, fmt.Errorf("NewHestonOp: %w", ErrBadParameter)
	}
	mix := p.MixingFactor
	if mix == 0 {
		mix = 1
	}
	sigma := mix * p.Sigma

	x := m.Locations(0)
	v := m.Locations(1)
	spots := make([]float64, len(x))
	for i := range x {
		spots[i] = math.Exp(x[i])
	}
	// lev caches L per node (nil without leverage).
	lev := &stepCache{f: func(t1, t2 float64) ([]float64, error) {
		if leverage == nil {
			return nil, nil
		}
		tm := 0.5 * (t1 + t2)
		out := make([]float64, len(spots))
		for i, s := range spots {
			out[i] = leverage.LocalVol(tm, s)
		}

		return out, nil
	}}
	leverageAt := func(l []float64, i int) float64 {
		if l == nil {
			return 1
		}

		return l[i]
	}
	equityDrift := func(t1, t2 float64) ([]float64, error) {
		l, err := lev.get(t1, t2)
		if err != nil {
			return nil, err
		}
		mu := rTS.ForwardRate(t1, t2) - qTS.ForwardRate(t1, t2)
		out := make([]float64, len(v))
		for i := range v {
			li := leverageAt(l, i)
			out[i] = mu - 0.5*v[i]*li*li
		}

		return out, nil
	}
	equityDiffusion := func(t1, t2 float64) ([]float64, error) {
		l, err := lev.get(t1, t2)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(v))
		for i := range v {
			li := leverageAt(l, i)
			out[i] = 0.5 * v[i] * li * li
		}

		return out, nil
	}
	varDrift := make([]float64, len(v))
	varDiffusion := make([]float64, len(v))
	for i := range v {
		varDrift[i] = p.Kappa * (p.Theta - v[i])
		varDiffusion[i] = 0.5 * sigma * sigma * v[i]
	}
	correlation := func(t1, t2 float64) ([]float64, error) {
		l, err := lev.get(t1, t2)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(v))
		for i := range v {
			out[i] = p.Rho * sigma * v[i] * leverageAt(l, i)
		}

		return out, nil
	}

	s := NewSum(m, opts...)
	if err := addTerms(s, 0, equityDrift, equityDiffusion, discountRate(rTS, 0.5)); err != nil {
		return nil, fmt.Errorf("NewHestonOp: %w", err)
	}
	variance := []struct {
		name    string
		stencil Stencil
		coeff   CoefficientFunc
	}{
		{TermVarianceDrift, FirstDerivative, Static(varDrift)},
		{TermVarianceDiffusion, SecondDerivative, Static(varDiffusion)},
	}
	for _, st := range variance {
		if err := s.AddBand(st.name, 1, st.stencil, st.coeff); err != nil {
			return nil, fmt.Errorf("NewHestonOp: %w", err)
		}
	}
	if err := s.AddZeroOrder(TermVarianceDiscount, 1, discountRate(rTS, 0.5)); err != nil {
		return nil, fmt.Errorf("NewHestonOp: %w", err)
	}
	mixed, err := NewMixedDerivative(0, 1, m)
	if err != nil {
		return nil, fmt.Errorf("NewHestonOp: %w", err)
	}
	if err = s.AddMixed(TermCorrelation, mixed, correlation); err != nil {
		return nil, fmt.Errorf("NewHestonOp: %w", err)
	}

	return s, nil
}
