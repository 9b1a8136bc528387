// SPDX-License-Identifier: MIT

package pricing

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvfdm/condition"
	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/operator"
	"github.com/katalvlaran/lvfdm/scheme"
	"github.com/katalvlaran/lvfdm/termstructure"
)

// HullWhiteEngine prices zero-coupon bonds and options on them under the
// Hull-White short rate r = x + φ(t), dx = -A·x dt + Sigma dW, fitted to
// Curve. Delta and gamma are sensitivities to the short rate.
type HullWhiteEngine struct {
	A     float64
	Sigma float64
	Curve termstructure.YieldCurve
	opts  Options
}

// NewHullWhiteEngine returns an engine using the Hundsdorfer scheme unless
// configured otherwise.
func NewHullWhiteEngine(a, sigma float64, curve termstructure.YieldCurve, opts ...Option) *HullWhiteEngine {
	return &HullWhiteEngine{A: a, Sigma: sigma, Curve: curve, opts: gatherOptions(opts...)}
}

// Bond prices the zero-coupon bond paying 1 at maturity.
func (e *HullWhiteEngine) Bond(maturity float64) (Results, error) {
	if !(maturity > 0) || math.IsInf(maturity, 0) {
		return Results{}, fmt.Errorf("HullWhiteEngine: maturity %g: %w", maturity, ErrBadOption)
	}
	unit := condition.PayoffFunc(func(float64) float64 { return 1 })
	r, err := e.price("hull-white-bond", VanillaOption{Type: condition.Call, Strike: 1, Maturity: maturity}, nil, unit)
	if err != nil {
		return Results{}, fmt.Errorf("HullWhiteEngine: %w", err)
	}

	return r, nil
}

// BondOption prices opt, expiring at opt.Maturity, on the zero-coupon bond
// paying 1 at bondMaturity. The strike is a bond price.
func (e *HullWhiteEngine) BondOption(opt VanillaOption, bondMaturity float64) (Results, error) {
	if err := opt.Validate(); err != nil {
		return Results{}, fmt.Errorf("HullWhiteEngine: %w", err)
	}
	if !(bondMaturity > opt.Maturity) || math.IsInf(bondMaturity, 0) {
		return Results{}, fmt.Errorf("HullWhiteEngine: bond maturity %g, expiry %g: %w",
			bondMaturity, opt.Maturity, ErrBadOption)
	}
	if e.Curve == nil {
		return Results{}, fmt.Errorf("HullWhiteEngine: %w", ErrBadModel)
	}
	bond := e.bondPrice(opt.Maturity, bondMaturity)
	r, err := e.price("hull-white-bond-option", opt, bond, nil)
	if err != nil {
		return Results{}, fmt.Errorf("HullWhiteEngine: %w", err)
	}

	return r, nil
}

// bondPrice returns x ↦ P(t, T | x), the affine bond price at time t.
func (e *HullWhiteEngine) bondPrice(t, T float64) func(x float64) float64 {
	a, sigma := e.A, e.Sigma
	b := (1 - math.Exp(-a*(T-t))) / a
	f := e.Curve.ForwardRate(t, t)
	ratio := e.Curve.Discount(T) / e.Curve.Discount(t)
	g := 1 - math.Exp(-a*t)
	phi := f + sigma*sigma/(2*a*a)*g*g
	shift := math.Log(ratio) + b*f - sigma*sigma/(4*a)*(1-math.Exp(-2*a*t))*b*b - b*phi

	return func(x float64) float64 { return math.Exp(shift - b*x) }
}

// price rolls opt back on the x mesh. A nil mapping reads the state.
func (e *HullWhiteEngine) price(name string, opt VanillaOption, mapping func(float64) float64, payoff condition.Payoff) (Results, error) {
	if !(e.A > 0) || !(e.Sigma > 0) || e.Curve == nil {
		return Results{}, fmt.Errorf("a=%g sigma=%g: %w", e.A, e.Sigma, ErrBadModel)
	}
	meshOpts := e.opts.meshOpts
	if mapping != nil {
		meshOpts = append([]mesher.Option{
			mesher.WithConcentration(e.kink(mapping, opt.Strike), e.opts.strikeDensity),
		}, meshOpts...)
	}
	m1, err := mesher.NewOrnsteinUhlenbeck(e.opts.xGrid, 0, e.A, 0, e.Sigma, opt.Maturity, meshOpts...)
	if err != nil {
		return Results{}, fmt.Errorf("%w: %w", ErrBadModel, err)
	}
	m, err := mesher.NewComposite(m1)
	if err != nil {
		return Results{}, err
	}
	op, err := operator.NewHullWhiteOp(m, e.A, e.Sigma, e.Curve, 0, operator.WithParallelism(e.opts.parallelism))
	if err != nil {
		return Results{}, fmt.Errorf("%w: %w", ErrBadModel, err)
	}
	p := problem{mesh: m, op: op, mapping: mapping, payoff: payoff, scheme: e.opts.schemeOr(scheme.HundsdorferDesc)}
	s, err := solve(name, opt, p, e.opts)
	if err != nil {
		return Results{}, err
	}
	v, dx, dxx, theta, err := greeks(s, 0)
	if err != nil {
		return Results{}, err
	}
	r := Results{Value: v, Delta: dx, Gamma: dxx, Theta: theta}
	logPriced(e.opts, name, opt, r)

	return r, nil
}

// kink returns the state at which the affine bond price equals strike.
func (e *HullWhiteEngine) kink(bond func(float64) float64, strike float64) float64 {
	p0, p1 := bond(0), bond(1)

	return math.Log(p0/strike) / math.Log(p0/p1)
}
