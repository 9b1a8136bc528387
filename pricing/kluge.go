// SPDX-License-Identifier: MIT

package pricing

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/operator"
	"github.com/katalvlaran/lvfdm/scheme"
	"github.com/katalvlaran/lvfdm/termstructure"
)

// ExtOUJumpEngine prices options on a spiky spot S = exp(x + y), with x a
// mean-reverting diffusion and y a decaying exponential jump process (the
// Kluge model of power prices). The mesh is (x, y) with WithGrid's second
// size along y.
type ExtOUJumpEngine struct {
	X0, Y0 float64
	Params operator.KlugeParams
	Curve  termstructure.YieldCurve
	opts   Options
}

// NewExtOUJumpEngine returns an engine using the Hundsdorfer scheme unless
// configured otherwise.
func NewExtOUJumpEngine(x0, y0 float64, p operator.KlugeParams, curve termstructure.YieldCurve, opts ...Option) *ExtOUJumpEngine {
	return &ExtOUJumpEngine{X0: x0, Y0: y0, Params: p, Curve: curve, opts: gatherOptions(opts...)}
}

// Calculate implements Engine. Greeks are spot sensitivities along x at
// fixed y.
func (e *ExtOUJumpEngine) Calculate(opt VanillaOption) (Results, error) {
	const name = "ext-ou-jump"
	if err := opt.Validate(); err != nil {
		return Results{}, fmt.Errorf("ExtOUJumpEngine: %w", err)
	}
	p := e.Params
	if e.Curve == nil || p.Level == nil || math.IsNaN(e.X0) || !(e.Y0 >= 0) || math.IsInf(e.Y0, 0) ||
		!(p.Eta > 0) || !(p.Intensity > 0) {
		return Results{}, fmt.Errorf("ExtOUJumpEngine: %w", ErrBadModel)
	}
	T := opt.Maturity

	meshOpts := append([]mesher.Option{
		mesher.WithConcentration(math.Log(opt.Strike), e.opts.strikeDensity),
	}, e.opts.meshOpts...)
	mx, err := mesher.NewOrnsteinUhlenbeck(e.opts.xGrid, e.X0, p.Speed, p.Level(T), p.Sigma, T, meshOpts...)
	if err != nil {
		return Results{}, fmt.Errorf("ExtOUJumpEngine: %w: %w", ErrBadModel, err)
	}
	my, err := mesher.NewExponentialJump(e.opts.vGrid, p.Beta, p.Intensity, p.Eta, mesher.DefaultEps)
	if err != nil {
		return Results{}, fmt.Errorf("ExtOUJumpEngine: %w: %w", ErrBadModel, err)
	}
	m, err := mesher.NewComposite(mx, my.Mesher1D)
	if err != nil {
		return Results{}, fmt.Errorf("ExtOUJumpEngine: %w", err)
	}
	op, err := operator.NewExtOUJumpOp(m, p, e.Curve, 0, operator.WithParallelism(e.opts.parallelism))
	if err != nil {
		return Results{}, fmt.Errorf("ExtOUJumpEngine: %w: %w", ErrBadModel, err)
	}
	spot := func(c []float64) float64 { return math.Exp(c[0] + c[1]) }
	s, err := solve(name, opt, problem{mesh: m, op: op, multi: spot, scheme: e.opts.schemeOr(scheme.HundsdorferDesc)}, e.opts)
	if err != nil {
		return Results{}, fmt.Errorf("ExtOUJumpEngine: %w", err)
	}
	v, dx, dxx, theta, err := greeks(s, e.X0, e.Y0)
	if err != nil {
		return Results{}, fmt.Errorf("ExtOUJumpEngine: %w", err)
	}
	r := logSpotResults(math.Exp(e.X0+e.Y0), v, dx, dxx, theta)
	logPriced(e.opts, name, opt, r)

	return r, nil
}
