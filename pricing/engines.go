// SPDX-License-Identifier: MIT

package pricing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/lvfdm/condition"
	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/operator"
	"github.com/katalvlaran/lvfdm/scheme"
	"github.com/katalvlaran/lvfdm/termstructure"
)

// BlackScholesEngine prices on a log-spot mesh under (local) volatility.
type BlackScholesEngine struct {
	Spot float64
	RTS  termstructure.YieldCurve
	QTS  termstructure.YieldCurve
	Vol  termstructure.LocalVol
	opts Options
}

// NewBlackScholesEngine returns an engine using the Douglas scheme unless
// configured otherwise.
func NewBlackScholesEngine(spot float64, rTS, qTS termstructure.YieldCurve, vol termstructure.LocalVol, opts ...Option) *BlackScholesEngine {
	return &BlackScholesEngine{Spot: spot, RTS: rTS, QTS: qTS, Vol: vol, opts: gatherOptions(opts...)}
}

// Calculate implements Engine.
func (e *BlackScholesEngine) Calculate(opt VanillaOption) (Results, error) {
	const name = "black-scholes"
	if err := opt.Validate(); err != nil {
		return Results{}, fmt.Errorf("BlackScholesEngine: %w", err)
	}
	if !(e.Spot > 0) || e.RTS == nil || e.QTS == nil || e.Vol == nil {
		return Results{}, fmt.Errorf("BlackScholesEngine: %w", ErrBadModel)
	}
	p, err := e.problem(opt.Strike, opt.Maturity)
	if err != nil {
		return Results{}, fmt.Errorf("BlackScholesEngine: %w", err)
	}
	s, err := solve(name, opt, p, e.opts)
	if err != nil {
		return Results{}, fmt.Errorf("BlackScholesEngine: %w", err)
	}
	v, dx, dxx, theta, err := greeks(s, math.Log(e.Spot))
	if err != nil {
		return Results{}, fmt.Errorf("BlackScholesEngine: %w", err)
	}
	r := logSpotResults(e.Spot, v, dx, dxx, theta)
	logPriced(e.opts, name, opt, r)

	return r, nil
}

// problem discretises the model on a log-spot mesh concentrated at strike.
// extra mesher options apply after the engine's own.
func (e *BlackScholesEngine) problem(strike, maturity float64, extra ...mesher.Option) (problem, error) {
	mu := e.RTS.ForwardRate(0, maturity) - e.QTS.ForwardRate(0, maturity)
	meshOpts := append([]mesher.Option{
		mesher.WithConcentration(strike, e.opts.strikeDensity),
		mesher.WithDrift(mu),
	}, e.opts.meshOpts...)
	m1, err := mesher.NewBlackScholes(e.opts.xGrid, e.Spot, e.Vol.LocalVol(0, e.Spot), maturity, strike,
		append(meshOpts, extra...)...)
	if err != nil {
		return problem{}, err
	}
	m, err := mesher.NewComposite(m1)
	if err != nil {
		return problem{}, err
	}
	op, err := operator.NewBlackScholesOp(m, e.RTS, e.QTS, e.Vol, 0, operator.WithParallelism(e.opts.parallelism))
	if err != nil {
		return problem{}, err
	}

	return problem{mesh: m, op: op, mapping: math.Exp, scheme: e.opts.schemeOr(scheme.DouglasDesc)}, nil
}

// CEVEngine prices on a forward mesh under dF = α F^β dW.
type CEVEngine struct {
	F0    float64
	Alpha float64
	Beta  float64
	Curve termstructure.YieldCurve
	opts  Options
}

// NewCEVEngine returns an engine using the Hundsdorfer scheme unless
// configured otherwise.
func NewCEVEngine(f0, alpha, beta float64, curve termstructure.YieldCurve, opts ...Option) *CEVEngine {
	return &CEVEngine{F0: f0, Alpha: alpha, Beta: beta, Curve: curve, opts: gatherOptions(opts...)}
}

// Calculate implements Engine. Delta and gamma are forward sensitivities.
func (e *CEVEngine) Calculate(opt VanillaOption) (Results, error) {
	const name = "cev"
	if err := opt.Validate(); err != nil {
		return Results{}, fmt.Errorf("CEVEngine: %w", err)
	}
	if e.Curve == nil {
		return Results{}, fmt.Errorf("CEVEngine: %w", ErrBadModel)
	}
	meshOpts := append([]mesher.Option{mesher.WithConcentration(opt.Strike, e.opts.strikeDensity)}, e.opts.meshOpts...)
	m1, err := mesher.NewCEV(e.opts.xGrid, e.F0, e.Alpha, e.Beta, opt.Maturity, meshOpts...)
	if err != nil {
		return Results{}, fmt.Errorf("CEVEngine: %w: %w", ErrBadModel, err)
	}
	m, err := mesher.NewComposite(m1)
	if err != nil {
		return Results{}, fmt.Errorf("CEVEngine: %w", err)
	}
	op, err := operator.NewCEVOp(m, e.Curve, e.Alpha, e.Beta, 0, operator.WithParallelism(e.opts.parallelism))
	if err != nil {
		return Results{}, fmt.Errorf("CEVEngine: %w", err)
	}
	s, err := solve(name, opt, problem{mesh: m, op: op, scheme: e.opts.schemeOr(scheme.HundsdorferDesc)}, e.opts)
	if err != nil {
		return Results{}, fmt.Errorf("CEVEngine: %w", err)
	}
	v, dx, dxx, theta, err := greeks(s, e.F0)
	if err != nil {
		return Results{}, fmt.Errorf("CEVEngine: %w", err)
	}
	r := Results{Value: v, Delta: dx, Gamma: dxx, Theta: theta}
	logPriced(e.opts, name, opt, r)

	return r, nil
}

// HestonEngine prices on a (log-spot, variance) mesh. A non-nil Leverage
// turns the model into stochastic local volatility.
type HestonEngine struct {
	Spot     float64
	V0       float64
	Params   operator.HestonParams
	RTS      termstructure.YieldCurve
	QTS      termstructure.YieldCurve
	Leverage termstructure.LocalVol
	opts     Options
}

// NewHestonEngine returns an engine using the Hundsdorfer scheme unless
// configured otherwise.
func NewHestonEngine(spot, v0 float64, p operator.HestonParams, rTS, qTS termstructure.YieldCurve, opts ...Option) *HestonEngine {
	return &HestonEngine{Spot: spot, V0: v0, Params: p, RTS: rTS, QTS: qTS, opts: gatherOptions(opts...)}
}

// Calculate implements Engine. Greeks are spot sensitivities at V0.
func (e *HestonEngine) Calculate(opt VanillaOption) (Results, error) {
	const name = "heston"
	if err := opt.Validate(); err != nil {
		return Results{}, fmt.Errorf("HestonEngine: %w", err)
	}
	if !(e.Spot > 0) || !(e.V0 >= 0) || e.RTS == nil || e.QTS == nil {
		return Results{}, fmt.Errorf("HestonEngine: %w", ErrBadModel)
	}
	if err := e.Params.Validate(); err != nil {
		return Results{}, fmt.Errorf("HestonEngine: %w: %w", ErrBadModel, err)
	}
	T := opt.Maturity
	vRef := math.Max(e.V0, e.Params.Theta)
	mu := e.RTS.ForwardRate(0, T) - e.QTS.ForwardRate(0, T)
	meshOpts := append([]mesher.Option{
		mesher.WithConcentration(opt.Strike, e.opts.strikeDensity),
		mesher.WithDrift(mu),
	}, e.opts.meshOpts...)
	mx, err := mesher.NewBlackScholes(e.opts.xGrid, e.Spot, math.Sqrt(vRef), T, opt.Strike, meshOpts...)
	if err != nil {
		return Results{}, fmt.Errorf("HestonEngine: %w", err)
	}
	mv, err := varianceMesher(e.opts.vGrid, e.V0, vRef, e.Params.Sigma, T)
	if err != nil {
		return Results{}, fmt.Errorf("HestonEngine: %w", err)
	}
	m, err := mesher.NewComposite(mx, mv)
	if err != nil {
		return Results{}, fmt.Errorf("HestonEngine: %w", err)
	}
	op, err := operator.NewHestonOp(m, e.Params, e.RTS, e.QTS, e.Leverage, operator.WithParallelism(e.opts.parallelism))
	if err != nil {
		return Results{}, fmt.Errorf("HestonEngine: %w", err)
	}
	s, err := solve(name, opt, problem{mesh: m, op: op, mapping: math.Exp, scheme: e.opts.schemeOr(scheme.HundsdorferDesc)}, e.opts)
	if err != nil {
		return Results{}, fmt.Errorf("HestonEngine: %w", err)
	}
	v, dx, dxx, theta, err := greeks(s, math.Log(e.Spot), e.V0)
	if err != nil {
		return Results{}, fmt.Errorf("HestonEngine: %w", err)
	}
	r := logSpotResults(e.Spot, v, dx, dxx, theta)
	logPriced(e.opts, name, opt, r)

	return r, nil
}

// varianceMesher spans [0, vMax] with vMax a normal-quantile width of the
// variance diffusion σ√v around the reference variance, concentrated at v0.
func varianceMesher(size int, v0, vRef, sigma, maturity float64) (*mesher.Mesher1D, error) {
	q := distuv.UnitNormal.Quantile(1 - mesher.DefaultEps)
	vMax := vRef + mesher.DefaultScaleFactor*q*sigma*math.Sqrt(vRef*maturity)
	if v0 <= 0 || v0 >= vMax {
		return mesher.NewUniform(size, 0, vMax)
	}

	return mesher.NewConcentrating(size, 0, vMax, v0, 0.5, false)
}

// OrnsteinUhlenbeckEngine prices options on an Ornstein-Uhlenbeck state
// (e.g. a spread or a log-price of a mean-reverting commodity); the payoff
// reads the state directly.
type OrnsteinUhlenbeckEngine struct {
	X0    float64
	Speed float64
	Level float64
	Sigma float64
	Curve termstructure.YieldCurve
	opts  Options
}

// NewOrnsteinUhlenbeckEngine returns an engine using the Hundsdorfer scheme
// unless configured otherwise.
func NewOrnsteinUhlenbeckEngine(x0, speed, level, sigma float64, curve termstructure.YieldCurve, opts ...Option) *OrnsteinUhlenbeckEngine {
	return &OrnsteinUhlenbeckEngine{X0: x0, Speed: speed, Level: level, Sigma: sigma, Curve: curve, opts: gatherOptions(opts...)}
}

// Calculate implements Engine. Strike and payoff are in state units.
func (e *OrnsteinUhlenbeckEngine) Calculate(opt VanillaOption) (Results, error) {
	const name = "ornstein-uhlenbeck"
	if opt.Type != condition.Call && opt.Type != condition.Put || math.IsNaN(opt.Strike) || !(opt.Maturity > 0) {
		return Results{}, fmt.Errorf("OrnsteinUhlenbeckEngine: %w", ErrBadOption)
	}
	if err := opt.validateExercise(); err != nil {
		return Results{}, fmt.Errorf("OrnsteinUhlenbeckEngine: %w", err)
	}
	if e.Curve == nil {
		return Results{}, fmt.Errorf("OrnsteinUhlenbeckEngine: %w", ErrBadModel)
	}
	meshOpts := append([]mesher.Option{mesher.WithConcentration(opt.Strike, e.opts.strikeDensity)}, e.opts.meshOpts...)
	m1, err := mesher.NewOrnsteinUhlenbeck(e.opts.xGrid, e.X0, e.Speed, e.Level, e.Sigma, opt.Maturity, meshOpts...)
	if err != nil {
		return Results{}, fmt.Errorf("OrnsteinUhlenbeckEngine: %w: %w", ErrBadModel, err)
	}
	m, err := mesher.NewComposite(m1)
	if err != nil {
		return Results{}, fmt.Errorf("OrnsteinUhlenbeckEngine: %w", err)
	}
	op, err := operator.NewOrnsteinUhlenbeckOp(m, e.Speed, e.Level, e.Sigma, e.Curve, 0, operator.WithParallelism(e.opts.parallelism))
	if err != nil {
		return Results{}, fmt.Errorf("OrnsteinUhlenbeckEngine: %w", err)
	}
	s, err := solve(name, opt, problem{mesh: m, op: op, scheme: e.opts.schemeOr(scheme.HundsdorferDesc)}, e.opts)
	if err != nil {
		return Results{}, fmt.Errorf("OrnsteinUhlenbeckEngine: %w", err)
	}
	v, dx, dxx, theta, err := greeks(s, e.X0)
	if err != nil {
		return Results{}, fmt.Errorf("OrnsteinUhlenbeckEngine: %w", err)
	}
	r := Results{Value: v, Delta: dx, Gamma: dxx, Theta: theta}
	logPriced(e.opts, name, opt, r)

	return r, nil
}
