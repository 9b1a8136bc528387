// SPDX-License-Identifier: MIT

package pricing

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/lvfdm/boundary"
	"github.com/katalvlaran/lvfdm/condition"
	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/termstructure"
)

// BarrierKind selects the barrier side and whether touching it knocks the
// option out or in.
type BarrierKind int

const (
	DownOut BarrierKind = iota
	UpOut
	DownIn
	UpIn
)

// String implements fmt.Stringer.
func (k BarrierKind) String() string {
	switch k {
	case DownOut:
		return "down-and-out"
	case UpOut:
		return "up-and-out"
	case DownIn:
		return "down-and-in"
	case UpIn:
		return "up-and-in"
	default:
		return fmt.Sprintf("BarrierKind(%d)", int(k))
	}
}

func (k BarrierKind) down() bool { return k == DownOut || k == DownIn }

func (k BarrierKind) in() bool { return k == DownIn || k == UpIn }

// BarrierOption is a continuously monitored single-barrier option with
// European exercise. A knock-out pays Rebate when the barrier is hit, or at
// maturity when RebateAtExpiry is set. A knock-in pays Rebate at maturity
// if the barrier was never hit.
type BarrierOption struct {
	VanillaOption
	Kind           BarrierKind
	Barrier        float64
	Rebate         float64
	RebateAtExpiry bool
}

// Validate checks the contract terms.
func (o BarrierOption) Validate() error {
	if err := o.VanillaOption.Validate(); err != nil {
		return err
	}
	if o.Exercise.Kind != European {
		return fmt.Errorf("barrier with %v exercise: %w", o.Exercise.Kind, ErrBadExercise)
	}
	if o.Kind < DownOut || o.Kind > UpIn || !(o.Barrier > 0) || math.IsInf(o.Barrier, 0) ||
		!(o.Rebate >= 0) || math.IsInf(o.Rebate, 0) {
		return fmt.Errorf("%v barrier %g rebate %g: %w", o.Kind, o.Barrier, o.Rebate, ErrBadOption)
	}

	return nil
}

// touched reports whether spot already sits on or beyond the barrier.
func (o BarrierOption) touched(spot float64) bool {
	if o.Kind.down() {
		return spot <= o.Barrier
	}

	return spot >= o.Barrier
}

// BarrierEngine prices barrier options under (local) volatility. The log-spot
// mesh ends on the barrier, where a Dirichlet condition carries the rebate.
// Knock-ins are priced as vanilla minus knock-out plus the rebate leg.
type BarrierEngine struct {
	bs *BlackScholesEngine
}

// NewBarrierEngine returns an engine using the Douglas scheme unless
// configured otherwise.
func NewBarrierEngine(spot float64, rTS, qTS termstructure.YieldCurve, vol termstructure.LocalVol, opts ...Option) *BarrierEngine {
	return &BarrierEngine{bs: NewBlackScholesEngine(spot, rTS, qTS, vol, opts...)}
}

// Calculate prices opt.
func (e *BarrierEngine) Calculate(opt BarrierOption) (Results, error) {
	if err := opt.Validate(); err != nil {
		return Results{}, fmt.Errorf("BarrierEngine: %w", err)
	}
	bs := e.bs
	if !(bs.Spot > 0) || bs.RTS == nil || bs.QTS == nil || bs.Vol == nil {
		return Results{}, fmt.Errorf("BarrierEngine: %w", ErrBadModel)
	}

	var (
		r   Results
		err error
	)
	switch {
	case opt.touched(bs.Spot) && opt.Kind.in():
		r, err = bs.Calculate(opt.VanillaOption)
	case opt.touched(bs.Spot):
		r = Results{Value: opt.Rebate}
		if opt.RebateAtExpiry {
			r.Value *= bs.RTS.Discount(opt.Maturity)
		}
	case opt.Kind.in():
		r, err = e.knockIn(opt)
	default:
		r, err = e.knockOut(opt, nil, e.rebateAt(opt))
	}
	if err != nil {
		return Results{}, fmt.Errorf("BarrierEngine: %w", err)
	}
	bs.opts.logger.Debug("barrier priced",
		slog.String("kind", opt.Kind.String()),
		slog.Float64("barrier", opt.Barrier),
		slog.Float64("rebate", opt.Rebate),
		slog.Float64("value", r.Value))

	return r, nil
}

// rebateAt returns the knock-out boundary value at time t, nil for a rebate
// paid at hit.
func (e *BarrierEngine) rebateAt(opt BarrierOption) func(t float64) float64 {
	if !opt.RebateAtExpiry {
		return nil
	}
	rTS, T := e.bs.RTS, opt.Maturity

	return func(t float64) float64 { return opt.Rebate * rTS.Discount(T) / rTS.Discount(t) }
}

// knockIn combines the vanilla price, the knock-out without rebate and the
// leg paying Rebate at maturity unless the barrier is hit.
func (e *BarrierEngine) knockIn(opt BarrierOption) (Results, error) {
	vanilla, err := e.bs.Calculate(opt.VanillaOption)
	if err != nil {
		return Results{}, err
	}
	out := opt
	out.Rebate = 0
	ko, err := e.knockOut(out, nil, nil)
	if err != nil {
		return Results{}, err
	}
	r := Results{
		Value: vanilla.Value - ko.Value,
		Delta: vanilla.Delta - ko.Delta,
		Gamma: vanilla.Gamma - ko.Gamma,
		Theta: vanilla.Theta - ko.Theta,
	}
	if opt.Rebate == 0 {
		return r, nil
	}
	rebate := condition.PayoffFunc(func(float64) float64 { return opt.Rebate })
	leg, err := e.knockOut(out, rebate, nil)
	if err != nil {
		return Results{}, err
	}
	r.Value += leg.Value
	r.Delta += leg.Delta
	r.Gamma += leg.Gamma
	r.Theta += leg.Theta

	return r, nil
}

// knockOut solves on a mesh ending at the barrier. payoff nil means the
// vanilla payoff; rebateAt nil pins the boundary to opt.Rebate.
func (e *BarrierEngine) knockOut(opt BarrierOption, payoff condition.Payoff, rebateAt func(float64) float64) (Results, error) {
	const name = "barrier"
	bs := e.bs
	lo, hi, side := math.NaN(), opt.Barrier, boundary.Upper
	if opt.Kind.down() {
		lo, hi, side = opt.Barrier, math.NaN(), boundary.Lower
	}
	p, err := bs.problem(opt.Strike, opt.Maturity, mesher.WithEdges(lo, hi))
	if err != nil {
		return Results{}, err
	}

	var bc boundary.Condition
	if rebateAt != nil {
		bc, err = boundary.NewTimeDependentDirichlet(p.mesh, 0, side, rebateAt)
	} else {
		bc, err = boundary.NewDirichlet(p.mesh, 0, side, opt.Rebate)
	}
	if err != nil {
		return Results{}, err
	}
	if p.bcs, err = boundary.NewSet(p.mesh, bc); err != nil {
		return Results{}, err
	}
	p.payoff = payoff

	s, err := solve(name, opt.VanillaOption, p, bs.opts)
	if err != nil {
		return Results{}, err
	}
	v, dx, dxx, theta, err := greeks(s, math.Log(bs.Spot))
	if err != nil {
		return Results{}, err
	}

	return logSpotResults(bs.Spot, v, dx, dxx, theta), nil
}
