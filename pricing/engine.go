// SPDX-License-Identifier: MIT

package pricing

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lvfdm/boundary"
	"github.com/katalvlaran/lvfdm/condition"
	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/operator"
	"github.com/katalvlaran/lvfdm/scheme"
	"github.com/katalvlaran/lvfdm/solver"
)

// Engine prices vanilla options.
type Engine interface {
	Calculate(opt VanillaOption) (Results, error)
}

// problem is a discretised pricing problem ready for the solver.
type problem struct {
	mesh    *mesher.Composite
	op      operator.Composite
	bcs     *boundary.Set
	mapping func(float64) float64 // mesh coordinate of direction 0 to underlying
	scheme  scheme.Desc
	payoff  condition.Payoff // nil = the option's vanilla payoff

	// multi, when set, maps all node coordinates to the underlying and
	// replaces mapping.
	multi func(coords []float64) float64
}

// values returns the cell-averaged terminal values and the exercise values
// of payoff on p's mesh.
func (p problem) values(payoff condition.Payoff) (terminal, inner []float64, err error) {
	if p.multi != nil {
		if terminal, err = condition.CellAveragedValuesMulti(p.mesh, 0, payoff, p.multi); err != nil {
			return nil, nil, err
		}
		inner, err = condition.InnerValuesMulti(p.mesh, payoff, p.multi)

		return terminal, inner, err
	}
	if terminal, err = condition.CellAveragedValues(p.mesh, 0, payoff, p.mapping); err != nil {
		return nil, nil, err
	}
	inner, err = condition.InnerValues(p.mesh, 0, payoff, p.mapping)

	return terminal, inner, err
}

// solve rolls opt back over p and returns the clean solver.
func solve(name string, opt VanillaOption, p problem, o Options) (*solver.Solver, error) {
	var payoff condition.Payoff = opt.Payoff()
	if p.payoff != nil {
		payoff = p.payoff
	}
	terminal, inner, err := p.values(payoff)
	if err != nil {
		return nil, err
	}
	conds, err := opt.exerciseConditions(inner)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrBadExercise)
	}
	s, err := solver.NewSolver(solver.Desc{
		Mesher:       p.mesh,
		Op:           p.op,
		BCs:          p.bcs,
		Conditions:   conds,
		Payoff:       terminal,
		Maturity:     opt.Maturity,
		TimeSteps:    o.timeSteps,
		DampingSteps: o.dampingSteps,
		Scheme:       p.scheme,
	},
		solver.WithLogger(o.logger.With(slog.String("engine", name))),
		solver.WithMetrics(o.metrics),
	)
	if err != nil {
		return nil, err
	}
	if err := s.Recompute(); err != nil {
		return nil, err
	}

	return s, nil
}

// greeks reads value, first and second derivative along direction 0 and
// theta at x.
func greeks(s *solver.Solver, x ...float64) (v, dx, dxx, theta float64, err error) {
	if v, err = s.ValueAt(x...); err != nil {
		return
	}
	if dx, err = s.DeltaAt(x...); err != nil {
		return
	}
	if dxx, err = s.GammaAt(x...); err != nil {
		return
	}
	theta, err = s.ThetaAt(x...)

	return
}

// logSpotResults converts derivatives in x = ln S to spot Greeks.
func logSpotResults(spot, v, dx, dxx, theta float64) Results {
	return Results{
		Value: v,
		Delta: dx / spot,
		Gamma: (dxx - dx) / (spot * spot),
		Theta: theta,
	}
}

func logPriced(o Options, name string, opt VanillaOption, r Results) {
	o.logger.Debug("option priced",
		slog.String("engine", name),
		slog.String("type", opt.Type.String()),
		slog.String("exercise", opt.Exercise.Kind.String()),
		slog.Float64("strike", opt.Strike),
		slog.Float64("value", r.Value))
}
