// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/lvfdm/boundary"
	"github.com/katalvlaran/lvfdm/condition"
	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/operator"
	"github.com/katalvlaran/lvfdm/scheme"
)

// Desc is everything a Solver needs for one backward solve.
type Desc struct {
	Mesher     *mesher.Composite
	Op         operator.Composite
	BCs        *boundary.Set        // optional
	Conditions *condition.Composite // optional
	// Payoff holds the terminal values on the mesh (see condition.InnerValues).
	Payoff       []float64
	Maturity     float64
	TimeSteps    int
	DampingSteps int
	Scheme       scheme.Desc
}

// State is the lazy-evaluation state of a Solver.
type State int

const (
	// Dirty means results are missing or stale; call Recompute.
	Dirty State = iota
	// Clean means results reflect the current inputs.
	Clean
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == Clean {
		return "clean"
	}

	return "dirty"
}

// Solver is a lazy n-dimensional backward solver. It starts Dirty;
// Recompute runs the rollback from maturity to zero and moves it to Clean.
// Result accessors fail with ErrNotCalculated while Dirty. Invalidate marks
// the results stale, e.g. after a curve or model parameter changed.
type Solver struct {
	desc Desc
	opts Options

	state     State
	grid      *TimeGrid
	values    *surface
	theta     *surface
	thetaTime float64
	steps     int
}

// NewSolver validates desc. The payoff slice is copied.
//
// Errors: ErrMissingInput (nil mesher or operator), ErrSize (payoff length
// or operator dimensions), ErrBadMaturity, ErrBadSteps, scheme errors.
func NewSolver(desc Desc, opts ...Option) (*Solver, error) {
	switch {
	case desc.Mesher == nil || desc.Op == nil:
		return nil, fmt.Errorf("NewSolver: %w", ErrMissingInput)
	case len(desc.Payoff) != desc.Mesher.Size():
		return nil, fmt.Errorf("NewSolver: payoff len %d, mesh %d: %w", len(desc.Payoff), desc.Mesher.Size(), ErrSize)
	case desc.Op.Size() != desc.Mesher.Dims():
		return nil, fmt.Errorf("NewSolver: operator dims %d, mesh %d: %w", desc.Op.Size(), desc.Mesher.Dims(), ErrSize)
	case !(desc.Maturity > 0):
		return nil, fmt.Errorf("NewSolver: maturity %g: %w", desc.Maturity, ErrBadMaturity)
	case desc.TimeSteps < 1 || desc.DampingSteps < 0:
		return nil, fmt.Errorf("NewSolver: steps %d, damping %d: %w", desc.TimeSteps, desc.DampingSteps, ErrBadSteps)
	}
	if err := desc.Scheme.Validate(); err != nil {
		return nil, fmt.Errorf("NewSolver: %w", err)
	}
	desc.Payoff = append([]float64(nil), desc.Payoff...)

	return &Solver{desc: desc, opts: gatherOptions(opts...)}, nil
}

// State returns the current state.
func (s *Solver) State() State { return s.state }

// Invalidate marks the results stale.
func (s *Solver) Invalidate() { s.state = Dirty }

// Grid returns the time grid of the last successful Recompute, nil before.
func (s *Solver) Grid() *TimeGrid { return s.grid }

// Steps returns the scheme steps of the last Recompute.
func (s *Solver) Steps() int { return s.steps }

// Recompute runs the rollback. On failure the solver stays Dirty.
func (s *Solver) Recompute() error {
	d := s.desc
	name := d.Scheme.Type.String()
	log := s.opts.logger.With(slog.String("scheme", name), slog.Int("dims", d.Mesher.Dims()))

	grid, err := NewUniformTimeGrid(d.Maturity, d.TimeSteps, d.Conditions.StoppingTimes()...)
	if err != nil {
		return fmt.Errorf("Recompute: %w", err)
	}
	snap, err := condition.NewSnapshot(grid.At(1))
	if err != nil {
		return fmt.Errorf("Recompute: %w", err)
	}
	main, err := scheme.New(d.Scheme, d.Op, d.BCs, s.opts.schemeOpts...)
	if err != nil {
		return fmt.Errorf("Recompute: %w", err)
	}
	bw, err := NewBackward(grid, main, condition.Join(d.Conditions, snap), WithLogger(log))
	if err != nil {
		return fmt.Errorf("Recompute: %w", err)
	}
	if d.DampingSteps > 0 {
		bw.SetDamping(d.DampingSteps, scheme.NewImplicitEuler(d.Op, d.BCs, s.opts.schemeOpts...))
	}

	log.Debug("solve started", slog.Int("nodes", d.Mesher.Size()), slog.Int("steps", grid.Size()-1))
	start := time.Now()
	values := append([]float64(nil), d.Payoff...)
	err = bw.Rollback(values, grid.Maturity(), 0)
	elapsed := time.Since(start)
	s.opts.metrics.ObserveSolve(name, bw.Steps(), elapsed, err)
	if err != nil {
		s.state = Dirty
		log.Warn("solve failed", slog.Duration("elapsed", elapsed), slog.Any("err", err))

		return fmt.Errorf("Recompute: %w", err)
	}
	thetaValues, _ := snap.Values()

	s.grid = grid
	s.steps = bw.Steps()
	s.values = newSurface(d.Mesher, values)
	s.theta = newSurface(d.Mesher, thetaValues)
	s.thetaTime = snap.Time()
	s.state = Clean
	log.Debug("solve finished", slog.Int("steps", s.steps), slog.Duration("elapsed", elapsed))

	return nil
}

// Values returns a copy of the t = 0 value array.
func (s *Solver) Values() ([]float64, error) {
	if s.state != Clean {
		return nil, fmt.Errorf("Values: %w", ErrNotCalculated)
	}

	return append([]float64(nil), s.values.values...), nil
}

// ValueAt interpolates the t = 0 solution at x, one coordinate per
// direction.
func (s *Solver) ValueAt(x ...float64) (float64, error) {
	if s.state != Clean {
		return 0, fmt.Errorf("ValueAt: %w", ErrNotCalculated)
	}
	v, err := s.values.At(x)
	if err != nil {
		return 0, fmt.Errorf("ValueAt: %w", err)
	}

	return v, nil
}

// DeltaAt returns ∂V/∂x_0 at t = 0, taken in the mesh coordinate of
// direction 0 (log-spot on log meshes).
func (s *Solver) DeltaAt(x ...float64) (float64, error) {
	if s.state != Clean {
		return 0, fmt.Errorf("DeltaAt: %w", ErrNotCalculated)
	}
	first, _, err := s.values.Derivatives(x)
	if err != nil {
		return 0, fmt.Errorf("DeltaAt: %w", err)
	}

	return first, nil
}

// GammaAt returns ∂²V/∂x_0² at t = 0 in the mesh coordinate of direction 0.
func (s *Solver) GammaAt(x ...float64) (float64, error) {
	if s.state != Clean {
		return 0, fmt.Errorf("GammaAt: %w", ErrNotCalculated)
	}
	_, second, err := s.values.Derivatives(x)
	if err != nil {
		return 0, fmt.Errorf("GammaAt: %w", err)
	}

	return second, nil
}

// ThetaAt returns (V(t1, x) - V(0, x)) / t1, with t1 the first positive
// grid time.
func (s *Solver) ThetaAt(x ...float64) (float64, error) {
	if s.state != Clean {
		return 0, fmt.Errorf("ThetaAt: %w", ErrNotCalculated)
	}
	v0, err := s.values.At(x)
	if err != nil {
		return 0, fmt.Errorf("ThetaAt: %w", err)
	}
	v1, err := s.theta.At(x)
	if err != nil {
		return 0, fmt.Errorf("ThetaAt: %w", err)
	}

	return (v1 - v0) / s.thetaTime, nil
}
