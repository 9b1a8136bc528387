// SPDX-License-Identifier: MIT

package scheme

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvfdm/boundary"
	"github.com/katalvlaran/lvfdm/matrix"
	"github.com/katalvlaran/lvfdm/operator"
)

// ExplicitEulerScheme computes a ← a + dt·L a. Stable only for small dt.
type ExplicitEulerScheme struct {
	stepper
}

// NewExplicitEuler returns an explicit Euler scheme.
func NewExplicitEuler(op operator.Composite, bcs *boundary.Set) *ExplicitEulerScheme {
	return &ExplicitEulerScheme{stepper{op: op, bcs: bcs}}
}

// Step implements Scheme.
func (s *ExplicitEulerScheme) Step(a []float64, t float64) error {
	return s.step(a, t, 1)
}

// step applies a ← a + θ·dt·L a.
func (s *ExplicitEulerScheme) step(a []float64, t, theta float64) error {
	if err := s.begin("ExplicitEuler.Step", t); err != nil {
		return err
	}
	s.bcs.ApplyBeforeApplying(s.op)
	floats.AddScaled(a, theta*s.dt, s.op.Apply(a))
	s.bcs.ApplyAfterApplying(a)

	return nil
}

// ImplicitEulerScheme solves (I - dt·L) a_new = a. One-dimensional
// operators are inverted directly by the splitting solve; otherwise the
// system is solved by BiCGStab preconditioned with the direction-0 solve.
type ImplicitEulerScheme struct {
	stepper
	opts       Options
	iterations int
}

// NewImplicitEuler returns an implicit Euler scheme.
func NewImplicitEuler(op operator.Composite, bcs *boundary.Set, opts ...Option) *ImplicitEulerScheme {
	return newImplicitEuler(op, bcs, gatherOptions(opts...))
}

func newImplicitEuler(op operator.Composite, bcs *boundary.Set, o Options) *ImplicitEulerScheme {
	return &ImplicitEulerScheme{stepper: stepper{op: op, bcs: bcs}, opts: o}
}

// Iterations returns the total BiCGStab iterations spent so far.
func (s *ImplicitEulerScheme) Iterations() int { return s.iterations }

// Step implements Scheme.
func (s *ImplicitEulerScheme) Step(a []float64, t float64) error {
	return s.step(a, t, 1)
}

func (s *ImplicitEulerScheme) step(a []float64, t, theta float64) error {
	const tag = "ImplicitEuler.Step"
	if err := s.begin(tag, t); err != nil {
		return err
	}
	s.bcs.ApplyBeforeSolving(s.op, a)
	w := theta * s.dt

	if s.op.Size() == 1 {
		x, err := s.op.SolveSplitting(0, a, w)
		if err != nil {
			return fmt.Errorf("%s: %w", tag, err)
		}
		copy(a, x)
	} else {
		apply := func(x []float64) ([]float64, error) {
			y := s.op.Apply(x)
			floats.Scale(-w, y)
			floats.Add(y, x)

			return y, nil
		}
		precond := func(r []float64) ([]float64, error) {
			return s.op.Preconditioner(r, w)
		}
		res, err := matrix.BiCGStab(apply, a, a, precond,
			matrix.WithTolerance(s.opts.relTol), matrix.WithMaxIterations(s.opts.maxIter))
		s.iterations += res.Iterations
		if err != nil {
			return fmt.Errorf("%s: %w", tag, err)
		}
		copy(a, res.X)
	}
	s.bcs.ApplyAfterSolving(a)

	return nil
}

// CrankNicolsonScheme is an explicit step weighted 1-θ followed by an
// implicit step weighted θ. θ = ½ is the classical scheme.
type CrankNicolsonScheme struct {
	theta    float64
	explicit *ExplicitEulerScheme
	implicit *ImplicitEulerScheme
}

// NewCrankNicolson returns a θ-scheme.
func NewCrankNicolson(theta float64, op operator.Composite, bcs *boundary.Set, opts ...Option) *CrankNicolsonScheme {
	return newCrankNicolson(theta, op, bcs, gatherOptions(opts...))
}

func newCrankNicolson(theta float64, op operator.Composite, bcs *boundary.Set, o Options) *CrankNicolsonScheme {
	return &CrankNicolsonScheme{
		theta:    theta,
		explicit: NewExplicitEuler(op, bcs),
		implicit: newImplicitEuler(op, bcs, o),
	}
}

// SetStep implements Scheme.
func (s *CrankNicolsonScheme) SetStep(dt float64) {
	s.explicit.SetStep(dt)
	s.implicit.SetStep(dt)
}

// Iterations returns the BiCGStab iterations spent by the implicit half.
func (s *CrankNicolsonScheme) Iterations() int { return s.implicit.Iterations() }

// Step implements Scheme.
func (s *CrankNicolsonScheme) Step(a []float64, t float64) error {
	if s.theta != 1 {
		if err := s.explicit.step(a, t, 1-s.theta); err != nil {
			return err
		}
	}
	if s.theta != 0 {
		if err := s.implicit.step(a, t, s.theta); err != nil {
			return err
		}
	}

	return nil
}
