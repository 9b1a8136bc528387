// SPDX-License-Identifier: MIT

package scheme

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvfdm/boundary"
	"github.com/katalvlaran/lvfdm/operator"
)

// Scheme advances a value array one step backwards in time.
//
// Step overwrites a with the values at t - dt, given the values at t.
// SetStep must be called before the first Step.
type Scheme interface {
	SetStep(dt float64)
	Step(a []float64, t float64) error
}

// negativeTimeTolerance admits steps ending marginally below zero through
// floating-point noise in the time grid.
const negativeTimeTolerance = 1e-8

// New builds the scheme selected by desc over op with boundary set bcs
// (nil for none).
//
// Errors: ErrUnknownScheme for an unknown type, ErrBadParameter for
// weights outside [0, 1].
func New(desc Desc, op operator.Composite, bcs *boundary.Set, opts ...Option) (Scheme, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	o := gatherOptions(opts...)
	switch desc.Type {
	case Douglas:
		return NewDouglas(desc.Theta, op, bcs), nil
	case CraigSneyd:
		return NewCraigSneyd(desc.Theta, desc.Mu, op, bcs), nil
	case ModifiedCraigSneyd:
		return NewModifiedCraigSneyd(desc.Theta, desc.Mu, op, bcs), nil
	case Hundsdorfer, ModifiedHundsdorfer:
		return NewHundsdorfer(desc.Theta, desc.Mu, op, bcs), nil
	case ExplicitEuler:
		return NewExplicitEuler(op, bcs), nil
	case ImplicitEuler:
		return newImplicitEuler(op, bcs, o), nil
	case CrankNicolson:
		return newCrankNicolson(desc.Theta, op, bcs, o), nil
	}

	return nil, fmt.Errorf("New(%v): %w", desc.Type, ErrUnknownScheme)
}

// stepper carries the state every scheme shares.
type stepper struct {
	op    operator.Composite
	bcs   *boundary.Set
	dt    float64
	hasDt bool
}

// SetStep sets the step size used by subsequent steps.
func (s *stepper) SetStep(dt float64) {
	s.dt = dt
	s.hasDt = true
}

// begin validates the step ending at t, moves the operator to [t-dt, t] and
// the boundary conditions to t-dt.
func (s *stepper) begin(tag string, t float64) error {
	if !s.hasDt {
		return fmt.Errorf("%s: %w", tag, ErrStepNotSet)
	}
	if t-s.dt <= -negativeTimeTolerance {
		return fmt.Errorf("%s(t=%g, dt=%g): %w", tag, t, s.dt, ErrNegativeTime)
	}
	t0 := math.Max(0, t-s.dt)
	if err := s.op.SetTime(t0, t); err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	s.bcs.SetTime(t0)

	return nil
}
