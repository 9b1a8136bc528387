// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lvfdm/condition"
	"github.com/katalvlaran/lvfdm/scheme"
)

// Backward rolls a value array back through a time grid with a scheme,
// applying step conditions at the grid times they are bound to.
//
// A Backward is single use: once a rollback has reached t = 0, further
// rollbacks fail with ErrAlreadySolved until Reset is called. Rollbacks
// that stop at an intermediate time may be continued from that time.
type Backward struct {
	grid         *TimeGrid
	main         scheme.Scheme
	damping      scheme.Scheme
	dampingSteps int
	conds        *condition.Composite

	opts   Options
	pos    int // grid index the values currently sit at; -1 before any rollback
	solved bool
	steps  int
}

// NewBackward checks that every stopping time of conds is a grid point.
// conds may be nil.
//
// Errors: ErrMissingInput for a nil grid or scheme; ErrTimeNotInGrid.
func NewBackward(grid *TimeGrid, main scheme.Scheme, conds *condition.Composite, opts ...Option) (*Backward, error) {
	if grid == nil || main == nil {
		return nil, fmt.Errorf("NewBackward: %w", ErrMissingInput)
	}
	for _, t := range conds.StoppingTimes() {
		if !grid.Contains(t) {
			return nil, fmt.Errorf("NewBackward: stopping time %g: %w", t, ErrTimeNotInGrid)
		}
	}

	return &Backward{grid: grid, main: main, conds: conds, opts: gatherOptions(opts...), pos: -1}, nil
}

// SetDamping makes the first steps intervals counted from maturity use
// damping instead of the main scheme, typically implicit Euler to smooth a
// non-differentiable payoff.
func (b *Backward) SetDamping(steps int, damping scheme.Scheme) {
	if steps < 0 || damping == nil {
		steps = 0
	}
	b.dampingSteps, b.damping = steps, damping
}

// Grid returns the time grid.
func (b *Backward) Grid() *TimeGrid { return b.grid }

// Steps returns the scheme steps taken since construction or Reset.
func (b *Backward) Steps() int { return b.steps }

// Reset allows a new rollback from any grid time.
func (b *Backward) Reset() {
	b.pos, b.solved, b.steps = -1, false, 0
}

// Rollback moves values from time from back to time to, both grid points.
// For n from index(from) down to index(to)+1 it sets the step to
// t_n - t_{n-1}, steps at t_n and applies the step conditions at t_{n-1}.
// Conditions at from are applied before the first step of a fresh rollback.
//
// Errors: ErrAlreadySolved, ErrTimeNotInGrid, ErrNotIncreasing (to > from),
// and any scheme or condition error, wrapped with the failing time.
func (b *Backward) Rollback(values []float64, from, to float64) error {
	if b.solved {
		return fmt.Errorf("Rollback: %w", ErrAlreadySolved)
	}
	iFrom, err := b.grid.Index(from)
	if err != nil {
		return fmt.Errorf("Rollback from: %w", err)
	}
	iTo, err := b.grid.Index(to)
	if err != nil {
		return fmt.Errorf("Rollback to: %w", err)
	}
	if iTo > iFrom {
		return fmt.Errorf("Rollback(%g, %g): %w", from, to, ErrNotIncreasing)
	}

	if b.pos != iFrom {
		if err := b.conds.ApplyTo(values, b.grid.At(iFrom)); err != nil {
			return b.fail(err, from)
		}
	}
	last := b.grid.Size() - 1
	for n := iFrom; n > iTo; n-- {
		s := b.main
		if b.damping != nil && last-n < b.dampingSteps {
			s = b.damping
		}
		s.SetStep(b.grid.Dt(n))
		if err := s.Step(values, b.grid.At(n)); err != nil {
			return b.fail(err, b.grid.At(n))
		}
		b.steps++
		if err := b.conds.ApplyTo(values, b.grid.At(n-1)); err != nil {
			return b.fail(err, b.grid.At(n-1))
		}
	}
	b.pos = iTo
	b.solved = iTo == 0

	return nil
}

func (b *Backward) fail(err error, t float64) error {
	b.opts.logger.Warn("rollback failed", slog.Float64("t", t), slog.Int("steps", b.steps), slog.Any("err", err))

	return fmt.Errorf("Rollback at t=%g: %w", t, err)
}
