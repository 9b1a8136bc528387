// SPDX-License-Identifier: MIT

package condition

import (
	"fmt"
	"math"
	"sort"
)

// StepCondition modifies the value array at a grid time during rollback.
// It is applied after every step; conditions bound to specific times act
// only when t is one of their stopping times.
type StepCondition interface {
	ApplyTo(values []float64, t float64) error
}

// Stopper is implemented by conditions bound to specific times. Every
// stopping time must be a point of the rollback time grid.
type Stopper interface {
	StoppingTimes() []float64
}

// timeTolerance is the absolute distance at which a grid time matches a
// stopping time.
const timeTolerance = 1e-10

// SameTime reports whether two grid times coincide.
func SameTime(a, b float64) bool { return math.Abs(a-b) <= timeTolerance }

// containsTime reports whether sorted holds t.
func containsTime(sorted []float64, t float64) bool {
	k := sort.SearchFloat64s(sorted, t-timeTolerance)

	return k < len(sorted) && SameTime(sorted[k], t)
}

// normalizeTimes returns times sorted with duplicates merged.
func normalizeTimes(times []float64) ([]float64, error) {
	out := append([]float64(nil), times...)
	sort.Float64s(out)
	merged := out[:0]
	for _, t := range out {
		if math.IsNaN(t) || t < 0 {
			return nil, fmt.Errorf("time %g: %w", t, ErrNegativeTime)
		}
		if len(merged) > 0 && SameTime(merged[len(merged)-1], t) {
			continue
		}
		merged = append(merged, t)
	}

	return merged, nil
}

// Composite applies its conditions in order and exposes the union of their
// stopping times.
type Composite struct {
	conds []StepCondition
	times []float64
}

// NewComposite groups conds; nil entries are skipped.
func NewComposite(conds ...StepCondition) *Composite {
	c := &Composite{}
	var all []float64
	for _, s := range conds {
		if s == nil {
			continue
		}
		c.conds = append(c.conds, s)
		if st, ok := s.(Stopper); ok {
			all = append(all, st.StoppingTimes()...)
		}
	}
	// Member conditions validated their own times already.
	c.times, _ = normalizeTimes(all)

	return c
}

// Join returns a composite running c and then extra, with merged stopping
// times. c may be nil.
func Join(c *Composite, extra ...StepCondition) *Composite {
	conds := append([]StepCondition(nil), c.Conditions()...)

	return NewComposite(append(conds, extra...)...)
}

// Conditions returns the member conditions in application order.
func (c *Composite) Conditions() []StepCondition {
	if c == nil {
		return nil
	}

	return append([]StepCondition(nil), c.conds...)
}

// StoppingTimes implements Stopper: the sorted union of member times.
func (c *Composite) StoppingTimes() []float64 {
	if c == nil {
		return nil
	}

	return append([]float64(nil), c.times...)
}

// ApplyTo implements StepCondition. A nil composite does nothing.
func (c *Composite) ApplyTo(values []float64, t float64) error {
	if c == nil {
		return nil
	}
	for k, s := range c.conds {
		if err := s.ApplyTo(values, t); err != nil {
			return fmt.Errorf("Composite.ApplyTo condition %d at t=%g: %w", k, t, err)
		}
	}

	return nil
}
