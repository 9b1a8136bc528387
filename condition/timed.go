// SPDX-License-Identifier: MIT

package condition

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvfdm/mesher"
)

// Timed runs a transform on the value array at fixed times.
type Timed struct {
	times     []float64
	transform func(values []float64, t float64) error
}

// NewTimed returns a condition calling transform when t is one of times.
func NewTimed(times []float64, transform func(values []float64, t float64) error) (*Timed, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("NewTimed: %w", ErrNoTimes)
	}
	ts, err := normalizeTimes(times)
	if err != nil {
		return nil, fmt.Errorf("NewTimed: %w", err)
	}

	return &Timed{times: ts, transform: transform}, nil
}

// StoppingTimes implements Stopper.
func (c *Timed) StoppingTimes() []float64 { return append([]float64(nil), c.times...) }

// ApplyTo implements StepCondition.
func (c *Timed) ApplyTo(values []float64, t float64) error {
	if c.transform == nil || !containsTime(c.times, t) {
		return nil
	}

	return c.transform(values, t)
}

// NewZero returns a condition wiping the value array at time t, e.g. a total
// loss event.
func NewZero(t float64) (*Timed, error) {
	return NewTimed([]float64{t}, func(values []float64, _ float64) error {
		for i := range values {
			values[i] = 0
		}

		return nil
	})
}

// NewKnockOut returns a discretely monitored barrier: at each monitoring
// time, nodes whose mapped coordinate along d is at or beyond a barrier
// are replaced by rebate. NaN disables a barrier.
func NewKnockOut(m *mesher.Composite, d int, lower, upper, rebate float64, times []float64, mapping func(float64) float64) (*Timed, error) {
	if err := m.ValidDirection(d); err != nil {
		return nil, fmt.Errorf("NewKnockOut: %w", err)
	}
	if !math.IsNaN(lower) && !math.IsNaN(upper) && lower >= upper {
		return nil, fmt.Errorf("NewKnockOut(%g, %g): %w", lower, upper, ErrBadBarrier)
	}
	if mapping == nil {
		mapping = identity
	}
	var knocked []int
	for i := 0; i < m.Size(); i++ {
		s := mapping(m.Location(i, d))
		if (!math.IsNaN(lower) && s <= lower) || (!math.IsNaN(upper) && s >= upper) {
			knocked = append(knocked, i)
		}
	}
	size := m.Size()

	return NewTimed(times, func(values []float64, _ float64) error {
		if len(values) != size {
			return fmt.Errorf("knock-out: len %d, mesh %d: %w", len(values), size, ErrSize)
		}
		for _, i := range knocked {
			values[i] = rebate
		}

		return nil
	})
}

// Snapshot records a copy of the value array at one time.
type Snapshot struct {
	t      float64
	values []float64
}

// NewSnapshot returns a condition copying the value array at t.
func NewSnapshot(t float64) (*Snapshot, error) {
	if math.IsNaN(t) || t < 0 {
		return nil, fmt.Errorf("NewSnapshot(%g): %w", t, ErrNegativeTime)
	}

	return &Snapshot{t: t}, nil
}

// Time returns the snapshot time.
func (c *Snapshot) Time() float64 { return c.t }

// StoppingTimes implements Stopper.
func (c *Snapshot) StoppingTimes() []float64 { return []float64{c.t} }

// ApplyTo implements StepCondition.
func (c *Snapshot) ApplyTo(values []float64, t float64) error {
	if SameTime(t, c.t) {
		c.values = append(c.values[:0], values...)
	}

	return nil
}

// Values returns the recorded copy and whether the snapshot time was
// reached.
func (c *Snapshot) Values() ([]float64, bool) {
	if c.values == nil {
		return nil, false
	}

	return append([]float64(nil), c.values...), true
}

// Reset forgets the recorded values.
func (c *Snapshot) Reset() { c.values = nil }
