// SPDX-License-Identifier: MIT

package condition

import (
	"fmt"
	"math"
)

// American floors the value array by the exercise values after every step.
type American struct {
	inner []float64
}

// NewAmerican returns an early-exercise condition over the given inner
// values (see InnerValues). inner is not copied.
func NewAmerican(inner []float64) *American { return &American{inner: inner} }

// ApplyTo implements StepCondition.
func (c *American) ApplyTo(values []float64, _ float64) error {
	return floorBy(values, c.inner)
}

// Bermudan floors the value array by the exercise values at its exercise
// times only.
type Bermudan struct {
	inner []float64
	times []float64
}

// NewBermudan returns an exercise condition active at times.
func NewBermudan(times []float64, inner []float64) (*Bermudan, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("NewBermudan: %w", ErrNoTimes)
	}
	ts, err := normalizeTimes(times)
	if err != nil {
		return nil, fmt.Errorf("NewBermudan: %w", err)
	}

	return &Bermudan{inner: inner, times: ts}, nil
}

// StoppingTimes implements Stopper.
func (c *Bermudan) StoppingTimes() []float64 { return append([]float64(nil), c.times...) }

// ApplyTo implements StepCondition.
func (c *Bermudan) ApplyTo(values []float64, t float64) error {
	if !containsTime(c.times, t) {
		return nil
	}

	return floorBy(values, c.inner)
}

func floorBy(values, inner []float64) error {
	if len(values) != len(inner) {
		return fmt.Errorf("len %d, inner values %d: %w", len(values), len(inner), ErrSize)
	}
	for i, v := range inner {
		values[i] = math.Max(values[i], v)
	}

	return nil
}
