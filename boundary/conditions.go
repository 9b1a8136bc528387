// SPDX-License-Identifier: MIT

package boundary

import (
	"fmt"

	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/operator"
)

// Dirichlet pins the edge nodes to a value.
type Dirichlet struct {
	edge
	value float64
}

// NewDirichlet returns V = value on side of direction d.
func NewDirichlet(m *mesher.Composite, d int, side Side, value float64) (*Dirichlet, error) {
	e, err := newEdge(m, d, side)
	if err != nil {
		return nil, fmt.Errorf("NewDirichlet: %w", err)
	}

	return &Dirichlet{edge: e, value: value}, nil
}

// Value returns the prescribed value.
func (c *Dirichlet) Value() float64 { return c.value }

// SetTime implements Condition.
func (c *Dirichlet) SetTime(float64) {}

// ApplyBeforeApplying implements Condition.
func (c *Dirichlet) ApplyBeforeApplying(operator.Composite) {}

// ApplyBeforeSolving implements Condition: the rhs carries the value.
func (c *Dirichlet) ApplyBeforeSolving(_ operator.Composite, rhs []float64) { c.pin(rhs) }

// ApplyAfterApplying implements Condition.
func (c *Dirichlet) ApplyAfterApplying(v []float64) { c.pin(v) }

// ApplyAfterSolving implements Condition.
func (c *Dirichlet) ApplyAfterSolving(v []float64) { c.pin(v) }

func (c *Dirichlet) pin(v []float64) {
	for _, i := range c.nodes {
		v[i] = c.value
	}
}

// TimeDependentDirichlet pins the edge nodes to value(t), refreshed by SetTime.
type TimeDependentDirichlet struct {
	Dirichlet
	valueAt func(t float64) float64
}

// NewTimeDependentDirichlet returns V = valueAt(t) on side of direction d.
// The value before the first SetTime is valueAt(0).
func NewTimeDependentDirichlet(m *mesher.Composite, d int, side Side, valueAt func(t float64) float64) (*TimeDependentDirichlet, error) {
	if valueAt == nil {
		return nil, fmt.Errorf("NewTimeDependentDirichlet: %w", ErrNilValue)
	}
	e, err := newEdge(m, d, side)
	if err != nil {
		return nil, fmt.Errorf("NewTimeDependentDirichlet: %w", err)
	}

	return &TimeDependentDirichlet{Dirichlet: Dirichlet{edge: e, value: valueAt(0)}, valueAt: valueAt}, nil
}

// SetTime implements Condition.
func (c *TimeDependentDirichlet) SetTime(t float64) { c.value = c.valueAt(t) }

// Neumann prescribes the first derivative ∂V/∂x = slope on the edge through
// the one-sided difference with the first interior node.
type Neumann struct {
	edge
	slope float64
}

// NewNeumann returns ∂V/∂x = slope on side of direction d.
func NewNeumann(m *mesher.Composite, d int, side Side, slope float64) (*Neumann, error) {
	e, err := newEdge(m, d, side)
	if err != nil {
		return nil, fmt.Errorf("NewNeumann: %w", err)
	}

	return &Neumann{edge: e, slope: slope}, nil
}

// SetTime implements Condition.
func (c *Neumann) SetTime(float64) {}

// ApplyBeforeApplying implements Condition.
func (c *Neumann) ApplyBeforeApplying(operator.Composite) {}

// ApplyBeforeSolving implements Condition.
func (c *Neumann) ApplyBeforeSolving(operator.Composite, []float64) {}

// ApplyAfterApplying implements Condition.
func (c *Neumann) ApplyAfterApplying(v []float64) { c.extrapolate(v) }

// ApplyAfterSolving implements Condition.
func (c *Neumann) ApplyAfterSolving(v []float64) { c.extrapolate(v) }

func (c *Neumann) extrapolate(v []float64) {
	sign := 1.0
	if c.side == Lower {
		sign = -1
	}
	for k, i := range c.nodes {
		v[i] = v[c.inner1[k]] + sign*c.slope*c.h1[k]
	}
}

// Linear imposes a vanishing second derivative on the edge by linear
// extrapolation from the two interior neighbours.
type Linear struct {
	edge
}

// NewLinear returns ∂²V/∂x² = 0 on side of direction d. The direction needs
// at least three nodes.
func NewLinear(m *mesher.Composite, d int, side Side) (*Linear, error) {
	e, err := newEdge(m, d, side)
	if err != nil {
		return nil, fmt.Errorf("NewLinear: %w", err)
	}
	if m.Layout().Dim(d) < 3 {
		return nil, fmt.Errorf("NewLinear: %d nodes: %w", m.Layout().Dim(d), ErrTooFewPoints)
	}

	return &Linear{edge: e}, nil
}

// SetTime implements Condition.
func (c *Linear) SetTime(float64) {}

// ApplyBeforeApplying implements Condition.
func (c *Linear) ApplyBeforeApplying(operator.Composite) {}

// ApplyBeforeSolving implements Condition.
func (c *Linear) ApplyBeforeSolving(operator.Composite, []float64) {}

// ApplyAfterApplying implements Condition.
func (c *Linear) ApplyAfterApplying(v []float64) { c.extrapolate(v) }

// ApplyAfterSolving implements Condition.
func (c *Linear) ApplyAfterSolving(v []float64) { c.extrapolate(v) }

func (c *Linear) extrapolate(v []float64) {
	for k, i := range c.nodes {
		v1, v2 := v[c.inner1[k]], v[c.inner2[k]]
		v[i] = v1 + (v1-v2)*c.h1[k]/c.h2[k]
	}
}
