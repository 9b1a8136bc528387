// SPDX-License-Identifier: MIT

// Package boundary implements boundary conditions of the finite-difference
// operators and the ordered set the stepping schemes apply each step.
package boundary

import (
	"fmt"

	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/operator"
)

// Side selects the edge of a direction.
type Side int

const (
	// Lower is the first node of every line.
	Lower Side = iota
	// Upper is the last node of every line.
	Upper
)

// String implements fmt.Stringer.
func (s Side) String() string {
	switch s {
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Condition acts on the edge nodes of one side of one direction.
//
// Per step the schemes call SetTime, then ApplyBeforeApplying before an
// explicit operator evaluation and ApplyAfterApplying after it,
// ApplyBeforeSolving before an implicit solve and ApplyAfterSolving after it.
type Condition interface {
	Direction() int
	Side() Side
	SetTime(t float64)
	ApplyBeforeApplying(op operator.Composite)
	ApplyBeforeSolving(op operator.Composite, rhs []float64)
	ApplyAfterApplying(v []float64)
	ApplyAfterSolving(v []float64)
}

// edge holds the flat indices of one side of one direction together with
// the first and second interior neighbours of each edge node.
type edge struct {
	direction int
	side      Side
	nodes     []int
	inner1    []int
	inner2    []int
	h1, h2    []float64 // |x(inner1)-x(node)|, |x(inner2)-x(inner1)|
}

func newEdge(m *mesher.Composite, d int, side Side) (edge, error) {
	if err := m.ValidDirection(d); err != nil {
		return edge{}, fmt.Errorf("direction %d: %w", d, ErrDirection)
	}
	if side != Lower && side != Upper {
		return edge{}, fmt.Errorf("%v: %w", side, ErrSide)
	}
	l := m.Layout()
	dim := l.Dim(d)
	target, step := 0, 1
	if side == Upper {
		target, step = dim-1, -1
	}
	e := edge{direction: d, side: side}
	for i := 0; i < l.Size(); i++ {
		if l.Coordinate(i, d) != target {
			continue
		}
		n1 := l.Neighbourhood(i, d, step)
		n2 := l.Neighbourhood(i, d, 2*step)
		e.nodes = append(e.nodes, i)
		e.inner1 = append(e.inner1, n1)
		e.inner2 = append(e.inner2, n2)
		e.h1 = append(e.h1, abs(m.Location(n1, d)-m.Location(i, d)))
		e.h2 = append(e.h2, abs(m.Location(n2, d)-m.Location(n1, d)))
	}

	return e, nil
}

// Direction implements Condition.
func (e *edge) Direction() int { return e.direction }

// Side implements Condition.
func (e *edge) Side() Side { return e.side }

// Nodes returns the flat indices the condition acts on.
func (e *edge) Nodes() []int { return append([]int(nil), e.nodes...) }

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}
