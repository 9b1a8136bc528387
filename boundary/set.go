// SPDX-License-Identifier: MIT

package boundary

import (
	"fmt"

	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/operator"
)

// Set is an insertion-ordered collection of conditions, at most one per
// (direction, side). A nil *Set is a valid empty set.
type Set struct {
	conds []Condition
}

// NewSet validates conds against m and returns them as a set.
//
// Errors:
//   - ErrDirection if a condition's direction is outside m.
//   - ErrConflict if two conditions share direction and side, or if two
//     constant Dirichlet conditions pin a shared corner node to different
//     values. Other corner overlaps resolve in insertion order.
func NewSet(m *mesher.Composite, conds ...Condition) (*Set, error) {
	type key struct {
		d int
		s Side
	}
	seen := make(map[key]int, len(conds))
	for k, c := range conds {
		if c == nil {
			return nil, fmt.Errorf("NewSet: condition %d is nil: %w", k, ErrConflict)
		}
		if err := m.ValidDirection(c.Direction()); err != nil {
			return nil, fmt.Errorf("NewSet: condition %d: %w", k, ErrDirection)
		}
		id := key{c.Direction(), c.Side()}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("NewSet: conditions %d and %d on direction %d %v side: %w",
				prev, k, id.d, id.s, ErrConflict)
		}
		seen[id] = k
	}
	if err := checkCorners(conds); err != nil {
		return nil, fmt.Errorf("NewSet: %w", err)
	}

	return &Set{conds: append([]Condition(nil), conds...)}, nil
}

// Len returns the number of conditions.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.conds)
}

// Conditions returns the conditions in insertion order.
func (s *Set) Conditions() []Condition {
	if s == nil {
		return nil
	}

	return append([]Condition(nil), s.conds...)
}

// SetTime forwards t to every condition.
func (s *Set) SetTime(t float64) {
	for _, c := range s.list() {
		c.SetTime(t)
	}
}

// ApplyBeforeApplying runs before an explicit operator evaluation.
func (s *Set) ApplyBeforeApplying(op operator.Composite) {
	for _, c := range s.list() {
		c.ApplyBeforeApplying(op)
	}
}

// ApplyBeforeSolving runs before an implicit solve.
func (s *Set) ApplyBeforeSolving(op operator.Composite, rhs []float64) {
	for _, c := range s.list() {
		c.ApplyBeforeSolving(op, rhs)
	}
}

// ApplyAfterApplying runs after an explicit operator evaluation.
func (s *Set) ApplyAfterApplying(v []float64) {
	for _, c := range s.list() {
		c.ApplyAfterApplying(v)
	}
}

// ApplyAfterSolving runs after an implicit solve.
func (s *Set) ApplyAfterSolving(v []float64) {
	for _, c := range s.list() {
		c.ApplyAfterSolving(v)
	}
}

func (s *Set) list() []Condition {
	if s == nil {
		return nil
	}

	return s.conds
}

// checkCorners reports constant Dirichlet pairs that disagree on a shared node.
func checkCorners(conds []Condition) error {
	pinned := make(map[int]int)
	for k, c := range conds {
		dc, ok := c.(*Dirichlet)
		if !ok {
			continue
		}
		for _, i := range dc.nodes {
			prev, dup := pinned[i]
			if !dup {
				pinned[i] = k
				continue
			}
			if other := conds[prev].(*Dirichlet); other.value != dc.value {
				return fmt.Errorf("conditions %d and %d pin node %d to %g and %g: %w",
					prev, k, i, other.value, dc.value, ErrConflict)
			}
		}
	}

	return nil
}
