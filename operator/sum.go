// SPDX-License-Identifier: MIT

package operator

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvfdm/matrix"
	"github.com/katalvlaran/lvfdm/mesher"
	"gonum.org/v1/gonum/floats"
)

type termKind int

const (
	bandTerm termKind = iota
	zeroOrderTerm
	mixedTerm
)

// term is one named summand: coeff(t1,t2) ⊙ op.
type term struct {
	name      string
	kind      termKind
	direction int
	stencil   *TripleBand // bandTerm
	op        LinearOp    // mixedTerm
	coeff     CoefficientFunc
	value     []float64 // coefficient from the last SetTime
}

// Sum is a Composite assembled from named terms:
//
//   - band terms: coeff ⊙ (∂ or ∂²) along one direction,
//   - zero-order terms: coeff ⊙ I, attached to one direction for splitting,
//   - mixed terms: coeff ⊙ op for any LinearOp, always treated explicitly.
//
// SetTime evaluates every coefficient and folds the band and zero-order
// terms of each direction into one TripleBand, so directional applies and
// solves cost O(Size()) regardless of the number of terms. Before the first
// SetTime the folded operators are zero and SolveSplitting fails with
// ErrTimeNotSet.
//
// A Sum is not safe for concurrent use.
type Sum struct {
	mesh    *mesher.Composite
	terms   []*term
	names   map[string]struct{}
	bands   []*TripleBand // folded per direction; nil when a direction has no terms
	timeSet bool
	t1, t2  float64
	opts    Options
}

// NewSum returns an empty composite over m.
func NewSum(m *mesher.Composite, opts ...Option) *Sum {
	return &Sum{
		mesh:  m,
		names: make(map[string]struct{}),
		bands: make([]*TripleBand, m.Dims()),
		opts:  gatherOptions(opts...),
	}
}

// Mesher returns the mesh the composite acts on.
func (s *Sum) Mesher() *mesher.Composite { return s.mesh }

// Terms returns the term names in registration order.
func (s *Sum) Terms() []string {
	out := make([]string, len(s.terms))
	for i, t := range s.terms {
		out[i] = t.name
	}

	return out
}

func (s *Sum) register(t *term) error {
	if _, dup := s.names[t.name]; dup {
		return fmt.Errorf("term %q: %w", t.name, ErrDuplicateTerm)
	}
	if t.coeff == nil {
		t.coeff = Constant(1)
	}
	s.names[t.name] = struct{}{}
	s.terms = append(s.terms, t)
	if t.kind != mixedTerm && s.bands[t.direction] == nil {
		zero, err := NewTripleBand(t.direction, s.mesh, s.bandOptions()...)
		if err != nil {
			return err
		}
		s.bands[t.direction] = zero
	}

	return nil
}

func (s *Sum) bandOptions() []Option {
	return []Option{WithParallelism(s.opts.parallelism)}
}

// AddBand registers coeff ⊙ stencil along direction d. A nil coeff is 1.
func (s *Sum) AddBand(name string, d int, stencil Stencil, coeff CoefficientFunc) error {
	if err := s.mesh.ValidDirection(d); err != nil {
		return fmt.Errorf("AddBand(%q): %w", name, ErrDirection)
	}
	band, err := NewStencil(stencil, d, s.mesh, s.bandOptions()...)
	if err != nil {
		return fmt.Errorf("AddBand(%q): %w", name, err)
	}
	if err = s.register(&term{name: name, kind: bandTerm, direction: d, stencil: band, coeff: coeff}); err != nil {
		return fmt.Errorf("AddBand: %w", err)
	}

	return nil
}

// AddZeroOrder registers coeff ⊙ I, split into direction d.
func (s *Sum) AddZeroOrder(name string, d int, coeff CoefficientFunc) error {
	if err := s.mesh.ValidDirection(d); err != nil {
		return fmt.Errorf("AddZeroOrder(%q): %w", name, ErrDirection)
	}
	if err := s.register(&term{name: name, kind: zeroOrderTerm, direction: d, coeff: coeff}); err != nil {
		return fmt.Errorf("AddZeroOrder: %w", err)
	}

	return nil
}

// AddMixed registers coeff ⊙ op as part of the explicit mixed operator.
// One-dimensional composites carry no mixed part and reject it.
func (s *Sum) AddMixed(name string, op LinearOp, coeff CoefficientFunc) error {
	if op == nil {
		return fmt.Errorf("AddMixed(%q): %w", name, ErrMismatch)
	}
	if s.mesh.Dims() < 2 {
		return fmt.Errorf("AddMixed(%q): %d dims: %w", name, s.mesh.Dims(), ErrDirection)
	}
	if err := s.register(&term{name: name, kind: mixedTerm, direction: -1, op: op, coeff: coeff}); err != nil {
		return fmt.Errorf("AddMixed: %w", err)
	}

	return nil
}

// Size implements Composite.
func (s *Sum) Size() int { return s.mesh.Dims() }

// SetTime implements Composite. On error the previous coefficients stay in
// effect.
func (s *Sum) SetTime(t1, t2 float64) error {
	n := s.mesh.Size()
	values := make([][]float64, len(s.terms))
	for k, t := range s.terms {
		v, err := t.coeff(t1, t2)
		if err != nil {
			return fmt.Errorf("SetTime term %q: %w", t.name, err)
		}
		if len(v) != 1 && len(v) != n {
			return fmt.Errorf("SetTime term %q: len %d, size %d: %w", t.name, len(v), n, ErrCoefficientLength)
		}
		for i, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("SetTime term %q node %d at [%g, %g]: %w", t.name, i, t1, t2, ErrNonFinite)
			}
		}
		values[k] = v
	}

	folded := make([]*TripleBand, len(s.bands))
	for d, b := range s.bands {
		if b != nil {
			folded[d], _ = NewTripleBand(d, s.mesh, s.bandOptions()...)
		}
	}
	for k, t := range s.terms {
		switch t.kind {
		case bandTerm:
			acc := folded[t.direction]
			if err := acc.Axpyb(values[k], t.stencil, acc, nil); err != nil {
				return fmt.Errorf("SetTime term %q: %w", t.name, err)
			}
		case zeroOrderTerm:
			acc := folded[t.direction]
			if err := acc.Axpyb(nil, nil, acc, values[k]); err != nil {
				return fmt.Errorf("SetTime term %q: %w", t.name, err)
			}
		}
	}
	for k, t := range s.terms {
		t.value = values[k]
	}
	s.bands = folded
	s.t1, s.t2, s.timeSet = t1, t2, true

	return nil
}

// Time returns the interval of the last successful SetTime.
func (s *Sum) Time() (t1, t2 float64, ok bool) { return s.t1, s.t2, s.timeSet }

// Apply implements LinearOp.
func (s *Sum) Apply(r []float64) []float64 {
	out := s.ApplyMixed(r)
	for _, b := range s.bands {
		if b != nil {
			floats.Add(out, b.Apply(r))
		}
	}

	return out
}

// ApplyMixed implements Composite. It is the zero vector when no mixed
// terms are registered, in particular for one-dimensional composites built
// from band and zero-order terms only.
func (s *Sum) ApplyMixed(r []float64) []float64 {
	out := make([]float64, len(r))
	for _, t := range s.terms {
		if t.kind != mixedTerm || t.value == nil {
			continue
		}
		v := t.op.Apply(r)
		for i := range out {
			out[i] += at(t.value, i) * v[i]
		}
	}

	return out
}

// ApplyDirection implements Composite. Directions without terms, and
// directions out of range, contribute zero.
func (s *Sum) ApplyDirection(d int, r []float64) []float64 {
	if d < 0 || d >= len(s.bands) || s.bands[d] == nil {
		return make([]float64, len(r))
	}

	return s.bands[d].Apply(r)
}

// SolveSplitting implements Composite. A direction without terms returns a
// copy of r, the exact solution of I·x = r.
func (s *Sum) SolveSplitting(d int, r []float64, a float64) ([]float64, error) {
	if !s.timeSet {
		return nil, fmt.Errorf("SolveSplitting(%d): %w", d, ErrTimeNotSet)
	}
	if d < 0 || d >= len(s.bands) {
		return nil, fmt.Errorf("SolveSplitting(%d): %w", d, ErrDirection)
	}
	if s.bands[d] == nil {
		return append([]float64(nil), r...), nil
	}
	x, err := s.bands[d].SolveSplitting(r, -a, 1)
	if err != nil {
		return nil, fmt.Errorf("SolveSplitting(%d): %w", d, err)
	}

	return x, nil
}

// Preconditioner implements Composite by the direction-0 splitting solve.
func (s *Sum) Preconditioner(r []float64, dt float64) ([]float64, error) {
	return s.SolveSplitting(0, r, dt)
}

// ToMatrixDecomp implements Composite: one matrix per direction (zero for a
// direction without terms) followed by one per mixed term.
func (s *Sum) ToMatrixDecomp() []*matrix.Sparse {
	n := s.mesh.Size()
	out := make([]*matrix.Sparse, 0, len(s.bands)+1)
	for _, b := range s.bands {
		if b == nil {
			tr, _ := matrix.NewTriplets(n, n)
			out = append(out, tr.Build())

			continue
		}
		out = append(out, b.ToMatrix())
	}
	for _, t := range s.terms {
		if t.kind != mixedTerm || t.value == nil {
			continue
		}
		out = append(out, scaleRows(t.op.ToMatrix(), t.value))
	}

	return out
}

// ToMatrix implements LinearOp as the sum of ToMatrixDecomp.
func (s *Sum) ToMatrix() *matrix.Sparse {
	parts := s.ToMatrixDecomp()
	acc := parts[0]
	for _, p := range parts[1:] {
		acc, _ = acc.Add(p)
	}

	return acc
}

// scaleRows returns diag(u)·m.
func scaleRows(m *matrix.Sparse, u []float64) *matrix.Sparse {
	tr, _ := matrix.NewTriplets(m.Rows(), m.Cols(), matrix.WithNoValidateNaNInf())
	m.Each(func(i, j int, v float64) {
		_ = tr.Append(i, j, at(u, i)*v)
	})

	return tr.Build()
}
