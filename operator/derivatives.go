// SPDX-License-Identifier: MIT

package operator

import (
	"fmt"

	"github.com/katalvlaran/lvfdm/mesher"
)

// firstDerivativeWeights returns the (lower, diag, upper) weights of ∂/∂x at
// a node with backward spacing hm and forward spacing hp. Edge nodes use the
// one-sided difference towards the interior.
func firstDerivativeWeights(c, n int, hm, hp float64) (float64, float64, float64) {
	switch {
	case c == 0:
		return 0, -1 / hp, 1 / hp
	case c == n-1:
		return -1 / hm, 1 / hm, 0
	default:
		return -hp / (hm * (hm + hp)), (hp - hm) / (hm * hp), hm / (hp * (hm + hp))
	}
}

// secondDerivativeWeights returns the weights of ∂²/∂x²; edge rows are zero.
func secondDerivativeWeights(c, n int, hm, hp float64) (float64, float64, float64) {
	if c == 0 || c == n-1 {
		return 0, 0, 0
	}

	return 2 / (hm * (hm + hp)), -2 / (hm * hp), 2 / (hp * (hm + hp))
}

type weightsFunc func(c, n int, hm, hp float64) (float64, float64, float64)

func newDerivative(tag string, d int, m *mesher.Composite, w weightsFunc, opts ...Option) (*TripleBand, error) {
	t, err := NewTripleBand(d, m, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	l := m.Layout()
	n := l.Dim(d)
	for i := range t.diag {
		t.lower[i], t.diag[i], t.upper[i] = w(l.Coordinate(i, d), n, m.Dminus(i, d), m.Dplus(i, d))
	}

	return t, nil
}

// NewFirstDerivative returns the non-uniform central difference ∂/∂x along d.
// The first and last node of every line use one-sided differences.
func NewFirstDerivative(d int, m *mesher.Composite, opts ...Option) (*TripleBand, error) {
	return newDerivative("NewFirstDerivative", d, m, firstDerivativeWeights, opts...)
}

// NewSecondDerivative returns the non-uniform central difference ∂²/∂x²
// along d, with zero rows on the edge nodes.
func NewSecondDerivative(d int, m *mesher.Composite, opts ...Option) (*TripleBand, error) {
	return newDerivative("NewSecondDerivative", d, m, secondDerivativeWeights, opts...)
}

// NewStencil dispatches on s.
func NewStencil(s Stencil, d int, m *mesher.Composite, opts ...Option) (*TripleBand, error) {
	switch s {
	case FirstDerivative:
		return NewFirstDerivative(d, m, opts...)
	case SecondDerivative:
		return NewSecondDerivative(d, m, opts...)
	default:
		return nil, fmt.Errorf("NewStencil(%d): %w", int(s), ErrBadParameter)
	}
}

// NewMixedDerivative returns ∂²/∂x∂y across directions d0 and d1 as the
// tensor product of the two first-derivative stencils, so edges and corners
// inherit their one-sided differences.
func NewMixedDerivative(d0, d1 int, m *mesher.Composite) (*NinePoint, error) {
	if err := m.ValidDirection(d0); err != nil {
		return nil, fmt.Errorf("NewMixedDerivative: %w", ErrDirection)
	}
	if err := m.ValidDirection(d1); err != nil || d0 == d1 {
		return nil, fmt.Errorf("NewMixedDerivative(%d,%d): %w", d0, d1, ErrDirection)
	}
	l := m.Layout()
	np := newNinePoint(d0, d1, m)
	n0, n1 := l.Dim(d0), l.Dim(d1)
	for i := 0; i < l.Size(); i++ {
		a0, b0, c0 := firstDerivativeWeights(l.Coordinate(i, d0), n0, m.Dminus(i, d0), m.Dplus(i, d0))
		a1, b1, c1 := firstDerivativeWeights(l.Coordinate(i, d1), n1, m.Dminus(i, d1), m.Dplus(i, d1))
		w0 := [3]float64{a0, b0, c0}
		w1 := [3]float64{a1, b1, c1}
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				np.a[3*j+k][i] = w0[j] * w1[k]
			}
		}
	}

	return np, nil
}
