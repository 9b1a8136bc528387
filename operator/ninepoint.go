// SPDX-License-Identifier: MIT

package operator

import (
	"github.com/katalvlaran/lvfdm/matrix"
	"github.com/katalvlaran/lvfdm/mesher"
)

// NinePoint is a 3×3 stencil across two directions. Entry 3*j+k couples a
// node with its neighbour at offset (j-1, k-1) along (d0, d1); offsets past
// the edge are reflected and carry zero weight in the derivative stencils.
type NinePoint struct {
	d0, d1 int
	idx    [9][]int
	a      [9][]float64
}

func newNinePoint(d0, d1 int, m *mesher.Composite) *NinePoint {
	l := m.Layout()
	n := l.Size()
	np := &NinePoint{d0: d0, d1: d1}
	for s := 0; s < 9; s++ {
		np.idx[s] = make([]int, n)
		np.a[s] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				np.idx[3*j+k][i] = l.Neighbourhood2(i, d0, j-1, d1, k-1)
			}
		}
	}

	return np
}

// Directions returns the two directions the stencil spans.
func (np *NinePoint) Directions() (int, int) { return np.d0, np.d1 }

// Apply implements LinearOp.
func (np *NinePoint) Apply(r []float64) []float64 {
	out := make([]float64, len(r))
	for s := 0; s < 9; s++ {
		a, idx := np.a[s], np.idx[s]
		for i := range out {
			out[i] += a[i] * r[idx[i]]
		}
	}

	return out
}

// Mult returns diag(u)·N. u has length 1 or Size().
func (np *NinePoint) Mult(u []float64) *NinePoint {
	c := &NinePoint{d0: np.d0, d1: np.d1, idx: np.idx}
	for s := 0; s < 9; s++ {
		c.a[s] = make([]float64, len(np.a[s]))
		for i, v := range np.a[s] {
			c.a[s][i] = v * at(u, i)
		}
	}

	return c
}

// ToMatrix implements LinearOp.
func (np *NinePoint) ToMatrix() *matrix.Sparse {
	n := len(np.a[0])
	tr, _ := matrix.NewTriplets(n, n, matrix.WithNoValidateNaNInf())
	for s := 0; s < 9; s++ {
		for i := 0; i < n; i++ {
			_ = tr.Append(i, np.idx[s][i], np.a[s][i])
		}
	}

	return tr.Build()
}
