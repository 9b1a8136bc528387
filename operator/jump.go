// SPDX-License-Identifier: MIT

package operator

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/lvfdm/matrix"
	"github.com/katalvlaran/lvfdm/mesher"
	"gonum.org/v1/gonum/integrate/quad"
)

// DefaultJumpNodes is the Gauss-Legendre order of the jump integral.
const DefaultJumpNodes = 32

// JumpIntegral discretises, along direction d,
//
//	(J V)(y) = ∫_0^∞ (V(y+j) - V(y)) η e^{-ηj} dj
//
// for exponentially distributed jumps. The integral is truncated at the last
// node; the tail mass e^{-η(yMax-y)} sees the boundary value. V between
// nodes is linearly interpolated. The weights depend only on the mesh and
// are assembled once.
type JumpIntegral struct {
	w *matrix.Sparse
}

// NewJumpIntegral assembles the jump integral with the given quadrature order.
func NewJumpIntegral(m *mesher.Composite, d int, eta float64, nodes int) (*JumpIntegral, error) {
	if err := m.ValidDirection(d); err != nil {
		return nil, fmt.Errorf("NewJumpIntegral: %w", ErrDirection)
	}
	if !(eta > 0) || math.IsInf(eta, 0) || nodes < 1 {
		return nil, fmt.Errorf("NewJumpIntegral eta=%g nodes=%d: %w", eta, nodes, ErrBadParameter)
	}
	m1, _ := m.Mesher(d)
	ys := m1.Locations()
	l := m.Layout()
	dim, stride := l.Dim(d), l.Spacing(d)
	yMax := ys[dim-1]

	xs := make([]float64, nodes)
	ws := make([]float64, nodes)
	tr, err := matrix.NewTriplets(l.Size(), l.Size())
	if err != nil {
		return nil, fmt.Errorf("NewJumpIntegral: %w", err)
	}
	for i := 0; i < l.Size(); i++ {
		c := l.Coordinate(i, d)
		if c == dim-1 {
			continue
		}
		start := i - c*stride
		node := func(k int) int { return start + k*stride }
		span := yMax - ys[c]

		quad.Legendre{}.FixedLocations(xs, ws, 0, span)
		for q, j := range xs {
			weight := ws[q] * eta * math.Exp(-eta*j)
			y := ys[c] + j
			k := sort.SearchFloat64s(ys, y)
			switch {
			case k == 0:
				_ = tr.Append(i, node(0), weight)
			case k >= dim:
				_ = tr.Append(i, node(dim-1), weight)
			default:
				h := (y - ys[k-1]) / (ys[k] - ys[k-1])
				_ = tr.Append(i, node(k-1), weight*(1-h))
				_ = tr.Append(i, node(k), weight*h)
			}
		}
		_ = tr.Append(i, node(dim-1), math.Exp(-eta*span))
		_ = tr.Append(i, i, -1)
	}

	return &JumpIntegral{w: tr.Build()}, nil
}

// Apply implements LinearOp.
func (j *JumpIntegral) Apply(r []float64) []float64 {
	out := make([]float64, len(r))
	_ = j.w.MulVec(out, r)

	return out
}

// ToMatrix implements LinearOp.
func (j *JumpIntegral) ToMatrix() *matrix.Sparse { return j.w.Clone() }
