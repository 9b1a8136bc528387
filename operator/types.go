// SPDX-License-Identifier: MIT

package operator

import "github.com/katalvlaran/lvfdm/matrix"

// LinearOp is a discretised linear operator acting on a value array indexed
// by the mesh layout. Apply is a pure matrix-vector product and allocates
// its result.
type LinearOp interface {
	Apply(r []float64) []float64
	ToMatrix() *matrix.Sparse
}

// Composite is a sum of linear operators that additionally knows how the sum
// splits by direction. For every r:
//
//	Σ_d ApplyDirection(d, r) + ApplyMixed(r) == Apply(r)
//
// SetTime must be called before each step; it refreshes time-dependent
// coefficients over [t1, t2].
type Composite interface {
	LinearOp

	// Size returns the number of spatial directions.
	Size() int
	SetTime(t1, t2 float64) error
	ApplyMixed(r []float64) []float64
	ApplyDirection(d int, r []float64) []float64
	// SolveSplitting solves (I - a·L_d) x = r exactly.
	SolveSplitting(d int, r []float64, a float64) ([]float64, error)
	// Preconditioner approximates (I - dt·L)^{-1} r.
	Preconditioner(r []float64, dt float64) ([]float64, error)
	ToMatrixDecomp() []*matrix.Sparse
}

// CoefficientFunc returns the coefficient of a term over [t1, t2]: either a
// single value (broadcast to every node) or one value per node.
type CoefficientFunc func(t1, t2 float64) ([]float64, error)

// Constant returns a CoefficientFunc yielding c at any time.
func Constant(c float64) CoefficientFunc {
	v := []float64{c}
	return func(_, _ float64) ([]float64, error) { return v, nil }
}

// Static returns a CoefficientFunc yielding the per-node vector c at any time.
// c is not copied and must not be modified afterwards.
func Static(c []float64) CoefficientFunc {
	return func(_, _ float64) ([]float64, error) { return c, nil }
}

// Stencil selects the derivative a band term discretises.
type Stencil int

const (
	// FirstDerivative is ∂/∂x (central inside, one-sided at the edges).
	FirstDerivative Stencil = iota
	// SecondDerivative is ∂²/∂x² (zero rows at the edges).
	SecondDerivative
)

// String implements fmt.Stringer.
func (s Stencil) String() string {
	switch s {
	case FirstDerivative:
		return "dx"
	case SecondDerivative:
		return "dxx"
	default:
		return "unknown"
	}
}
