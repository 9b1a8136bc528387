// SPDX-License-Identifier: MIT
// Package matrix provides the direct and iterative kernels used by the
// finite-difference layer: matrix-vector products, the Thomas algorithm for
// tridiagonal systems and a preconditioned BiCGStab.
//
// Notes:
//   - All kernels validate through validators.go and return sentinels wrapped
//     with an operation tag via matrixErrorf.
//   - Vector arithmetic is delegated to gonum/floats.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Operation name constants for unified error wrapping.
const (
	opMatVec      = "MatVec"
	opTridiagonal = "SolveTridiagonal"
	opBiCGStab    = "BiCGStab"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; x non-nil; len(x) == m.Cols().
// Fast-path: *Sparse walks its stored entries only.
// Complexity: O(nnz) for *Sparse, O(r*c) otherwise.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.Rows())

	if s, ok := m.(*Sparse); ok {
		if err := s.MulVec(y, x); err != nil {
			return nil, matrixErrorf(opMatVec, err)
		}

		return y, nil
	}

	var mv float64
	var err error
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// SolveTridiagonal solves the system
//
//	lower[i]*x[i-1] + diag[i]*x[i] + upper[i]*x[i+1] = rhs[i]
//
// with the Thomas algorithm and writes x into dst. lower[0] and upper[n-1]
// are ignored. scratch must have length n (it receives the modified upper
// diagonal); pass nil to allocate.
//
// Errors:
//   - ErrDimensionMismatch if slice lengths differ.
//   - ErrSingular on a zero pivot (no pivoting is performed).
//
// Complexity: Time O(n), Space O(1) beyond scratch.
func SolveTridiagonal(lower, diag, upper, rhs, dst, scratch []float64) error {
	n := len(diag)
	if len(lower) != n || len(upper) != n || len(rhs) != n || len(dst) != n {
		return matrixErrorf(opTridiagonal, ErrDimensionMismatch)
	}
	if n == 0 {
		return nil
	}
	if scratch == nil {
		scratch = make([]float64, n)
	} else if len(scratch) != n {
		return matrixErrorf(opTridiagonal, ErrDimensionMismatch)
	}

	// Forward elimination.
	bet := diag[0]
	if bet == 0 {
		return matrixErrorf(opTridiagonal, fmt.Errorf("pivot 0: %w", ErrSingular))
	}
	dst[0] = rhs[0] / bet
	for i := 1; i < n; i++ {
		scratch[i] = upper[i-1] / bet
		bet = diag[i] - lower[i]*scratch[i]
		if bet == 0 || math.IsNaN(bet) {
			return matrixErrorf(opTridiagonal, fmt.Errorf("pivot %d: %w", i, ErrSingular))
		}
		dst[i] = (rhs[i] - lower[i]*dst[i-1]) / bet
	}

	// Back substitution.
	for i := n - 2; i >= 0; i-- {
		dst[i] -= scratch[i+1] * dst[i+1]
	}

	return nil
}

// BiCGStabResult reports the outcome of an iterative solve.
type BiCGStabResult struct {
	X          []float64 // solution
	Iterations int       // iterations performed
	Error      float64   // final relative residual ||r||/||b||
}

// BiCGStab solves A x = b with the stabilized bi-conjugate gradient method.
//
// Implementation:
//   - Stage 1: r = b - A x0, shadow residual r~ = r.
//   - Stage 2: iterate with optional right preconditioner M until
//     ||r||/||b|| < tol or the iteration budget is spent.
//
// Inputs:
//   - a: the system operator (required).
//   - b: right-hand side.
//   - x0: initial guess; nil starts from zero.
//   - m: preconditioner approximating A^{-1}; nil for none.
//   - opts: WithTolerance, WithMaxIterations.
//
// Errors:
//   - ErrNilMatrix if a or b is nil; ErrDimensionMismatch if len(x0) != len(b).
//   - ErrNotConverged on breakdown or exhausted budget (result still carries
//     the last iterate).
//   - Any error returned by a or m, wrapped.
func BiCGStab(a LinearMap, b, x0 []float64, m LinearMap, opts ...Option) (BiCGStabResult, error) {
	if a == nil || b == nil {
		return BiCGStabResult{}, matrixErrorf(opBiCGStab, ErrNilMatrix)
	}
	n := len(b)
	if x0 != nil && len(x0) != n {
		return BiCGStabResult{}, matrixErrorf(opBiCGStab, ErrDimensionMismatch)
	}
	o := gatherOptions(opts...)
	precond := func(v []float64) ([]float64, error) {
		if m == nil {
			return append([]float64(nil), v...), nil
		}

		return m(v)
	}

	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		return BiCGStabResult{X: make([]float64, n)}, nil
	}

	x := make([]float64, n)
	if x0 != nil {
		copy(x, x0)
	}
	ax, err := a(x)
	if err != nil {
		return BiCGStabResult{}, matrixErrorf(opBiCGStab, err)
	}
	r := floats.SubTo(make([]float64, n), b, ax)
	rTld := append([]float64(nil), r...)
	p := make([]float64, n)
	v := make([]float64, n)
	s := make([]float64, n)

	omega, alpha, rhoTld := 1.0, 0.0, 1.0
	relErr := floats.Norm(r, 2) / bnorm
	budget := o.iterationBudget(n)

	var i int
	for i = 0; i < budget && relErr >= o.relTol; i++ {
		rho := floats.Dot(rTld, r)
		if rho == 0 || omega == 0 {
			break
		}
		if i != 0 {
			beta := (rho / rhoTld) * (alpha / omega)
			// p = r + beta*(p - omega*v)
			floats.AddScaled(p, -omega, v)
			floats.Scale(beta, p)
			floats.Add(p, r)
		} else {
			copy(p, r)
		}
		pTld, err := precond(p)
		if err != nil {
			return BiCGStabResult{}, matrixErrorf(opBiCGStab, err)
		}
		if v, err = a(pTld); err != nil {
			return BiCGStabResult{}, matrixErrorf(opBiCGStab, err)
		}
		alpha = rho / floats.Dot(rTld, v)
		floats.AddScaledTo(s, r, -alpha, v)
		if floats.Norm(s, 2) < o.relTol*bnorm {
			floats.AddScaled(x, alpha, pTld)
			relErr = floats.Norm(s, 2) / bnorm
			i++

			break
		}
		sTld, err := precond(s)
		if err != nil {
			return BiCGStabResult{}, matrixErrorf(opBiCGStab, err)
		}
		t, err := a(sTld)
		if err != nil {
			return BiCGStabResult{}, matrixErrorf(opBiCGStab, err)
		}
		omega = floats.Dot(t, s) / floats.Dot(t, t)
		floats.AddScaled(x, alpha, pTld)
		floats.AddScaled(x, omega, sTld)
		floats.AddScaledTo(r, s, -omega, t)
		relErr = floats.Norm(r, 2) / bnorm
		rhoTld = rho
	}

	res := BiCGStabResult{X: x, Iterations: i, Error: relErr}
	if relErr >= o.relTol || math.IsNaN(relErr) {
		return res, matrixErrorf(opBiCGStab,
			fmt.Errorf("residual %.3g after %d iterations: %w", relErr, i, ErrNotConverged))
	}

	return res, nil
}
