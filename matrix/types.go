// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by sparse storage and solvers.
package matrix

// Matrix represents a two-dimensional read-only array of float64 values.
//
// Complexity notes: Rows/Cols are O(1); At is O(log nnz(row)) for *Sparse.
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)
}

// LinearMap is a matrix-free linear operator y = A(x).
// Implementations must not retain or mutate x.
type LinearMap func(x []float64) ([]float64, error)
