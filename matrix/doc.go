// SPDX-License-Identifier: MIT

// Package matrix offers the linear-algebra kernels behind the finite-difference
// operators of lvfdm.
//
// The matrix package provides:
//
//   - Triplets / Sparse: coordinate assembly compressed into CSR storage, the
//     explicit representation returned by operator ToMatrix methods.
//   - SolveTridiagonal: the Thomas algorithm, the exact O(n) solve behind
//     every directional implicit step.
//   - BiCGStab: a matrix-free, optionally preconditioned Krylov solver used
//     when a fully implicit multi-dimensional step is requested.
//   - MatVec and validators shared by the kernels above.
//
// Errors are package sentinels (ErrDimensionMismatch, ErrSingular,
// ErrNotConverged, ...) wrapped with an operation tag; match them with
// errors.Is.
//
// Sparse.Dense bridges to gonum/mat for reference solves on small systems.
package matrix
