// SPDX-License-Identifier: MIT

// Package scheme implements the time-stepping schemes that roll a value
// array backwards through one step of a pricing PDE
//
//	∂u/∂t + L(t) u = 0,
//
// where L is an operator.Composite. The schemes are:
//
//   - ExplicitEuler, ImplicitEuler and the θ-weighted CrankNicolson;
//   - the ADI family Douglas, CraigSneyd, ModifiedCraigSneyd, Hundsdorfer
//     and ModifiedHundsdorfer, which treat mixed-derivative terms
//     explicitly and every direction implicitly with one tridiagonal solve
//     per mesh line.
//
// Boundary conditions from a boundary.Set are applied at the fixed hook
// points of every step. A Desc selects a scheme and its weights; New builds
// it. Desc values for the literature weights are exported as variables.
package scheme
