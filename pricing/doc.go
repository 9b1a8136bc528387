// SPDX-License-Identifier: MIT

// Package pricing prices vanilla, barrier and bond options with the
// finite-difference stack.
//
// Each engine turns a model into a discretised problem (mesher, operator,
// boundary set, payoff mapping) and hands it to solver.Solver:
//
//	BlackScholesEngine       ln S mesh, local volatility, Douglas
//	BarrierEngine            ln S mesh ending on the barrier, Dirichlet rebate, Douglas
//	CEVEngine                forward mesh, dF = α F^β dW, Hundsdorfer
//	HestonEngine             (ln S, v) mesh, optional leverage, Hundsdorfer
//	OrnsteinUhlenbeckEngine  state mesh, mean reverting, Hundsdorfer
//	ExtOUJumpEngine          (x, y) mesh, S = exp(x+y) with decaying jumps, Hundsdorfer
//	HullWhiteEngine          short-rate mesh, zero bonds and bond options, Hundsdorfer
//
// Terminal values are cell averaged around the strike kink. Knock-ins are
// vanilla minus knock-out plus a rebate leg. American and
// Bermudan exercise become step conditions; Bermudan dates are forced into
// the time grid. Results carry value, delta, gamma and theta; Quote rounds
// them with shopspring/decimal for reporting.
//
// BlackScholes is the closed form used for validation.
package pricing
