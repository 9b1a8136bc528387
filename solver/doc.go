// SPDX-License-Identifier: MIT

// Package solver drives backward time stepping.
//
// TimeGrid is the strictly increasing grid 0 = t0 < … < tN that contains
// every mandatory time exactly. Backward rolls a value array back through
// it with a scheme.Scheme and applies step conditions at the grid times
// they are bound to. Solver wraps the whole pipeline for one pricing:
// it is lazy (Dirty until Recompute), interpolates the t = 0 slice with
// monotone cubics and derives delta, gamma and theta from it.
//
// Logging goes through log/slog (WithLogger); solves are reported to a
// metrics.Collector when one is given (WithMetrics).
package solver
