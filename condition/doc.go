// SPDX-License-Identifier: MIT

// Package condition holds what happens to a value array between steps of a
// backward rollback: payoffs and their inner values on a mesh, and step
// conditions such as early exercise, discrete barriers, timed transforms and
// snapshots.
//
// A StepCondition is applied after every step at the new grid time.
// Conditions bound to specific times implement Stopper; the rollback grid
// must contain all of their stopping times exactly.
package condition
