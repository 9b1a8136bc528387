// SPDX-License-Identifier: MIT

package matrix

// IterationBudget exposes the automatic BiCGStab bound for tests.
func IterationBudget(n int, opts ...Option) int {
	return gatherOptions(opts...).iterationBudget(n)
}
