// SPDX-License-Identifier: MIT

package operator

// DefaultParallelism runs line solves on the calling goroutine.
const DefaultParallelism = 1

const panicParallelism = "operator: WithParallelism: n must be >= 1"

// Option configures operators built by this package.
type Option func(*Options)

// Options holds the effective operator configuration.
type Options struct {
	parallelism int
}

// WithParallelism bounds the number of goroutines solving independent lines
// inside one SolveSplitting call. Panics if n < 1.
func WithParallelism(n int) Option {
	if n < 1 {
		panic(panicParallelism)
	}

	return func(o *Options) { o.parallelism = n }
}

func gatherOptions(user ...Option) Options {
	o := Options{parallelism: DefaultParallelism}
	for _, set := range user {
		set(&o)
	}

	return o
}
