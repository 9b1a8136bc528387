// SPDX-License-Identifier: MIT

package pricing

import (
	"log/slog"

	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/metrics"
	"github.com/katalvlaran/lvfdm/scheme"
)

// Engine defaults.
const (
	// DefaultXGrid is the node count along the underlying.
	DefaultXGrid = 200
	// DefaultVGrid is the node count along the variance of 2-D models.
	DefaultVGrid = 50
	// DefaultTimeSteps is the number of rollback steps.
	DefaultTimeSteps = 100
	// DefaultDampingSteps is the number of implicit Euler steps at maturity.
	DefaultDampingSteps = 0
	// DefaultStrikeDensity is the relative mesh concentration at the strike.
	DefaultStrikeDensity = 0.1
)

const (
	panicGrid         = "pricing: WithGrid: sizes must be >= 3"
	panicTimeSteps    = "pricing: WithTimeSteps: steps must be >= 1"
	panicDampingSteps = "pricing: WithDampingSteps: steps must be >= 0"
	panicParallelism  = "pricing: WithParallelism: n must be >= 1"
)

// Option configures an engine.
type Option func(*Options)

// Options is the effective engine configuration.
type Options struct {
	xGrid, vGrid  int
	timeSteps     int
	dampingSteps  int
	scheme        *scheme.Desc // nil = engine default
	meshOpts      []mesher.Option
	strikeDensity float64
	parallelism   int
	logger        *slog.Logger
	metrics       *metrics.Collector
}

// WithGrid sets the node counts along the underlying and, for 2-D models,
// the variance. Panics on sizes below 3.
func WithGrid(x, v int) Option {
	if x < 3 || v < 3 {
		panic(panicGrid)
	}

	return func(o *Options) { o.xGrid, o.vGrid = x, v }
}

// WithTimeSteps sets the number of rollback steps. Panics if steps < 1.
func WithTimeSteps(steps int) Option {
	if steps < 1 {
		panic(panicTimeSteps)
	}

	return func(o *Options) { o.timeSteps = steps }
}

// WithDampingSteps runs the first steps from maturity with implicit Euler.
// Panics if steps < 0.
func WithDampingSteps(steps int) Option {
	if steps < 0 {
		panic(panicDampingSteps)
	}

	return func(o *Options) { o.dampingSteps = steps }
}

// WithScheme overrides the engine's default stepping scheme.
func WithScheme(d scheme.Desc) Option {
	return func(o *Options) { o.scheme = &d }
}

// WithMesherOptions forwards domain options (eps, scale factor, bounds) to
// the underlying's mesher.
func WithMesherOptions(opts ...mesher.Option) Option {
	return func(o *Options) { o.meshOpts = append(o.meshOpts, opts...) }
}

// WithParallelism bounds the goroutines used for line solves.
// Panics if n < 1.
func WithParallelism(n int) Option {
	if n < 1 {
		panic(panicParallelism)
	}

	return func(o *Options) { o.parallelism = n }
}

// WithLogger sets the structured logger; nil restores slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithMetrics reports solves to c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Options) { o.metrics = c }
}

func gatherOptions(user ...Option) Options {
	o := Options{
		xGrid:         DefaultXGrid,
		vGrid:         DefaultVGrid,
		timeSteps:     DefaultTimeSteps,
		dampingSteps:  DefaultDampingSteps,
		strikeDensity: DefaultStrikeDensity,
		parallelism:   1,
	}
	for _, set := range user {
		set(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// schemeOr returns the configured scheme or def.
func (o Options) schemeOr(def scheme.Desc) scheme.Desc {
	if o.scheme != nil {
		return *o.scheme
	}

	return def
}
