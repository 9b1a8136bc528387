// SPDX-License-Identifier: MIT

package solver

import (
	"log/slog"

	"github.com/katalvlaran/lvfdm/metrics"
	"github.com/katalvlaran/lvfdm/scheme"
)

// Option configures a Backward rollback or a Solver.
type Option func(*Options)

// Options holds the effective configuration.
type Options struct {
	logger     *slog.Logger
	metrics    *metrics.Collector
	schemeOpts []scheme.Option
}

// WithLogger sets the structured logger; nil restores slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithMetrics reports solves to c; nil disables reporting.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Options) { o.metrics = c }
}

// WithSchemeOptions forwards options to the schemes a Solver builds.
func WithSchemeOptions(opts ...scheme.Option) Option {
	return func(o *Options) { o.schemeOpts = append(o.schemeOpts, opts...) }
}

func gatherOptions(user ...Option) Options {
	var o Options
	for _, set := range user {
		set(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}
