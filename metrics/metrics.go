// SPDX-License-Identifier: MIT

// Package metrics instruments backward solves with Prometheus collectors.
//
// A Collector is registered once on a caller-supplied registry and shared by
// every solver that should report to it. A nil *Collector is a valid no-op,
// so instrumented code never branches on whether metrics are enabled.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lvfdm"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Collector holds the solve counters and histograms.
type Collector struct {
	// SolvesTotal counts solves. Labels: scheme, result.
	SolvesTotal *prometheus.CounterVec
	// SolveDuration measures wall time per solve. Labels: scheme.
	SolveDuration *prometheus.HistogramVec
	// TimeStepsTotal counts scheme steps taken. Labels: scheme.
	TimeStepsTotal *prometheus.CounterVec
}

// NewCollector creates the collectors and registers them on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		SolvesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Backward solves by scheme and result",
		}, []string{"scheme", "result"}),
		SolveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of a backward solve in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"scheme"}),
		TimeStepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "time_steps_total",
			Help:      "Scheme steps taken by backward solves",
		}, []string{"scheme"}),
	}
	for _, m := range []prometheus.Collector{c.SolvesTotal, c.SolveDuration, c.TimeStepsTotal} {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}

	return c, nil
}

// ObserveSolve records one finished solve.
//
// Inputs:
//
//	scheme - scheme name, e.g. "douglas".
//	steps - scheme steps taken before completion or failure.
//	elapsed - wall time of the solve.
//	err - the solve error, nil on success.
func (c *Collector) ObserveSolve(scheme string, steps int, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	c.SolvesTotal.WithLabelValues(scheme, result).Inc()
	c.SolveDuration.WithLabelValues(scheme).Observe(elapsed.Seconds())
	if steps > 0 {
		c.TimeStepsTotal.WithLabelValues(scheme).Add(float64(steps))
	}
}
