// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"math"
	"sort"
)

// timeTolerance is the absolute distance at which two times are the same
// grid point.
const timeTolerance = 1e-10

// TimeGrid is an immutable strictly increasing sequence 0 = t0 < … < tN.
type TimeGrid struct {
	points []float64
}

// NewTimeGrid validates points and copies them.
//
// Errors: ErrEmptyGrid (fewer than two points), ErrNegativeTime,
// ErrGridStart (t0 != 0), ErrNotIncreasing.
func NewTimeGrid(points []float64) (*TimeGrid, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("NewTimeGrid: %d points: %w", len(points), ErrEmptyGrid)
	}
	for i, t := range points {
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return nil, fmt.Errorf("NewTimeGrid: point %d = %g: %w", i, t, ErrNegativeTime)
		}
		if i > 0 && t <= points[i-1] {
			return nil, fmt.Errorf("NewTimeGrid: point %d = %g after %g: %w", i, t, points[i-1], ErrNotIncreasing)
		}
	}
	if points[0] != 0 {
		return nil, fmt.Errorf("NewTimeGrid: t0 = %g: %w", points[0], ErrGridStart)
	}

	return &TimeGrid{points: append([]float64(nil), points...)}, nil
}

// NewUniformTimeGrid spreads steps over [0, maturity] and inserts every
// mandatory time exactly. The interval between consecutive mandatory times
// gets max(1, round(len/dtMax)) equal steps with dtMax = maturity/steps, so
// the result may hold slightly more than steps intervals.
//
// Errors: ErrBadMaturity, ErrBadSteps, ErrNegativeTime or ErrTimeNotInGrid
// for mandatory times outside [0, maturity].
func NewUniformTimeGrid(maturity float64, steps int, mandatory ...float64) (*TimeGrid, error) {
	if !(maturity > 0) || math.IsInf(maturity, 0) {
		return nil, fmt.Errorf("NewUniformTimeGrid: maturity %g: %w", maturity, ErrBadMaturity)
	}
	if steps < 1 {
		return nil, fmt.Errorf("NewUniformTimeGrid: steps %d: %w", steps, ErrBadSteps)
	}
	stops := make([]float64, 0, len(mandatory)+1)
	for _, t := range mandatory {
		switch {
		case math.IsNaN(t) || t < -timeTolerance:
			return nil, fmt.Errorf("NewUniformTimeGrid: mandatory %g: %w", t, ErrNegativeTime)
		case t > maturity+timeTolerance:
			return nil, fmt.Errorf("NewUniformTimeGrid: mandatory %g beyond maturity %g: %w", t, maturity, ErrTimeNotInGrid)
		}
		stops = append(stops, t)
	}
	stops = append(stops, maturity)
	sort.Float64s(stops)

	dtMax := maturity / float64(steps)
	points := []float64{0}
	begin := 0.0
	for _, end := range stops {
		if end-begin <= timeTolerance {
			continue
		}
		n := int(math.Max(1, math.Round((end-begin)/dtMax)))
		dt := (end - begin) / float64(n)
		for k := 1; k < n; k++ {
			points = append(points, begin+float64(k)*dt)
		}
		points = append(points, end)
		begin = end
	}

	return NewTimeGrid(points)
}

// Size returns the number of points, N+1.
func (g *TimeGrid) Size() int { return len(g.points) }

// At returns t_i.
func (g *TimeGrid) At(i int) float64 { return g.points[i] }

// Points returns a copy of the grid.
func (g *TimeGrid) Points() []float64 { return append([]float64(nil), g.points...) }

// Maturity returns the last point.
func (g *TimeGrid) Maturity() float64 { return g.points[len(g.points)-1] }

// Dt returns t_i - t_{i-1} for i >= 1.
func (g *TimeGrid) Dt(i int) float64 { return g.points[i] - g.points[i-1] }

// Index returns the position of t in the grid.
// Errors: ErrTimeNotInGrid if no point lies within the grid tolerance of t.
func (g *TimeGrid) Index(t float64) (int, error) {
	k := sort.SearchFloat64s(g.points, t-timeTolerance)
	if k < len(g.points) && math.Abs(g.points[k]-t) <= timeTolerance {
		return k, nil
	}

	return 0, fmt.Errorf("Index(%g): %w", t, ErrTimeNotInGrid)
}

// Contains reports whether t is a grid point.
func (g *TimeGrid) Contains(t float64) bool {
	_, err := g.Index(t)
	return err == nil
}
