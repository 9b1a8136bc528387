// SPDX-License-Identifier: MIT

package solver_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvfdm/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeGrid(t *testing.T) {
	cases := []struct {
		name   string
		points []float64
		err    error
	}{
		{"increasing", []float64{0, 0.1, 0.5, 1}, nil},
		{"duplicate", []float64{0, 0.5, 0.5, 1}, solver.ErrNotIncreasing},
		{"decreasing", []float64{0, 0.6, 0.5, 1}, solver.ErrNotIncreasing},
		{"single", []float64{0}, solver.ErrEmptyGrid},
		{"empty", nil, solver.ErrEmptyGrid},
		{"negative", []float64{-0.1, 0, 1}, solver.ErrNegativeTime},
		{"late start", []float64{0.1, 1}, solver.ErrGridStart},
		{"nan", []float64{0, math.NaN()}, solver.ErrNegativeTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := solver.NewTimeGrid(tc.points)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.points, g.Points())
			assert.Equal(t, 1.0, g.Maturity())
			assert.InDelta(t, 0.4, g.Dt(2), 1e-15)
		})
	}
}

func TestNewUniformTimeGrid(t *testing.T) {
	g, err := solver.NewUniformTimeGrid(1, 10)
	require.NoError(t, err)
	require.Equal(t, 11, g.Size())
	assert.InDelta(t, 0.3, g.At(3), 1e-15)
	assert.Equal(t, 1.0, g.Maturity())

	g, err = solver.NewUniformTimeGrid(1, 10, 0.25, 0.55, 0.25, 1)
	require.NoError(t, err)
	pts := g.Points()
	assert.Equal(t, 0.0, pts[0])
	for i := 1; i < len(pts); i++ {
		assert.Greater(t, pts[i], pts[i-1])
		assert.LessOrEqual(t, pts[i]-pts[i-1], 0.125)
	}
	for _, m := range []float64{0.25, 0.55, 1} {
		k, err := g.Index(m)
		require.NoError(t, err)
		assert.Equal(t, m, g.At(k))
	}
	_, err = g.Index(0.3)
	require.ErrorIs(t, err, solver.ErrTimeNotInGrid)

	// A single step still hits every mandatory time.
	g, err = solver.NewUniformTimeGrid(2, 1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 2}, g.Points())

	_, err = solver.NewUniformTimeGrid(0, 10)
	require.ErrorIs(t, err, solver.ErrBadMaturity)
	_, err = solver.NewUniformTimeGrid(1, 0)
	require.ErrorIs(t, err, solver.ErrBadSteps)
	_, err = solver.NewUniformTimeGrid(1, 10, -0.5)
	require.ErrorIs(t, err, solver.ErrNegativeTime)
	_, err = solver.NewUniformTimeGrid(1, 10, 1.5)
	require.ErrorIs(t, err, solver.ErrTimeNotInGrid)
}
