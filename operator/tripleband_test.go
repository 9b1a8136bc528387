// SPDX-License-Identifier: MIT

package operator_test

import (
	"testing"

	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/operator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivatives_ExactOnQuadratics(t *testing.T) {
	m := mustMesh(t, mustConcentrating(t, 21, -1, 2))
	x := m.Locations(0)
	f := make([]float64, len(x))
	for i, xi := range x {
		f[i] = 3*xi*xi - 2*xi + 1
	}

	dx, err := operator.NewFirstDerivative(0, m)
	require.NoError(t, err)
	dxx, err := operator.NewSecondDerivative(0, m)
	require.NoError(t, err)
	df := dx.Apply(f)
	d2f := dxx.Apply(f)

	n := len(x)
	for i := 1; i < n-1; i++ {
		assert.InDelta(t, 6*x[i]-2, df[i], 1e-10, "dx at %d", i)
		assert.InDelta(t, 6, d2f[i], 1e-9, "dxx at %d", i)
	}
	// Edges: one-sided first derivative, zero second derivative rows.
	assert.InDelta(t, (f[1]-f[0])/(x[1]-x[0]), df[0], 1e-12)
	assert.InDelta(t, (f[n-1]-f[n-2])/(x[n-1]-x[n-2]), df[n-1], 1e-12)
	assert.Equal(t, 0.0, d2f[0])
	assert.Equal(t, 0.0, d2f[n-1])
}

func TestDerivatives_AlongSecondDirection(t *testing.T) {
	m := mustMesh(t, mustConcentrating(t, 5, 0, 1), mustConcentrating(t, 9, -2, 3))
	y := m.Locations(1)
	dy, err := operator.NewFirstDerivative(1, m)
	require.NoError(t, err)
	got := dy.Apply(y)
	for i := range got {
		assert.InDelta(t, 1, got[i], 1e-12)
	}

	_, err = operator.NewFirstDerivative(2, m)
	require.ErrorIs(t, err, operator.ErrDirection)
}

func TestTripleBand_CombinatorsMatchMatrices(t *testing.T) {
	m := mustMesh(t, mustConcentrating(t, 7, 0, 1), mustConcentrating(t, 4, 0, 1))
	n := m.Size()
	dx, err := operator.NewFirstDerivative(0, m)
	require.NoError(t, err)
	dxx, err := operator.NewSecondDerivative(0, m)
	require.NoError(t, err)
	u := randomVector(n, 1)
	r := randomVector(n, 2)

	// Mult: row scaling.
	want := dx.Apply(r)
	for i := range want {
		want[i] *= u[i]
	}
	requireVecInDelta(t, want, dx.Mult(u).Apply(r), 1e-12)

	// MultR: column scaling.
	ur := make([]float64, n)
	for i := range ur {
		ur[i] = u[i] * r[i]
	}
	requireVecInDelta(t, dx.Apply(ur), dx.MultR(u).Apply(r), 1e-12)

	// Add and AddDiag.
	sum, err := dx.Add(dxx)
	require.NoError(t, err)
	a, b := dx.Apply(r), dxx.Apply(r)
	for i := range a {
		a[i] += b[i] + 2*r[i]
	}
	requireVecInDelta(t, a, sum.AddDiag([]float64{2}).Apply(r), 1e-12)

	// Axpyb: u⊙dx + dxx + diag(3).
	acc, err := operator.NewTripleBand(0, m)
	require.NoError(t, err)
	require.NoError(t, acc.Axpyb(u, dx, dxx, []float64{3}))
	want = dxx.Apply(r)
	g := dx.Apply(r)
	for i := range want {
		want[i] += u[i]*g[i] + 3*r[i]
	}
	requireVecInDelta(t, want, acc.Apply(r), 1e-12)
	requireVecInDelta(t, want, mulVec(t, acc.ToMatrix(), r), 1e-12)

	dy, err := operator.NewFirstDerivative(1, m)
	require.NoError(t, err)
	_, err = dx.Add(dy)
	require.ErrorIs(t, err, operator.ErrMismatch)
	require.ErrorIs(t, acc.Axpyb(nil, nil, dy, nil), operator.ErrMismatch)
}

func TestTripleBand_SolveSplitting(t *testing.T) {
	m := mustMesh(t, mustConcentrating(t, 6, 0, 1), mustConcentrating(t, 11, -1, 1), mustConcentrating(t, 3, 0, 2))
	r := randomVector(m.Size(), 3)

	for _, workers := range []int{1, 4} {
		for d := 0; d < 3; d++ {
			dxx, err := operator.NewSecondDerivative(d, m, operator.WithParallelism(workers))
			require.NoError(t, err)
			op := dxx.AddDiag([]float64{-0.05})
			const a, b = -0.3, 1.0
			x, err := op.SolveSplitting(r, a, b)
			require.NoError(t, err)

			// (b·I + a·T) x == r
			back := op.Apply(x)
			for i := range back {
				back[i] = b*x[i] + a*back[i]
			}
			requireVecInDelta(t, r, back, 1e-10)
		}
	}

	dxx, err := operator.NewSecondDerivative(0, m)
	require.NoError(t, err)
	_, err = dxx.SolveSplitting(r[:3], 1, 1)
	require.Error(t, err)
}

func TestMixedDerivative(t *testing.T) {
	mx := mustConcentrating(t, 8, 0, 2)
	my, err := mesher.NewUniform(6, -1, 1)
	require.NoError(t, err)
	m := mustMesh(t, mx, my)
	x, y := m.Locations(0), m.Locations(1)
	f := make([]float64, m.Size())
	for i := range f {
		f[i] = x[i]*y[i] + x[i] - 4*y[i]
	}

	dxy, err := operator.NewMixedDerivative(0, 1, m)
	require.NoError(t, err)
	got := dxy.Apply(f)
	for i := range got {
		assert.InDelta(t, 1, got[i], 1e-11, "node %d", i)
	}
	requireVecInDelta(t, got, mulVec(t, dxy.ToMatrix(), f), 1e-12)

	scaled := dxy.Mult([]float64{2}).Apply(f)
	for i := range scaled {
		assert.InDelta(t, 2, scaled[i], 1e-11)
	}

	_, err = operator.NewMixedDerivative(0, 0, m)
	require.ErrorIs(t, err, operator.ErrDirection)
}

func TestWithParallelismPanics(t *testing.T) {
	assert.Panics(t, func() { operator.WithParallelism(0) })
}
