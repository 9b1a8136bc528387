// SPDX-License-Identifier: MIT

package operator_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvfdm/matrix"
	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/stretchr/testify/require"
)

// mustMesh builds a composite mesh from the given 1-D meshers.
func mustMesh(t *testing.T, ms ...*mesher.Mesher1D) *mesher.Composite {
	t.Helper()
	c, err := mesher.NewComposite(ms...)
	require.NoError(t, err)

	return c
}

// mustConcentrating returns a non-uniform mesh on [lo, hi].
func mustConcentrating(t *testing.T, n int, lo, hi float64) *mesher.Mesher1D {
	t.Helper()
	m, err := mesher.NewConcentrating(n, lo, hi, 0.5*(lo+hi), 0.3, false)
	require.NoError(t, err)

	return m
}

func randomVector(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64()
	}

	return v
}

// mulVec applies a sparse matrix to x.
func mulVec(t *testing.T, m *matrix.Sparse, x []float64) []float64 {
	t.Helper()
	y, err := matrix.MatVec(m, x)
	require.NoError(t, err)

	return y
}

func requireVecInDelta(t *testing.T, want, got []float64, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, want[i], got[i], tol, "index %d", i)
	}
}
