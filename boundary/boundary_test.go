// SPDX-License-Identifier: MIT

package boundary_test

import (
	"testing"

	"github.com/katalvlaran/lvfdm/boundary"
	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMesh(t *testing.T, sizes ...int) *mesher.Composite {
	t.Helper()
	ms := make([]*mesher.Mesher1D, len(sizes))
	for d, n := range sizes {
		m, err := mesher.NewConcentrating(n, 0, 1, 0.4, 0.5, false)
		require.NoError(t, err)
		ms[d] = m
	}
	c, err := mesher.NewComposite(ms...)
	require.NoError(t, err)

	return c
}

func TestDirichlet_PinsEdge(t *testing.T) {
	m := mustMesh(t, 5, 4)
	lower, err := boundary.NewDirichlet(m, 1, boundary.Lower, 7)
	require.NoError(t, err)
	upper, err := boundary.NewTimeDependentDirichlet(m, 0, boundary.Upper, func(float64) float64 { return -1 })
	require.NoError(t, err)
	set, err := boundary.NewSet(m, lower, upper)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	v := make([]float64, m.Size())
	set.ApplyAfterSolving(v)
	l := m.Layout()
	for i, x := range v {
		switch {
		case l.Coordinate(i, 0) == 4:
			assert.Equal(t, -1.0, x, "node %d", i)
		case l.Coordinate(i, 1) == 0:
			assert.Equal(t, 7.0, x, "node %d", i)
		default:
			assert.Equal(t, 0.0, x, "node %d", i)
		}
	}
	assert.Len(t, lower.Nodes(), 5)
	assert.Equal(t, 7.0, lower.Value())

	rhs := make([]float64, m.Size())
	set.ApplyBeforeSolving(nil, rhs)
	assert.Equal(t, 7.0, rhs[0])
}

func TestTimeDependentDirichlet(t *testing.T) {
	m := mustMesh(t, 4)
	c, err := boundary.NewTimeDependentDirichlet(m, 0, boundary.Upper, func(t float64) float64 { return 2 * t })
	require.NoError(t, err)
	v := make([]float64, 4)
	c.ApplyAfterApplying(v)
	assert.Equal(t, 0.0, v[3])
	c.SetTime(1.5)
	c.ApplyAfterApplying(v)
	assert.Equal(t, 3.0, v[3])

	_, err = boundary.NewTimeDependentDirichlet(m, 0, boundary.Upper, nil)
	require.ErrorIs(t, err, boundary.ErrNilValue)
}

func TestNeumannAndLinear(t *testing.T) {
	m := mustMesh(t, 6)
	x := m.Locations(0)
	v := make([]float64, 6)
	for i := range v {
		v[i] = 3*x[i] + 1
	}
	want := append([]float64(nil), v...)
	v[0], v[5] = 100, -100

	lo, err := boundary.NewNeumann(m, 0, boundary.Lower, 3)
	require.NoError(t, err)
	up, err := boundary.NewLinear(m, 0, boundary.Upper)
	require.NoError(t, err)
	set, err := boundary.NewSet(m, lo, up)
	require.NoError(t, err)
	set.SetTime(0)
	set.ApplyBeforeApplying(nil)
	set.ApplyAfterApplying(v)
	assert.InDelta(t, want[0], v[0], 1e-12)
	assert.InDelta(t, want[5], v[5], 1e-12)

	_, err = boundary.NewLinear(mustMesh(t, 2), 0, boundary.Lower)
	require.ErrorIs(t, err, boundary.ErrTooFewPoints)
}

func TestNewSet_Errors(t *testing.T) {
	m := mustMesh(t, 4, 4)
	a, err := boundary.NewDirichlet(m, 0, boundary.Lower, 0)
	require.NoError(t, err)
	b, err := boundary.NewNeumann(m, 0, boundary.Lower, 1)
	require.NoError(t, err)
	_, err = boundary.NewSet(m, a, b)
	require.ErrorIs(t, err, boundary.ErrConflict)

	// Different sides sharing corner nodes are fine while they agree there.
	c, err := boundary.NewDirichlet(m, 1, boundary.Lower, 0)
	require.NoError(t, err)
	_, err = boundary.NewSet(m, a, c)
	require.NoError(t, err)
	_, err = boundary.NewSet(m, b, c)
	require.NoError(t, err)

	_, err = boundary.NewSet(mustMesh(t, 4), c)
	require.ErrorIs(t, err, boundary.ErrDirection)
	_, err = boundary.NewDirichlet(m, 2, boundary.Lower, 0)
	require.ErrorIs(t, err, boundary.ErrDirection)
	_, err = boundary.NewDirichlet(m, 0, boundary.Side(5), 0)
	require.ErrorIs(t, err, boundary.ErrSide)

	var empty *boundary.Set
	assert.Equal(t, 0, empty.Len())
	empty.ApplyAfterSolving(nil)
	assert.Equal(t, "upper", boundary.Upper.String())
}

func TestNewSet_CornerConflict(t *testing.T) {
	m := mustMesh(t, 4, 3)
	left, err := boundary.NewDirichlet(m, 0, boundary.Lower, 1)
	require.NoError(t, err)
	bottom, err := boundary.NewDirichlet(m, 1, boundary.Lower, 2)
	require.NoError(t, err)
	top, err := boundary.NewDirichlet(m, 1, boundary.Upper, 1)
	require.NoError(t, err)

	_, err = boundary.NewSet(m, left, bottom)
	require.ErrorIs(t, err, boundary.ErrConflict)
	_, err = boundary.NewSet(m, top, left)
	require.NoError(t, err)

	// Opposite sides of one direction share no nodes.
	right, err := boundary.NewDirichlet(m, 0, boundary.Upper, 5)
	require.NoError(t, err)
	_, err = boundary.NewSet(m, left, right)
	require.NoError(t, err)
}
