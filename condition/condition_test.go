// SPDX-License-Identifier: MIT

package condition_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvfdm/condition"
	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformMesh(t *testing.T, n int, lo, hi float64) *mesher.Composite {
	t.Helper()
	m, err := mesher.NewUniform(n, lo, hi)
	require.NoError(t, err)
	c, err := mesher.NewComposite(m)
	require.NoError(t, err)

	return c
}

func TestPayoffs(t *testing.T) {
	call := condition.PlainVanilla{Type: condition.Call, Strike: 100}
	put := condition.PlainVanilla{Type: condition.Put, Strike: 100}
	digital := condition.CashOrNothing{Type: condition.Call, Strike: 100, Cash: 10}

	assert.Equal(t, 5.0, call.Value(105))
	assert.Equal(t, 0.0, call.Value(95))
	assert.Equal(t, 5.0, put.Value(95))
	assert.Equal(t, 10.0, digital.Value(100.5))
	assert.Equal(t, 0.0, digital.Value(100))
	assert.Equal(t, 4.0, condition.PayoffFunc(func(s float64) float64 { return s * s }).Value(2))

	typ, err := condition.ParseOptionType(" PUT ")
	require.NoError(t, err)
	assert.Equal(t, condition.Put, typ)
	_, err = condition.ParseOptionType("straddle")
	require.ErrorIs(t, err, condition.ErrUnknownOptionType)
	assert.Equal(t, "call", condition.Call.String())
}

func TestInnerValues(t *testing.T) {
	m := uniformMesh(t, 5, 0, 4)
	call := condition.PlainVanilla{Type: condition.Call, Strike: 1.5}

	v, err := condition.InnerValues(m, 0, call, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 0.5, 1.5, 2.5}, v, 1e-15)

	logGrid, err := condition.InnerValues(m, 0, call, math.Exp)
	require.NoError(t, err)
	assert.InDelta(t, math.E-1.5, logGrid[1], 1e-15)

	_, err = condition.InnerValues(m, 0, nil, nil)
	require.ErrorIs(t, err, condition.ErrNilPayoff)
	_, err = condition.InnerValues(m, 1, call, nil)
	require.ErrorIs(t, err, mesher.ErrDirection)
}

func TestCellAveragedValues(t *testing.T) {
	m := uniformMesh(t, 5, 0, 4)
	// Linear payoffs are reproduced exactly away from the kink.
	avg, err := condition.CellAveragedValues(m, 0, condition.PlainVanilla{Type: condition.Call, Strike: 2}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, avg[0], 1e-12)
	assert.InDelta(t, 0.125, avg[2], 1e-3) // ∫_2^2.5 (x-2) dx / 1
	assert.InDelta(t, 1.0, avg[3], 1e-12)
	assert.InDelta(t, 1.75, avg[4], 1e-12) // one-sided cell [3.5, 4]

	digital, err := condition.CellAveragedValues(m, 0, condition.CashOrNothing{Type: condition.Call, Strike: 2, Cash: 1}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, digital[2], 0.05)
}

func TestMultiDirectionValues(t *testing.T) {
	mx, err := mesher.NewUniform(5, 0, 4)
	require.NoError(t, err)
	my, err := mesher.NewUniform(3, 0, 2)
	require.NoError(t, err)
	m, err := mesher.NewComposite(mx, my)
	require.NoError(t, err)
	call := condition.PlainVanilla{Type: condition.Call, Strike: 2}
	sum := func(c []float64) float64 { return c[0] + c[1] }

	inner, err := condition.InnerValuesMulti(m, call, sum)
	require.NoError(t, err)
	avg, err := condition.CellAveragedValuesMulti(m, 0, call, sum)
	require.NoError(t, err)
	line, err := condition.CellAveragedValues(uniformMesh(t, 5, 0, 4), 0, call, nil)
	require.NoError(t, err)

	l := m.Layout()
	for i := range inner {
		x, y := m.Location(i, 0), m.Location(i, 1)
		assert.Equal(t, math.Max(x+y-2, 0), inner[i], "node %d", i)
		if l.Coordinate(i, 1) == 0 {
			assert.InDelta(t, line[l.Coordinate(i, 0)], avg[i], 1e-12, "node %d", i)
		}
	}
	// Node (3, 1) sits a full cell above the kink.
	assert.InDelta(t, 2.0, avg[l.Index([]int{3, 1})], 1e-12)

	_, err = condition.InnerValuesMulti(m, call, nil)
	require.ErrorIs(t, err, condition.ErrNilMapping)
	_, err = condition.CellAveragedValuesMulti(m, 2, call, sum)
	require.ErrorIs(t, err, mesher.ErrDirection)
}

func TestAmericanAndBermudan(t *testing.T) {
	inner := []float64{3, 2, 1, 0}
	am := condition.NewAmerican(inner)
	v := []float64{1, 2.5, 1, 0.5}
	require.NoError(t, am.ApplyTo(v, 0.3))
	assert.Equal(t, []float64{3, 2.5, 1, 0.5}, v)
	require.ErrorIs(t, am.ApplyTo([]float64{1}, 0), condition.ErrSize)

	berm, err := condition.NewBermudan([]float64{0.5, 0.25, 0.5}, inner)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5}, berm.StoppingTimes())
	v = []float64{0, 0, 0, 0}
	require.NoError(t, berm.ApplyTo(v, 0.3))
	assert.Equal(t, []float64{0, 0, 0, 0}, v)
	require.NoError(t, berm.ApplyTo(v, 0.25+1e-12))
	assert.Equal(t, inner, v)

	_, err = condition.NewBermudan(nil, inner)
	require.ErrorIs(t, err, condition.ErrNoTimes)
	_, err = condition.NewBermudan([]float64{-1}, inner)
	require.ErrorIs(t, err, condition.ErrNegativeTime)
}

func TestCompositeAndSnapshot(t *testing.T) {
	zero, err := condition.NewZero(0.5)
	require.NoError(t, err)
	snap, err := condition.NewSnapshot(0.75)
	require.NoError(t, err)
	berm, err := condition.NewBermudan([]float64{0.5, 1}, []float64{1, 1})
	require.NoError(t, err)

	c := condition.Join(condition.NewComposite(berm, nil, zero), snap)
	assert.Len(t, c.Conditions(), 3)
	assert.Equal(t, []float64{0.5, 0.75, 1}, c.StoppingTimes())

	v := []float64{4, 5}
	require.NoError(t, c.ApplyTo(v, 0.75))
	got, ok := snap.Values()
	require.True(t, ok)
	assert.Equal(t, []float64{4, 5}, got)

	// Bermudan floors first, then the zero condition wipes.
	require.NoError(t, c.ApplyTo(v, 0.5))
	assert.Equal(t, []float64{0, 0}, v)

	snap.Reset()
	_, ok = snap.Values()
	assert.False(t, ok)

	var nilComposite *condition.Composite
	assert.NoError(t, nilComposite.ApplyTo(v, 0))
	assert.Empty(t, nilComposite.StoppingTimes())
}

func TestKnockOut(t *testing.T) {
	m := uniformMesh(t, 6, 0, 5)
	ko, err := condition.NewKnockOut(m, 0, 1, 4, -1, []float64{0.5}, nil)
	require.NoError(t, err)
	v := []float64{9, 9, 9, 9, 9, 9}
	require.NoError(t, ko.ApplyTo(v, 0.1))
	assert.Equal(t, []float64{9, 9, 9, 9, 9, 9}, v)
	require.NoError(t, ko.ApplyTo(v, 0.5))
	assert.Equal(t, []float64{-1, -1, 9, 9, -1, -1}, v)
	require.ErrorIs(t, ko.ApplyTo(v[:2], 0.5), condition.ErrSize)

	upOnly, err := condition.NewKnockOut(m, 0, math.NaN(), 3.5, 0, []float64{1}, nil)
	require.NoError(t, err)
	v = []float64{1, 1, 1, 1, 1, 1}
	require.NoError(t, upOnly.ApplyTo(v, 1))
	assert.Equal(t, []float64{1, 1, 1, 1, 0, 0}, v)

	_, err = condition.NewKnockOut(m, 0, 4, 1, 0, []float64{1}, nil)
	require.ErrorIs(t, err, condition.ErrBadBarrier)
	_, err = condition.NewTimed(nil, nil)
	require.ErrorIs(t, err, condition.ErrNoTimes)
}
