// SPDX-License-Identifier: MIT

package solver_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/katalvlaran/lvfdm/condition"
	"github.com/katalvlaran/lvfdm/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a scheme that adds 1 to every value and logs its calls.
type recorder struct {
	name string
	log  *[]string
	dt   float64
	fail float64
}

func (r *recorder) SetStep(dt float64) { r.dt = dt }

func (r *recorder) Step(a []float64, t float64) error {
	if t == r.fail {
		return errors.New("boom")
	}
	*r.log = append(*r.log, fmt.Sprintf("%s %.2f/%.2f", r.name, t, r.dt))
	for i := range a {
		a[i]++
	}

	return nil
}

// logCondition records the times it is applied at.
type logCondition struct{ log *[]string }

func (c logCondition) ApplyTo(_ []float64, t float64) error {
	*c.log = append(*c.log, fmt.Sprintf("cond %.2f", t))
	return nil
}

func quarterGrid(t *testing.T) *solver.TimeGrid {
	t.Helper()
	g, err := solver.NewTimeGrid([]float64{0, 0.25, 0.5, 0.75, 1})
	require.NoError(t, err)

	return g
}

func TestBackward_Order(t *testing.T) {
	var log []string
	main := &recorder{name: "main", log: &log, fail: -1}
	damp := &recorder{name: "damp", log: &log, fail: -1}
	b, err := solver.NewBackward(quarterGrid(t), main, condition.NewComposite(logCondition{&log}))
	require.NoError(t, err)
	b.SetDamping(1, damp)

	v := []float64{0, 10}
	require.NoError(t, b.Rollback(v, 1, 0))
	assert.Equal(t, []string{
		"cond 1.00",
		"damp 1.00/0.25", "cond 0.75",
		"main 0.75/0.25", "cond 0.50",
		"main 0.50/0.25", "cond 0.25",
		"main 0.25/0.25", "cond 0.00",
	}, log)
	assert.Equal(t, []float64{4, 14}, v)
	assert.Equal(t, 4, b.Steps())

	require.ErrorIs(t, b.Rollback(v, 1, 0), solver.ErrAlreadySolved)
	b.Reset()
	require.NoError(t, b.Rollback(v, 0.5, 0.25))
	assert.Equal(t, 1, b.Steps())
}

func TestBackward_PartialRollbackContinues(t *testing.T) {
	var log []string
	main := &recorder{name: "main", log: &log, fail: -1}
	b, err := solver.NewBackward(quarterGrid(t), main, condition.NewComposite(logCondition{&log}))
	require.NoError(t, err)

	v := []float64{0}
	require.NoError(t, b.Rollback(v, 1, 0.5))
	log = log[:0]
	// Continuing from where the last rollback stopped does not reapply the
	// conditions at 0.5.
	require.NoError(t, b.Rollback(v, 0.5, 0))
	assert.Equal(t, []string{"main 0.50/0.25", "cond 0.25", "main 0.25/0.25", "cond 0.00"}, log)
	assert.Equal(t, []float64{4}, v)
}

func TestBackward_Errors(t *testing.T) {
	var log []string
	main := &recorder{name: "main", log: &log, fail: 0.5}
	g := quarterGrid(t)

	_, err := solver.NewBackward(nil, main, nil)
	require.ErrorIs(t, err, solver.ErrMissingInput)

	berm, err := condition.NewBermudan([]float64{0.6}, []float64{0})
	require.NoError(t, err)
	_, err = solver.NewBackward(g, main, condition.NewComposite(berm))
	require.ErrorIs(t, err, solver.ErrTimeNotInGrid)

	b, err := solver.NewBackward(g, main, nil)
	require.NoError(t, err)
	v := []float64{0}
	require.ErrorIs(t, b.Rollback(v, 0.9, 0), solver.ErrTimeNotInGrid)
	require.ErrorIs(t, b.Rollback(v, 1, 0.1), solver.ErrTimeNotInGrid)
	require.ErrorIs(t, b.Rollback(v, 0.25, 0.5), solver.ErrNotIncreasing)
	require.EqualError(t, b.Rollback(v, 1, 0), "Rollback at t=0.5: boom")
}

func TestBackward_ZeroConditionWipesEarlierSlices(t *testing.T) {
	var log []string
	main := &recorder{name: "main", log: &log, fail: -1}
	zero, err := condition.NewZero(0.5)
	require.NoError(t, err)
	snap, err := condition.NewSnapshot(0.5)
	require.NoError(t, err)
	b, err := solver.NewBackward(quarterGrid(t), main, condition.NewComposite(zero, snap))
	require.NoError(t, err)

	v := []float64{3, 7}
	require.NoError(t, b.Rollback(v, 1, 0))
	at, ok := snap.Values()
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0}, at)
	// The recorder adds one per step after the wipe.
	assert.Equal(t, []float64{2, 2}, v)
}
