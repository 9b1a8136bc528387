// SPDX-License-Identifier: MIT

package solver_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/katalvlaran/lvfdm/condition"
	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/metrics"
	"github.com/katalvlaran/lvfdm/operator"
	"github.com/katalvlaran/lvfdm/scheme"
	"github.com/katalvlaran/lvfdm/solver"
	"github.com/katalvlaran/lvfdm/termstructure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	spot   = 100.0
	strike = 100.0
	rate   = 0.05
	vol    = 0.2
	expiry = 1.0
)

// blackScholesCall returns value, delta, gamma and calendar theta.
func blackScholesCall() (v, delta, gamma, theta float64) {
	sq := vol * math.Sqrt(expiry)
	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*expiry) / sq
	d2 := d1 - sq
	n := distuv.UnitNormal
	df := math.Exp(-rate * expiry)
	v = spot*n.CDF(d1) - strike*df*n.CDF(d2)
	delta = n.CDF(d1)
	gamma = n.Prob(d1) / (spot * sq)
	theta = -spot*n.Prob(d1)*vol/(2*math.Sqrt(expiry)) - rate*strike*df*n.CDF(d2)

	return v, delta, gamma, theta
}

func blackScholesDesc(t testing.TB, conds *condition.Composite) solver.Desc {
	t.Helper()
	m1, err := mesher.NewBlackScholes(201, spot, vol, expiry, strike,
		mesher.WithConcentration(strike, 0.1), mesher.WithDrift(rate))
	require.NoError(t, err)
	m, err := mesher.NewComposite(m1)
	require.NoError(t, err)
	op, err := operator.NewBlackScholesOp(m, termstructure.FlatForward(rate), termstructure.FlatForward(0),
		termstructure.FlatVol(vol), 0)
	require.NoError(t, err)
	payoff, err := condition.CellAveragedValues(m, 0,
		condition.PlainVanilla{Type: condition.Call, Strike: strike}, math.Exp)
	require.NoError(t, err)

	return solver.Desc{
		Mesher:     m,
		Op:         op,
		Conditions: conds,
		Payoff:     payoff,
		Maturity:   expiry,
		TimeSteps:  100,
		Scheme:     scheme.DouglasDesc,
	}
}

func TestSolver_BlackScholesCall(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := prometheus.NewRegistry()
	coll, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	s, err := solver.NewSolver(blackScholesDesc(t, nil), solver.WithLogger(logger), solver.WithMetrics(coll))
	require.NoError(t, err)
	assert.Equal(t, solver.Dirty, s.State())
	_, err = s.ValueAt(math.Log(spot))
	require.ErrorIs(t, err, solver.ErrNotCalculated)

	require.NoError(t, s.Recompute())
	assert.Equal(t, solver.Clean, s.State())
	assert.Equal(t, 100, s.Steps())

	x := math.Log(spot)
	wantV, wantDelta, wantGamma, wantTheta := blackScholesCall()
	v, err := s.ValueAt(x)
	require.NoError(t, err)
	assert.InDelta(t, wantV, v, 0.02)

	dx, err := s.DeltaAt(x)
	require.NoError(t, err)
	dxx, err := s.GammaAt(x)
	require.NoError(t, err)
	assert.InDelta(t, wantDelta, dx/spot, 2e-3)
	assert.InDelta(t, wantGamma, (dxx-dx)/(spot*spot), 5e-4)

	theta, err := s.ThetaAt(x)
	require.NoError(t, err)
	assert.InDelta(t, wantTheta, theta, 0.1)

	_, err = s.ValueAt(x, 1)
	require.ErrorIs(t, err, solver.ErrSize)
	_, err = s.ValueAt(20)
	require.ErrorIs(t, err, solver.ErrOutsideMesh)

	s.Invalidate()
	_, err = s.ThetaAt(x)
	require.ErrorIs(t, err, solver.ErrNotCalculated)

	assert.Equal(t, 1.0, testutil.ToFloat64(coll.SolvesTotal.WithLabelValues("douglas", metrics.ResultSuccess)))
	assert.Equal(t, 100.0, testutil.ToFloat64(coll.TimeStepsTotal.WithLabelValues("douglas")))
	assert.Contains(t, buf.String(), "solve finished")
	assert.Contains(t, buf.String(), "scheme=douglas")
}

func TestSolver_AmericanPutAboveEuropean(t *testing.T) {
	desc := blackScholesDesc(t, nil)
	put := condition.PlainVanilla{Type: condition.Put, Strike: strike}
	payoff, err := condition.CellAveragedValues(desc.Mesher, 0, put, math.Exp)
	require.NoError(t, err)
	desc.Payoff = payoff
	desc.DampingSteps = 2
	desc.Scheme = scheme.HundsdorferDesc

	european, err := solver.NewSolver(desc)
	require.NoError(t, err)
	require.NoError(t, european.Recompute())

	inner, err := condition.InnerValues(desc.Mesher, 0, put, math.Exp)
	require.NoError(t, err)
	desc.Conditions = condition.NewComposite(condition.NewAmerican(inner))
	american, err := solver.NewSolver(desc)
	require.NoError(t, err)
	require.NoError(t, american.Recompute())

	x := math.Log(spot)
	ve, err := european.ValueAt(x)
	require.NoError(t, err)
	va, err := american.ValueAt(x)
	require.NoError(t, err)
	// European put by parity is about 5.57; the early exercise premium of
	// the at-the-money put is roughly 0.5.
	assert.InDelta(t, 5.573, ve, 0.02)
	assert.Greater(t, va, ve+0.2)
	assert.Less(t, va, ve+1)

	values, err := american.Values()
	require.NoError(t, err)
	for i, v := range values {
		assert.GreaterOrEqual(t, v, inner[i]-1e-12)
	}
}

func TestSolver_ZeroConditionYieldsZero(t *testing.T) {
	zero, err := condition.NewZero(0.3)
	require.NoError(t, err)
	s, err := solver.NewSolver(blackScholesDesc(t, condition.NewComposite(zero)))
	require.NoError(t, err)
	require.NoError(t, s.Recompute())
	assert.True(t, s.Grid().Contains(0.3))

	values, err := s.Values()
	require.NoError(t, err)
	for i, v := range values {
		assert.Equal(t, 0.0, v, "node %d", i)
	}
}

func TestNewSolver_Errors(t *testing.T) {
	desc := blackScholesDesc(t, nil)

	bad := desc
	bad.Op = nil
	_, err := solver.NewSolver(bad)
	require.ErrorIs(t, err, solver.ErrMissingInput)

	bad = desc
	bad.Payoff = bad.Payoff[1:]
	_, err = solver.NewSolver(bad)
	require.ErrorIs(t, err, solver.ErrSize)

	bad = desc
	bad.Maturity = 0
	_, err = solver.NewSolver(bad)
	require.ErrorIs(t, err, solver.ErrBadMaturity)

	bad = desc
	bad.TimeSteps = 0
	_, err = solver.NewSolver(bad)
	require.ErrorIs(t, err, solver.ErrBadSteps)

	bad = desc
	bad.Scheme = scheme.Desc{Type: scheme.Douglas, Theta: 2}
	_, err = solver.NewSolver(bad)
	require.ErrorIs(t, err, scheme.ErrBadParameter)

	assert.Equal(t, "dirty", solver.Dirty.String())
}

// cevProblem discretises a CEV call on a mesh centred at f0.
func cevProblem(t *testing.T, f0 float64) (*mesher.Composite, operator.Composite, []float64) {
	t.Helper()
	const alpha, beta = 0.2, 0.5
	m1, err := mesher.NewCEV(200, f0, alpha, beta, expiry, mesher.WithConcentration(strike, 0.1))
	require.NoError(t, err)
	m, err := mesher.NewComposite(m1)
	require.NoError(t, err)
	op, err := operator.NewCEVOp(m, termstructure.FlatForward(0.01), alpha, beta, 0)
	require.NoError(t, err)
	payoff, err := condition.CellAveragedValues(m, 0, condition.PlainVanilla{Type: condition.Call, Strike: strike}, nil)
	require.NoError(t, err)

	return m, op, payoff
}

func TestSolver_CEVDeltaMatchesBump(t *testing.T) {
	const f0, steps = 100.0, 50

	// Bumped full re-solves on meshes centred at f0 ± 1.
	value := func(f float64) float64 {
		m, op, payoff := cevProblem(t, f)
		s, err := solver.NewSolver(solver.Desc{
			Mesher:    m,
			Op:        op,
			Payoff:    payoff,
			Maturity:  expiry,
			TimeSteps: steps,
			Scheme:    scheme.HundsdorferDesc,
		})
		require.NoError(t, err)
		require.NoError(t, s.Recompute())
		v, err := s.ValueAt(f)
		require.NoError(t, err)

		return v
	}
	bumped := (value(f0+1) - value(f0-1)) / 2

	// Node difference on the slice at t1, one step before the origin.
	m, op, values := cevProblem(t, f0)
	grid, err := solver.NewUniformTimeGrid(expiry, steps)
	require.NoError(t, err)
	sch, err := scheme.New(scheme.HundsdorferDesc, op, nil)
	require.NoError(t, err)
	b, err := solver.NewBackward(grid, sch, nil)
	require.NoError(t, err)
	require.NoError(t, b.Rollback(values, expiry, grid.At(1)))

	x := m.Locations(0)
	i := 1
	for k := 2; k < len(x)-1; k++ {
		if math.Abs(x[k]-f0) < math.Abs(x[i]-f0) {
			i = k
		}
	}
	h1, h2 := x[i]-x[i-1], x[i+1]-x[i]
	nodeDelta := -h2/(h1*(h1+h2))*values[i-1] + (h2-h1)/(h1*h2)*values[i] + h1/(h2*(h1+h2))*values[i+1]

	assert.False(t, math.IsNaN(nodeDelta))
	assert.InEpsilon(t, bumped, nodeDelta, 1e-3)
}
