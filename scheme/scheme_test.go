// SPDX-License-Identifier: MIT

package scheme_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvfdm/boundary"
	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/operator"
	"github.com/katalvlaran/lvfdm/scheme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heatProblem is L = Σ_d ∂²/∂x_d² on [0, π]^dims with zero Dirichlet edges.
// sin(x_0)·…·sin(x_{dims-1}) decays as exp(-dims·τ).
type heatProblem struct {
	mesh *mesher.Composite
	op   *operator.Sum
	bcs  *boundary.Set
}

func newHeatProblem(t testing.TB, n, dims int) heatProblem {
	t.Helper()
	ms := make([]*mesher.Mesher1D, dims)
	for d := range ms {
		m, err := mesher.NewUniform(n, 0, math.Pi)
		require.NoError(t, err)
		ms[d] = m
	}
	mesh, err := mesher.NewComposite(ms...)
	require.NoError(t, err)

	op := operator.NewSum(mesh)
	var conds []boundary.Condition
	for d := 0; d < dims; d++ {
		require.NoError(t, op.AddBand("diffusion", d, operator.SecondDerivative, nil))
		for _, side := range []boundary.Side{boundary.Lower, boundary.Upper} {
			c, err := boundary.NewDirichlet(mesh, d, side, 0)
			require.NoError(t, err)
			conds = append(conds, c)
		}
	}
	bcs, err := boundary.NewSet(mesh, conds...)
	require.NoError(t, err)

	return heatProblem{mesh: mesh, op: op, bcs: bcs}
}

// initial returns the product of sines on the mesh.
func (p heatProblem) initial() []float64 {
	v := make([]float64, p.mesh.Size())
	for i := range v {
		v[i] = 1
		for d := 0; d < p.mesh.Dims(); d++ {
			v[i] *= math.Sin(p.mesh.Location(i, d))
		}
	}

	return v
}

// rollback steps a from t = maturity down to zero.
func rollback(t *testing.T, s scheme.Scheme, a []float64, maturity float64, steps int) {
	t.Helper()
	dt := maturity / float64(steps)
	s.SetStep(dt)
	for k := steps; k > 0; k-- {
		require.NoError(t, s.Step(a, float64(k)*dt))
	}
}

func TestSchemes_HeatEquation(t *testing.T) {
	cases := []struct {
		desc  scheme.Desc
		dims  int
		n     int
		steps int
		tol   float64
	}{
		{scheme.ExplicitEulerDesc, 1, 51, 1000, 1e-3},
		{scheme.ImplicitEulerDesc, 1, 51, 100, 5e-3},
		{scheme.CrankNicolsonDesc, 1, 51, 100, 1e-3},
		{scheme.DouglasDesc, 1, 51, 100, 1e-3},
		{scheme.HundsdorferDesc, 1, 51, 100, 1e-3},
		{scheme.ImplicitEulerDesc, 2, 31, 100, 5e-3},
		{scheme.CrankNicolsonDesc, 2, 31, 100, 2e-3},
		{scheme.DouglasDesc, 2, 31, 100, 2e-3},
		{scheme.CraigSneydDesc, 2, 31, 100, 2e-3},
		{scheme.ModifiedCraigSneydDesc, 2, 31, 100, 2e-3},
		{scheme.HundsdorferDesc, 2, 31, 100, 2e-3},
		{scheme.ModifiedHundsdorferDesc, 2, 31, 100, 2e-3},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.desc.Type.String(), func(t *testing.T) {
			p := newHeatProblem(t, tc.n, tc.dims)
			s, err := scheme.New(tc.desc, p.op, p.bcs)
			require.NoError(t, err)

			a := p.initial()
			want := p.initial()
			decay := math.Exp(-float64(tc.dims))
			for i := range want {
				want[i] *= decay
			}
			rollback(t, s, a, 1, tc.steps)
			assert.InDeltaSlice(t, want, a, tc.tol, "dims=%d", tc.dims)
		})
	}
}

func TestSchemes_SecondOrderInTime(t *testing.T) {
	// Errors are measured against a fine-step run on the same mesh, so only
	// the temporal error is left. Douglas is second order only without
	// mixed terms.
	cases := []struct {
		desc  scheme.Desc
		mixed bool
	}{
		{scheme.DouglasDesc, false},
		{scheme.CraigSneydDesc, true},
		{scheme.ModifiedCraigSneydDesc, true},
		{scheme.HundsdorferDesc, true},
		{scheme.ModifiedHundsdorferDesc, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.desc.Type.String(), func(t *testing.T) {
			p := newHeatProblem(t, 21, 2)
			if tc.mixed {
				mixed, err := operator.NewMixedDerivative(0, 1, p.mesh)
				require.NoError(t, err)
				require.NoError(t, p.op.AddMixed("correlation", mixed, operator.Constant(0.3)))
			}
			run := func(steps int) []float64 {
				s, err := scheme.New(tc.desc, p.op, p.bcs)
				require.NoError(t, err)
				a := p.initial()
				rollback(t, s, a, 1, steps)

				return a
			}
			ref := run(640)

			errs := make([]float64, 0, 3)
			for _, steps := range []int{10, 20, 40} {
				a := run(steps)
				worst := 0.0
				for i := range a {
					worst = math.Max(worst, math.Abs(a[i]-ref[i]))
				}
				errs = append(errs, worst)
			}
			for k := 1; k < len(errs); k++ {
				assert.InDelta(t, 4, errs[k-1]/errs[k], 0.5, "refinement %d: errors %v", k, errs)
			}
		})
	}
}

func TestCraigSneyd_ReducesToDouglasWithoutMixedTerms(t *testing.T) {
	p := newHeatProblem(t, 15, 2)
	douglas := scheme.NewDouglas(0.5, p.op, p.bcs)
	cs := scheme.NewCraigSneyd(0.5, 0.5, p.op, p.bcs)
	mcs := scheme.NewModifiedCraigSneyd(0.5, 0.5, p.op, p.bcs)

	want := p.initial()
	rollback(t, douglas, want, 0.5, 10)
	for name, s := range map[string]scheme.Scheme{"craig-sneyd": cs, "modified": mcs} {
		a := p.initial()
		rollback(t, s, a, 0.5, 10)
		assert.InDeltaSlice(t, want, a, 1e-14, name)
	}
}

func TestSchemes_MixedTermAgreement(t *testing.T) {
	// With a correlation term the ADI schemes approximate the same solution;
	// compare against Crank-Nicolson, which solves the full system.
	p := newHeatProblem(t, 21, 2)
	mixed, err := operator.NewMixedDerivative(0, 1, p.mesh)
	require.NoError(t, err)
	require.NoError(t, p.op.AddMixed("correlation", mixed, operator.Constant(0.3)))

	ref := p.initial()
	cn, err := scheme.New(scheme.CrankNicolsonDesc, p.op, p.bcs, scheme.WithRelTolerance(1e-12))
	require.NoError(t, err)
	rollback(t, cn, ref, 0.5, 200)

	for _, desc := range []scheme.Desc{
		scheme.DouglasDesc, scheme.CraigSneydDesc, scheme.ModifiedCraigSneydDesc, scheme.HundsdorferDesc,
	} {
		s, err := scheme.New(desc, p.op, p.bcs)
		require.NoError(t, err)
		a := p.initial()
		rollback(t, s, a, 0.5, 200)
		assert.InDeltaSlice(t, ref, a, 1e-3, desc.Type.String())
	}
}

func TestSchemes_DirichletPinnedAfterStep(t *testing.T) {
	m, err := mesher.NewConcentrating(30, 0, 2, 1, 0.2, false)
	require.NoError(t, err)
	mesh, err := mesher.NewComposite(m)
	require.NoError(t, err)
	op := operator.NewSum(mesh)
	require.NoError(t, op.AddBand("diffusion", 0, operator.SecondDerivative, operator.Constant(0.5)))
	require.NoError(t, op.AddBand("drift", 0, operator.FirstDerivative, operator.Constant(0.1)))
	require.NoError(t, op.AddZeroOrder("discount", 0, operator.Constant(-0.05)))
	lower, err := boundary.NewDirichlet(mesh, 0, boundary.Lower, 2)
	require.NoError(t, err)
	upper, err := boundary.NewTimeDependentDirichlet(mesh, 0, boundary.Upper, func(t float64) float64 { return 1 + t })
	require.NoError(t, err)
	bcs, err := boundary.NewSet(mesh, lower, upper)
	require.NoError(t, err)

	for _, typ := range []scheme.Type{
		scheme.Douglas, scheme.CraigSneyd, scheme.ModifiedCraigSneyd, scheme.Hundsdorfer,
		scheme.ModifiedHundsdorfer, scheme.ExplicitEuler, scheme.ImplicitEuler, scheme.CrankNicolson,
	} {
		desc, err := scheme.DefaultDesc(typ)
		require.NoError(t, err)
		s, err := scheme.New(desc, op, bcs)
		require.NoError(t, err)
		a := make([]float64, mesh.Size())
		for i := range a {
			a[i] = mesh.Location(i, 0)
		}
		s.SetStep(0.001)
		require.NoError(t, s.Step(a, 0.5))
		assert.Equal(t, 2.0, a[0], typ.String())
		assert.InDelta(t, 1.499, a[len(a)-1], 1e-12, typ.String())
	}
}

func TestStep_Errors(t *testing.T) {
	p := newHeatProblem(t, 5, 1)
	s := scheme.NewDouglas(0.5, p.op, p.bcs)
	a := p.initial()
	require.ErrorIs(t, s.Step(a, 1), scheme.ErrStepNotSet)

	s.SetStep(0.1)
	require.ErrorIs(t, s.Step(a, 0.05), scheme.ErrNegativeTime)
	// Grid noise just below zero is tolerated.
	require.NoError(t, s.Step(a, 0.1-1e-9))
	// The operator saw a clipped interval.
	t1, t2, ok := p.op.Time()
	require.True(t, ok)
	assert.Equal(t, 0.0, t1)
	assert.InDelta(t, 0.1, t2, 1e-8)
}

func TestDesc(t *testing.T) {
	typ, err := scheme.ParseType("Modified_Craig-Sneyd")
	require.NoError(t, err)
	assert.Equal(t, scheme.ModifiedCraigSneyd, typ)
	_, err = scheme.ParseType("runge-kutta")
	require.ErrorIs(t, err, scheme.ErrUnknownScheme)
	assert.Equal(t, "Type(42)", scheme.Type(42).String())

	assert.InDelta(t, 0.5+math.Sqrt(3)/6, scheme.HundsdorferDesc.Theta, 1e-15)
	assert.InDelta(t, 1-math.Sqrt(2)/2, scheme.ModifiedHundsdorferDesc.Theta, 1e-15)
	assert.InDelta(t, 1.0/3, scheme.ModifiedCraigSneydDesc.Mu, 1e-15)

	require.ErrorIs(t, scheme.Desc{Type: scheme.Douglas, Theta: 1.5}.Validate(), scheme.ErrBadParameter)
	_, err = scheme.New(scheme.Desc{Type: scheme.Type(99)}, nil, nil)
	require.ErrorIs(t, err, scheme.ErrUnknownScheme)
	assert.Panics(t, func() { scheme.WithRelTolerance(0) })
	assert.Panics(t, func() { scheme.WithMaxIterations(-1) })
}
