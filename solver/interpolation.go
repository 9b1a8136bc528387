// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/katalvlaran/lvfdm/mesher"
)

// edgeTolerance admits query points marginally outside the mesh.
const edgeTolerance = 1e-12

// surface interpolates a value array on a composite mesh with monotone
// cubics, one direction at a time from the last direction down to 0.
type surface struct {
	axes   [][]float64
	values []float64
}

func newSurface(m *mesher.Composite, values []float64) *surface {
	axes := make([][]float64, m.Dims())
	for d := range axes {
		line, _ := m.Mesher(d)
		axes[d] = line.Locations()
	}

	return &surface{axes: axes, values: values}
}

// check validates the query point against the mesh box.
func (s *surface) check(x []float64) error {
	if len(x) != len(s.axes) {
		return fmt.Errorf("point has %d coordinates, mesh %d: %w", len(x), len(s.axes), ErrSize)
	}
	for d, a := range s.axes {
		lo, hi := a[0], a[len(a)-1]
		tol := edgeTolerance * (1 + hi - lo)
		if !(x[d] >= lo-tol && x[d] <= hi+tol) {
			return fmt.Errorf("coordinate %d = %g outside [%g, %g]: %w", d, x[d], lo, hi, ErrOutsideMesh)
		}
	}

	return nil
}

// line0 reduces the array to the direction-0 line through x[1:].
// Direction d has stride Π_{k<d} dim_k in the layout, so after the
// directions above d are reduced the stride of d is the remaining block.
func (s *surface) line0(x []float64) []float64 {
	cur := s.values
	for d := len(s.axes) - 1; d >= 1; d-- {
		n := len(s.axes[d])
		rest := len(cur) / n
		next := make([]float64, rest)
		line := make([]float64, n)
		for r := 0; r < rest; r++ {
			for k := 0; k < n; k++ {
				line[k] = cur[r+k*rest]
			}
			next[r] = interpolate(s.axes[d], line, x[d])
		}
		cur = next
	}

	return cur
}

// At returns the interpolated value at x.
func (s *surface) At(x []float64) (float64, error) {
	if err := s.check(x); err != nil {
		return 0, err
	}

	return interpolate(s.axes[0], s.line0(x), x[0]), nil
}

// Derivatives returns ∂V/∂x_0 and ∂²V/∂x_0² at x from the quadratic
// through the three direction-0 nodes nearest to x[0], with the other
// coordinates interpolated.
func (s *surface) Derivatives(x []float64) (first, second float64, err error) {
	if err := s.check(x); err != nil {
		return 0, 0, err
	}
	xs := s.axes[0]
	ys := s.line0(x)
	if len(xs) < 3 {
		return (ys[1] - ys[0]) / (xs[1] - xs[0]), 0, nil
	}
	k := nearestNode(xs, x[0])
	if k < 1 {
		k = 1
	} else if k > len(xs)-2 {
		k = len(xs) - 2
	}
	x0, x1, x2 := xs[k-1], xs[k], xs[k+1]
	w0 := ys[k-1] / ((x0 - x1) * (x0 - x2))
	w1 := ys[k] / ((x1 - x0) * (x1 - x2))
	w2 := ys[k+1] / ((x2 - x0) * (x2 - x1))
	t := x[0]
	first = w0*(2*t-x1-x2) + w1*(2*t-x0-x2) + w2*(2*t-x0-x1)
	second = 2 * (w0 + w1 + w2)

	return first, second, nil
}

// interpolate fits a Fritsch-Butland monotone cubic through (xs, ys) and
// evaluates it at x. xs is a mesh axis, hence strictly increasing with at
// least two points.
func interpolate(xs, ys []float64, x float64) float64 {
	var fb interp.FritschButland
	_ = fb.Fit(xs, ys)

	return fb.Predict(x)
}

// nearestNode returns the index of the element of sorted xs closest to x.
func nearestNode(xs []float64, x float64) int {
	lo, hi := 0, len(xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	if x-xs[lo] <= xs[hi]-x {
		return lo
	}

	return hi
}
