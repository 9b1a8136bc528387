// SPDX-License-Identifier: MIT

package condition

import (
	"fmt"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/katalvlaran/lvfdm/mesher"
)

// cellAverageNodes is the Gauss-Legendre order used per mesh cell.
const cellAverageNodes = 24

// identity is the default grid mapping.
func identity(x float64) float64 { return x }

// InnerValues evaluates p at every node of m, reading the underlying from
// direction d through mapping (math.Exp for log-spot grids, nil for the
// identity).
func InnerValues(m *mesher.Composite, d int, p Payoff, mapping func(float64) float64) ([]float64, error) {
	if err := checkInner(m, d, p); err != nil {
		return nil, fmt.Errorf("InnerValues: %w", err)
	}
	if mapping == nil {
		mapping = identity
	}
	out := make([]float64, m.Size())
	for i := range out {
		out[i] = p.Value(mapping(m.Location(i, d)))
	}

	return out, nil
}

// CellAveragedValues returns, per node, the mean of the payoff over the
// node's cell [x - h⁻/2, x + h⁺/2] along direction d. Averaging smooths the
// kink of the payoff and restores regular convergence when the strike falls
// between nodes. Boundary cells are one-sided.
func CellAveragedValues(m *mesher.Composite, d int, p Payoff, mapping func(float64) float64) ([]float64, error) {
	if err := checkInner(m, d, p); err != nil {
		return nil, fmt.Errorf("CellAveragedValues: %w", err)
	}
	if mapping == nil {
		mapping = identity
	}
	f := func(x float64) float64 { return p.Value(mapping(x)) }

	dim := m.Layout().Dim(d)
	// Values only depend on the coordinate along d.
	avg := make([]float64, dim)
	line, _ := m.Mesher(d)
	for k := 0; k < dim; k++ {
		x := line.Location(k)
		lo, hi := x, x
		if k > 0 {
			lo -= 0.5 * line.Dminus(k)
		}
		if k < dim-1 {
			hi += 0.5 * line.Dplus(k)
		}
		if hi <= lo {
			avg[k] = f(x)

			continue
		}
		avg[k] = quad.Fixed(f, lo, hi, cellAverageNodes, quad.Legendre{}, 0) / (hi - lo)
	}

	out := make([]float64, m.Size())
	l := m.Layout()
	for i := range out {
		out[i] = avg[l.Coordinate(i, d)]
	}

	return out, nil
}

// InnerValuesMulti evaluates p at mapping(coords) for every node, where
// coords holds the node's location along each direction. It serves payoffs
// whose underlying combines several state variables.
func InnerValuesMulti(m *mesher.Composite, p Payoff, mapping func(coords []float64) float64) ([]float64, error) {
	if err := checkMulti(m, 0, p, mapping); err != nil {
		return nil, fmt.Errorf("InnerValuesMulti: %w", err)
	}
	coords := make([]float64, m.Dims())
	out := make([]float64, m.Size())
	for i := range out {
		for d := range coords {
			coords[d] = m.Location(i, d)
		}
		out[i] = p.Value(mapping(coords))
	}

	return out, nil
}

// CellAveragedValuesMulti is CellAveragedValues for a mapping of all node
// coordinates. The average runs over the node's cell along d with the other
// coordinates held fixed.
func CellAveragedValuesMulti(m *mesher.Composite, d int, p Payoff, mapping func(coords []float64) float64) ([]float64, error) {
	if err := checkMulti(m, d, p, mapping); err != nil {
		return nil, fmt.Errorf("CellAveragedValuesMulti: %w", err)
	}
	l := m.Layout()
	dim := l.Dim(d)
	line, _ := m.Mesher(d)
	coords := make([]float64, m.Dims())
	f := func(x float64) float64 {
		coords[d] = x
		return p.Value(mapping(coords))
	}

	out := make([]float64, m.Size())
	for i := range out {
		for k := range coords {
			coords[k] = m.Location(i, k)
		}
		k := l.Coordinate(i, d)
		x := line.Location(k)
		lo, hi := x, x
		if k > 0 {
			lo -= 0.5 * line.Dminus(k)
		}
		if k < dim-1 {
			hi += 0.5 * line.Dplus(k)
		}
		if hi <= lo {
			out[i] = f(x)

			continue
		}
		out[i] = quad.Fixed(f, lo, hi, cellAverageNodes, quad.Legendre{}, 0) / (hi - lo)
	}

	return out, nil
}

func checkMulti(m *mesher.Composite, d int, p Payoff, mapping func([]float64) float64) error {
	if mapping == nil {
		return ErrNilMapping
	}

	return checkInner(m, d, p)
}

func checkInner(m *mesher.Composite, d int, p Payoff) error {
	if p == nil {
		return ErrNilPayoff
	}

	return m.ValidDirection(d)
}
