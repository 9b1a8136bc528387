// SPDX-License-Identifier: MIT

package mesher

import (
	"fmt"
	"math"
)

// Mesher1D is an immutable, strictly increasing set of locations along one
// state variable, together with the forward and backward spacings.
//
// Dplus(Size()-1) and Dminus(0) are NaN: the mesh has no neighbour there.
type Mesher1D struct {
	locations []float64
	dplus     []float64
	dminus    []float64
}

// newMesher1D takes ownership of locs and derives the spacings.
func newMesher1D(locs []float64) *Mesher1D {
	n := len(locs)
	m := &Mesher1D{
		locations: locs,
		dplus:     make([]float64, n),
		dminus:    make([]float64, n),
	}
	for i := 0; i < n-1; i++ {
		h := locs[i+1] - locs[i]
		m.dplus[i] = h
		m.dminus[i+1] = h
	}
	m.dplus[n-1] = math.NaN()
	m.dminus[0] = math.NaN()

	return m
}

// NewUniform returns size equally spaced nodes on [start, end].
func NewUniform(size int, start, end float64) (*Mesher1D, error) {
	if size < 2 {
		return nil, fmt.Errorf("NewUniform(%d): %w", size, ErrTooFewPoints)
	}
	if !finite(start) || !finite(end) || end <= start {
		return nil, fmt.Errorf("NewUniform [%g, %g]: %w", start, end, ErrBadDomain)
	}
	dx := (end - start) / float64(size-1)
	locs := make([]float64, size)
	for i := range locs {
		locs[i] = start + float64(i)*dx
	}
	locs[size-1] = end

	return newMesher1D(locs), nil
}

// NewPredefined wraps caller-supplied locations. The slice is copied.
func NewPredefined(locations []float64) (*Mesher1D, error) {
	if len(locations) < 2 {
		return nil, fmt.Errorf("NewPredefined(%d): %w", len(locations), ErrTooFewPoints)
	}
	locs := append([]float64(nil), locations...)
	for i, x := range locs {
		if !finite(x) {
			return nil, fmt.Errorf("NewPredefined[%d]=%g: %w", i, x, ErrBadDomain)
		}
		if i > 0 && x <= locs[i-1] {
			return nil, fmt.Errorf("NewPredefined[%d]: %w", i, ErrNotIncreasing)
		}
	}

	return newMesher1D(locs), nil
}

// NewConcentrating returns size nodes on [start, end] concentrated around
// cPoint through the map
//
//	x(u) = cPoint + d·sinh(c1 + (c2-c1)·u),  u = i/(size-1),
//
// where d = density·(end-start) and c1, c2 pin the domain ends. When
// requireCPoint is set the node closest to cPoint is moved onto it; the
// neighbours bracket cPoint, so the mesh stays strictly increasing.
// A cPoint outside (start, end) still concentrates towards the nearer end
// but is never required.
func NewConcentrating(size int, start, end, cPoint, density float64, requireCPoint bool) (*Mesher1D, error) {
	if size < 2 {
		return nil, fmt.Errorf("NewConcentrating(%d): %w", size, ErrTooFewPoints)
	}
	if !finite(start) || !finite(end) || end <= start || !finite(cPoint) {
		return nil, fmt.Errorf("NewConcentrating [%g, %g] c=%g: %w", start, end, cPoint, ErrBadDomain)
	}
	if !finite(density) || density <= 0 {
		return nil, fmt.Errorf("NewConcentrating density=%g: %w", density, ErrBadDensity)
	}

	d := density * (end - start)
	c1 := math.Asinh((start - cPoint) / d)
	c2 := math.Asinh((end - cPoint) / d)
	locs := make([]float64, size)
	for i := range locs {
		u := float64(i) / float64(size-1)
		locs[i] = cPoint + d*math.Sinh(c1+(c2-c1)*u)
	}
	locs[0], locs[size-1] = start, end

	if requireCPoint && size > 2 && cPoint > start && cPoint < end {
		k := nearest(locs, cPoint)
		if k == 0 {
			k = 1
		} else if k == size-1 {
			k = size - 2
		}
		locs[k] = cPoint
	}
	for i := 1; i < size; i++ {
		if locs[i] <= locs[i-1] {
			return nil, fmt.Errorf("NewConcentrating: density %g too small for %d points: %w",
				density, size, ErrNotIncreasing)
		}
	}

	return newMesher1D(locs), nil
}

// Size returns the number of nodes.
func (m *Mesher1D) Size() int { return len(m.locations) }

// Location returns the i-th node.
func (m *Mesher1D) Location(i int) float64 { return m.locations[i] }

// Locations returns a copy of all nodes.
func (m *Mesher1D) Locations() []float64 { return append([]float64(nil), m.locations...) }

// Dplus returns x[i+1]-x[i] (NaN for the last node).
func (m *Mesher1D) Dplus(i int) float64 { return m.dplus[i] }

// Dminus returns x[i]-x[i-1] (NaN for the first node).
func (m *Mesher1D) Dminus(i int) float64 { return m.dminus[i] }

// Nearest returns the index of the node closest to x.
func (m *Mesher1D) Nearest(x float64) int { return nearest(m.locations, x) }

func nearest(locs []float64, x float64) int {
	best, dist := 0, math.Abs(locs[0]-x)
	for i := 1; i < len(locs); i++ {
		if d := math.Abs(locs[i] - x); d < dist {
			best, dist = i, d
		}
	}

	return best
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
