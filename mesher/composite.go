// SPDX-License-Identifier: MIT

package mesher

import "fmt"

// Composite is the Cartesian product of one-dimensional meshers.
// Direction d of the product is meshers[d].
type Composite struct {
	layout  *Layout
	meshers []*Mesher1D
}

// NewComposite builds the product mesh. At least one mesher is required.
func NewComposite(meshers ...*Mesher1D) (*Composite, error) {
	if len(meshers) == 0 {
		return nil, fmt.Errorf("NewComposite: %w", ErrNoMeshers)
	}
	dims := make([]int, len(meshers))
	for d, m := range meshers {
		if m == nil {
			return nil, fmt.Errorf("NewComposite: mesher %d is nil: %w", d, ErrNoMeshers)
		}
		dims[d] = m.Size()
	}
	l, err := NewLayout(dims...)
	if err != nil {
		return nil, fmt.Errorf("NewComposite: %w", err)
	}

	return &Composite{layout: l, meshers: append([]*Mesher1D(nil), meshers...)}, nil
}

// Layout returns the index layout of the product mesh.
func (c *Composite) Layout() *Layout { return c.layout }

// Dims returns the number of directions.
func (c *Composite) Dims() int { return len(c.meshers) }

// Size returns the total number of nodes.
func (c *Composite) Size() int { return c.layout.size }

// Mesher returns the one-dimensional mesher of direction d.
func (c *Composite) Mesher(d int) (*Mesher1D, error) {
	if d < 0 || d >= len(c.meshers) {
		return nil, fmt.Errorf("Mesher(%d): %w", d, ErrDirection)
	}

	return c.meshers[d], nil
}

// Location returns the direction-d coordinate value of node idx.
func (c *Composite) Location(idx, d int) float64 {
	return c.meshers[d].locations[c.layout.Coordinate(idx, d)]
}

// Locations returns the direction-d coordinate value of every node, indexed
// by flat index.
func (c *Composite) Locations(d int) []float64 {
	out := make([]float64, c.layout.size)
	for idx := range out {
		out[idx] = c.Location(idx, d)
	}

	return out
}

// Dplus returns the forward spacing of node idx along d (NaN on the upper edge).
func (c *Composite) Dplus(idx, d int) float64 {
	return c.meshers[d].dplus[c.layout.Coordinate(idx, d)]
}

// Dminus returns the backward spacing of node idx along d (NaN on the lower edge).
func (c *Composite) Dminus(idx, d int) float64 {
	return c.meshers[d].dminus[c.layout.Coordinate(idx, d)]
}

// ValidDirection reports ErrDirection for d outside [0, Dims()).
func (c *Composite) ValidDirection(d int) error {
	if d < 0 || d >= len(c.meshers) {
		return fmt.Errorf("direction %d of %d: %w", d, len(c.meshers), ErrDirection)
	}

	return nil
}
