// SPDX-License-Identifier: MIT

package mesher

import "fmt"

// Layout maps a multi-index (one coordinate per direction) to a flat index
//
//	index = Σ coord[d]·spacing[d],  spacing[0] = 1,  spacing[d] = spacing[d-1]·dim[d-1],
//
// so direction 0 varies fastest. The mapping is a bijection over the
// Cartesian product of the dimensions and never changes after construction.
type Layout struct {
	dim     []int
	spacing []int
	size    int
}

// NewLayout creates the layout for the given per-direction sizes.
func NewLayout(dim ...int) (*Layout, error) {
	if len(dim) == 0 {
		return nil, fmt.Errorf("NewLayout: %w", ErrNoMeshers)
	}
	l := &Layout{
		dim:     append([]int(nil), dim...),
		spacing: make([]int, len(dim)),
		size:    1,
	}
	for d, n := range dim {
		if n < 2 {
			return nil, fmt.Errorf("NewLayout dim[%d]=%d: %w", d, n, ErrTooFewPoints)
		}
		l.spacing[d] = l.size
		l.size *= n
	}

	return l, nil
}

// Size returns the total number of nodes.
func (l *Layout) Size() int { return l.size }

// Dims returns the number of directions.
func (l *Layout) Dims() int { return len(l.dim) }

// Dim returns the number of nodes along direction d.
func (l *Layout) Dim(d int) int { return l.dim[d] }

// Spacing returns the flat-index stride of direction d.
func (l *Layout) Spacing(d int) int { return l.spacing[d] }

// Index returns the flat index of coords. Coordinates are not range checked.
func (l *Layout) Index(coords []int) int {
	idx := 0
	for d, c := range coords {
		idx += c * l.spacing[d]
	}

	return idx
}

// Coordinate returns the coordinate of idx along direction d.
func (l *Layout) Coordinate(idx, d int) int {
	return (idx / l.spacing[d]) % l.dim[d]
}

// Coordinates writes all coordinates of idx into dst (allocated when nil).
func (l *Layout) Coordinates(idx int, dst []int) []int {
	if dst == nil {
		dst = make([]int, len(l.dim))
	}
	for d := range l.dim {
		dst[d] = idx % l.dim[d]
		idx /= l.dim[d]
	}

	return dst
}

// Neighbourhood returns the flat index of the node offset steps away from
// idx along direction d. Offsets beyond the mesh are reflected at the
// boundary node.
func (l *Layout) Neighbourhood(idx, d, offset int) int {
	c := l.Coordinate(idx, d)
	return idx + (l.reflect(c+offset, d)-c)*l.spacing[d]
}

// Neighbourhood2 is Neighbourhood applied along two directions.
func (l *Layout) Neighbourhood2(idx, d1, off1, d2, off2 int) int {
	return l.Neighbourhood(l.Neighbourhood(idx, d1, off1), d2, off2)
}

func (l *Layout) reflect(c, d int) int {
	n := l.dim[d]
	if c < 0 {
		return -c
	}
	if c >= n {
		return 2*(n-1) - c
	}

	return c
}
