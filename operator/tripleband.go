// SPDX-License-Identifier: MIT

package operator

import (
	"fmt"

	"github.com/katalvlaran/lvfdm/matrix"
	"github.com/katalvlaran/lvfdm/mesher"
	"golang.org/x/sync/errgroup"
)

// TripleBand is a tridiagonal operator along one direction of a mesh: row i
// couples node i with its lower and upper neighbours along that direction.
//
// Entries pointing outside the mesh (lower on the first node of a line,
// upper on the last) are kept at zero by every constructor and combinator,
// so each line is an independent tridiagonal system.
type TripleBand struct {
	direction int
	mesh      *mesher.Composite
	i0, i2    []int // lower and upper neighbour index of each node
	lines     []int // flat index of the first node of every line
	lower     []float64
	diag      []float64
	upper     []float64
	opts      Options
}

// NewTripleBand returns the zero operator along direction d of m.
func NewTripleBand(d int, m *mesher.Composite, opts ...Option) (*TripleBand, error) {
	if err := m.ValidDirection(d); err != nil {
		return nil, fmt.Errorf("NewTripleBand: %w", ErrDirection)
	}
	l := m.Layout()
	n := l.Size()
	t := &TripleBand{
		direction: d,
		mesh:      m,
		i0:        make([]int, n),
		i2:        make([]int, n),
		lower:     make([]float64, n),
		diag:      make([]float64, n),
		upper:     make([]float64, n),
		opts:      gatherOptions(opts...),
	}
	for i := 0; i < n; i++ {
		t.i0[i] = l.Neighbourhood(i, d, -1)
		t.i2[i] = l.Neighbourhood(i, d, 1)
		if l.Coordinate(i, d) == 0 {
			t.lines = append(t.lines, i)
		}
	}

	return t, nil
}

// Direction returns the direction the operator acts along.
func (t *TripleBand) Direction() int { return t.direction }

// Apply implements LinearOp.
func (t *TripleBand) Apply(r []float64) []float64 {
	out := make([]float64, len(r))
	for i := range out {
		out[i] = t.lower[i]*r[t.i0[i]] + t.diag[i]*r[i] + t.upper[i]*r[t.i2[i]]
	}

	return out
}

// ToMatrix implements LinearOp.
func (t *TripleBand) ToMatrix() *matrix.Sparse {
	n := len(t.diag)
	tr, _ := matrix.NewTriplets(n, n, matrix.WithNoValidateNaNInf())
	for i := 0; i < n; i++ {
		_ = tr.Append(i, t.i0[i], t.lower[i])
		_ = tr.Append(i, i, t.diag[i])
		_ = tr.Append(i, t.i2[i], t.upper[i])
	}

	return tr.Build()
}

// Clone returns a deep copy sharing only the immutable index tables.
func (t *TripleBand) Clone() *TripleBand {
	c := *t
	c.lower = append([]float64(nil), t.lower...)
	c.diag = append([]float64(nil), t.diag...)
	c.upper = append([]float64(nil), t.upper...)

	return &c
}

// Mult returns diag(u)·T (row scaling). u has length 1 or Size().
func (t *TripleBand) Mult(u []float64) *TripleBand {
	c := t.Clone()
	for i := range c.diag {
		s := at(u, i)
		c.lower[i] *= s
		c.diag[i] *= s
		c.upper[i] *= s
	}

	return c
}

// MultR returns T·diag(u) (column scaling). u has length 1 or Size().
func (t *TripleBand) MultR(u []float64) *TripleBand {
	c := t.Clone()
	for i := range c.diag {
		c.lower[i] *= at(u, t.i0[i])
		c.diag[i] *= at(u, i)
		c.upper[i] *= at(u, t.i2[i])
	}

	return c
}

// Add returns T + B. Both must act along the same direction of the same mesh.
func (t *TripleBand) Add(b *TripleBand) (*TripleBand, error) {
	if b == nil || b.direction != t.direction || b.mesh != t.mesh {
		return nil, fmt.Errorf("TripleBand.Add: %w", ErrMismatch)
	}
	c := t.Clone()
	for i := range c.diag {
		c.lower[i] += b.lower[i]
		c.diag[i] += b.diag[i]
		c.upper[i] += b.upper[i]
	}

	return c, nil
}

// AddDiag returns T + diag(u). u has length 1 or Size().
func (t *TripleBand) AddDiag(u []float64) *TripleBand {
	c := t.Clone()
	for i := range c.diag {
		c.diag[i] += at(u, i)
	}

	return c
}

// Axpyb overwrites the receiver with diag(a)·x + y + diag(b). Length-1
// slices are broadcast; an empty a drops the x term and an empty b the
// diagonal shift. x, y and the receiver must share direction and mesh.
func (t *TripleBand) Axpyb(a []float64, x, y *TripleBand, b []float64) error {
	if y == nil || y.direction != t.direction || y.mesh != t.mesh ||
		(len(a) > 0 && (x == nil || x.direction != t.direction || x.mesh != t.mesh)) {
		return fmt.Errorf("TripleBand.Axpyb: %w", ErrMismatch)
	}
	for i := range t.diag {
		lo, di, up := y.lower[i], y.diag[i], y.upper[i]
		if len(a) > 0 {
			s := at(a, i)
			lo += s * x.lower[i]
			di += s * x.diag[i]
			up += s * x.upper[i]
		}
		if len(b) > 0 {
			di += at(b, i)
		}
		t.lower[i], t.diag[i], t.upper[i] = lo, di, up
	}

	return nil
}

// SolveSplitting solves (b·I + a·T) x = r by the Thomas algorithm along every
// line of the operator's direction. Lines are independent; with
// WithParallelism(n>1) they are solved by up to n goroutines.
func (t *TripleBand) SolveSplitting(r []float64, a, b float64) ([]float64, error) {
	n := len(t.diag)
	if len(r) != n {
		return nil, fmt.Errorf("TripleBand.SolveSplitting: len(r)=%d, size %d: %w", len(r), n, matrix.ErrDimensionMismatch)
	}
	out := make([]float64, n)
	dim := t.mesh.Layout().Dim(t.direction)
	stride := t.mesh.Layout().Spacing(t.direction)

	solve := func(lines []int) error {
		lo := make([]float64, dim)
		di := make([]float64, dim)
		up := make([]float64, dim)
		rhs := make([]float64, dim)
		x := make([]float64, dim)
		scratch := make([]float64, dim)
		for _, start := range lines {
			for k := 0; k < dim; k++ {
				i := start + k*stride
				lo[k] = a * t.lower[i]
				di[k] = b + a*t.diag[i]
				up[k] = a * t.upper[i]
				rhs[k] = r[i]
			}
			lo[0], up[dim-1] = 0, 0
			if err := matrix.SolveTridiagonal(lo, di, up, rhs, x, scratch); err != nil {
				return fmt.Errorf("TripleBand.SolveSplitting line at %d: %w", start, err)
			}
			for k := 0; k < dim; k++ {
				out[start+k*stride] = x[k]
			}
		}

		return nil
	}

	workers := t.opts.parallelism
	if workers <= 1 || len(t.lines) < 2 {
		if err := solve(t.lines); err != nil {
			return nil, err
		}

		return out, nil
	}
	if workers > len(t.lines) {
		workers = len(t.lines)
	}
	chunk := (len(t.lines) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(t.lines); lo += chunk {
		hi := min(lo+chunk, len(t.lines))
		part := t.lines[lo:hi]
		g.Go(func() error { return solve(part) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// at returns u[i], broadcasting a length-1 slice.
func at(u []float64, i int) float64 {
	if len(u) == 1 {
		return u[0]
	}

	return u[i]
}
