// SPDX-License-Identifier: MIT

// Package matrix - Sparse storage (compressed sparse rows) & triplet assembly.
//
// Purpose:
//   - Expose the explicit representation of banded finite-difference
//     operators for direct decomposition and inspection.
//   - Assemble from (i, j, v) triplets; duplicates are summed.
//   - Interoperate with gonum through Dense().
//
// Complexity quicksheet:
//   - Append: O(1) amortized; Build: O(nnz log nnz); At: O(log nnz(row));
//     MulVec: O(nnz); Dense: O(r*c).
package matrix

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	ctxAppend = "Triplets.Append"
	ctxAt     = "Sparse.At"
	ctxMulVec = "Sparse.MulVec"
	ctxAdd    = "Sparse.Add"
)

// triplet is one (row, col, value) entry awaiting compression.
type triplet struct {
	i, j int
	v    float64
}

// Triplets accumulates coordinate entries before compression into *Sparse.
type Triplets struct {
	r, c int
	data []triplet
	opts Options
}

// NewTriplets creates an empty r×c coordinate buffer.
// Returns ErrBadShape if r<=0 or c<=0.
func NewTriplets(rows, cols int, opts ...Option) (*Triplets, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewTriplets(%d,%d): %w", rows, cols, ErrBadShape)
	}

	return &Triplets{r: rows, c: cols, opts: gatherOptions(opts...)}, nil
}

// Append records v at (i, j). Entries at the same position are summed by Build.
// Exact zeros are dropped unless WithKeepZeros was given.
func (t *Triplets) Append(i, j int, v float64) error {
	if i < 0 || i >= t.r || j < 0 || j >= t.c {
		return fmt.Errorf("%s(%d,%d): %w", ctxAppend, i, j, ErrOutOfRange)
	}
	if t.opts.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return fmt.Errorf("%s(%d,%d): %w", ctxAppend, i, j, ErrNaNInf)
	}
	if v == 0 && t.opts.dropZeros {
		return nil
	}
	t.data = append(t.data, triplet{i: i, j: j, v: v})

	return nil
}

// Build compresses the buffered triplets into CSR form.
// Implementation:
//   - Stage 1: stable sort by (row, col) so duplicate summation order is fixed.
//   - Stage 2: merge duplicates and emit row pointers.
//
// The buffer stays usable; Build may be called again after more appends.
func (t *Triplets) Build() *Sparse {
	entries := make([]triplet, len(t.data))
	copy(entries, t.data)
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].i != entries[b].i {
			return entries[a].i < entries[b].i
		}

		return entries[a].j < entries[b].j
	})

	s := &Sparse{
		r:      t.r,
		c:      t.c,
		indptr: make([]int, t.r+1),
	}
	for k := 0; k < len(entries); k++ {
		e := entries[k]
		last := len(s.indices) - 1
		if last >= 0 && s.rowOf(last) == e.i && s.indices[last] == e.j {
			s.data[last] += e.v

			continue
		}
		s.indices = append(s.indices, e.j)
		s.data = append(s.data, e.v)
		s.rowIdx = append(s.rowIdx, e.i)
	}
	for _, i := range s.rowIdx {
		s.indptr[i+1]++
	}
	for i := 0; i < s.r; i++ {
		s.indptr[i+1] += s.indptr[i]
	}
	s.rowIdx = nil

	return s
}

// Sparse is an immutable matrix in compressed sparse row format.
type Sparse struct {
	r, c    int
	indptr  []int     // len r+1
	indices []int     // column of each stored value
	data    []float64 // stored values
	rowIdx  []int     // assembly scratch, nil once built
}

// rowOf is only valid during Build, while rowIdx is populated.
func (s *Sparse) rowOf(k int) int { return s.rowIdx[k] }

// Rows returns the row count.
func (s *Sparse) Rows() int { return s.r }

// Cols returns the column count.
func (s *Sparse) Cols() int { return s.c }

// NNZ returns the number of stored entries.
func (s *Sparse) NNZ() int { return len(s.data) }

// At returns the value at (i, j); positions outside the pattern read as zero.
func (s *Sparse) At(i, j int) (float64, error) {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return 0, fmt.Errorf("%s(%d,%d): %w", ctxAt, i, j, ErrOutOfRange)
	}
	lo, hi := s.indptr[i], s.indptr[i+1]
	k := lo + sort.SearchInts(s.indices[lo:hi], j)
	if k < hi && s.indices[k] == j {
		return s.data[k], nil
	}

	return 0, nil
}

// MulVec computes dst = S·x. dst must have length Rows(), x length Cols().
// dst is overwritten.
func (s *Sparse) MulVec(dst, x []float64) error {
	if dst == nil || x == nil {
		return fmt.Errorf("%s: %w", ctxMulVec, ErrNilMatrix)
	}
	if len(x) != s.c || len(dst) != s.r {
		return fmt.Errorf("%s: %w", ctxMulVec, ErrDimensionMismatch)
	}
	for i := 0; i < s.r; i++ {
		acc := 0.0
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			acc += s.data[k] * x[s.indices[k]]
		}
		dst[i] = acc
	}

	return nil
}

// Add returns S + B as a new matrix. Shapes must agree.
func (s *Sparse) Add(b *Sparse) (*Sparse, error) {
	if b == nil {
		return nil, fmt.Errorf("%s: %w", ctxAdd, ErrNilMatrix)
	}
	if s.r != b.r || s.c != b.c {
		return nil, fmt.Errorf("%s: %w", ctxAdd, ErrDimensionMismatch)
	}
	t, _ := NewTriplets(s.r, s.c, WithNoValidateNaNInf())
	for _, m := range []*Sparse{s, b} {
		for i := 0; i < m.r; i++ {
			for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
				t.data = append(t.data, triplet{i: i, j: m.indices[k], v: m.data[k]})
			}
		}
	}

	return t.Build(), nil
}

// Each calls fn for every stored entry in row-major order.
func (s *Sparse) Each(fn func(i, j int, v float64)) {
	for i := 0; i < s.r; i++ {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			fn(i, s.indices[k], s.data[k])
		}
	}
}

// Dense materializes the matrix as a gonum dense matrix. Intended for small
// systems (reference solves, inspection); memory is O(r*c).
func (s *Sparse) Dense() *mat.Dense {
	d := mat.NewDense(s.r, s.c, nil)
	for i := 0; i < s.r; i++ {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			d.Set(i, s.indices[k], s.data[k])
		}
	}

	return d
}

// Clone returns a deep copy.
func (s *Sparse) Clone() *Sparse {
	out := &Sparse{
		r:       s.r,
		c:       s.c,
		indptr:  append([]int(nil), s.indptr...),
		indices: append([]int(nil), s.indices...),
		data:    append([]float64(nil), s.data...),
	}

	return out
}
