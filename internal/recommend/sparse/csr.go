// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package sparse implements the compressed sparse row (CSR) matrix the
// neighbor index scans.
//
// A CSR is built row by row through a Builder and is read-only afterwards,
// so it can be shared by any number of concurrent readers. Row norms are
// computed once at build time.
package sparse

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidCell is returned by the builder for a cell outside the column
// range, a repeated column within one row, or a non-finite value.
var ErrInvalidCell = errors.New("invalid sparse cell")

// Cell is one stored entry of a row.
type Cell struct {
	Col   int
	Value float64
}

// Vector is a read-only view of one sparse row. Indices are strictly
// ascending. The slices alias the matrix storage and must not be modified.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of stored entries.
func (v Vector) Len() int { return len(v.Indices) }

// Norm returns the Euclidean norm of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of two vectors with ascending indices.
func Dot(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// CSR is a compressed sparse row matrix.
type CSR struct {
	cols    int
	indptr  []int
	indices []int
	data    []float64
	norms   []float64
}

// Rows returns the number of rows.
func (m *CSR) Rows() int { return len(m.indptr) - 1 }

// Cols returns the number of columns.
func (m *CSR) Cols() int { return m.cols }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.data) }

// Row returns row i. It panics if i is out of range, like a slice index.
func (m *CSR) Row(i int) Vector {
	start, end := m.indptr[i], m.indptr[i+1]
	return Vector{Indices: m.indices[start:end:end], Values: m.data[start:end:end]}
}

// Norm returns the precomputed Euclidean norm of row i.
func (m *CSR) Norm(i int) float64 { return m.norms[i] }

// At returns the value at (row, col), 0 when the cell is not stored.
func (m *CSR) At(row, col int) float64 {
	r := m.Row(row)
	k := sort.SearchInts(r.Indices, col)
	if k < len(r.Indices) && r.Indices[k] == col {
		return r.Values[k]
	}
	return 0
}

// Density returns NNZ / (Rows * Cols), or 0 for an empty matrix.
func (m *CSR) Density() float64 {
	total := m.Rows() * m.cols
	if total == 0 {
		return 0
	}
	return float64(m.NNZ()) / float64(total)
}

// Builder assembles a CSR one row at a time.
type Builder struct {
	cols    int
	indptr  []int
	indices []int
	data    []float64
	norms   []float64
}

// NewBuilder creates a builder for a matrix with the given column count.
// rowsHint and nnzHint size the internal buffers and may be zero.
func NewBuilder(cols, rowsHint, nnzHint int) *Builder {
	b := &Builder{
		cols:    cols,
		indptr:  make([]int, 1, rowsHint+1),
		indices: make([]int, 0, nnzHint),
		data:    make([]float64, 0, nnzHint),
		norms:   make([]float64, 0, rowsHint),
	}
	return b
}

// AppendRow adds the next row. Cells may be given in any order; zero values
// are not stored. On error the builder is left unchanged.
func (b *Builder) AppendRow(cells []Cell) error {
	sorted := make([]Cell, 0, len(cells))
	for _, c := range cells {
		if c.Col < 0 || c.Col >= b.cols {
			return fmt.Errorf("%w: column %d out of range [0,%d)", ErrInvalidCell, c.Col, b.cols)
		}
		if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
			return fmt.Errorf("%w: non-finite value at column %d", ErrInvalidCell, c.Col)
		}
		if c.Value != 0 {
			sorted = append(sorted, c)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Col < sorted[j].Col })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Col == sorted[i-1].Col {
			return fmt.Errorf("%w: column %d repeated", ErrInvalidCell, sorted[i].Col)
		}
	}

	var sq float64
	for _, c := range sorted {
		b.indices = append(b.indices, c.Col)
		b.data = append(b.data, c.Value)
		sq += c.Value * c.Value
	}
	b.indptr = append(b.indptr, len(b.data))
	b.norms = append(b.norms, math.Sqrt(sq))
	return nil
}

// Build returns the assembled matrix. The builder must not be used after
// Build.
func (b *Builder) Build() *CSR {
	m := &CSR{
		cols:    b.cols,
		indptr:  b.indptr,
		indices: b.indices,
		data:    b.data,
		norms:   b.norms,
	}
	*b = Builder{}
	return m
}
