// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/moviematch/internal/cache"
	"github.com/tomtom215/moviematch/internal/recommend/sparse"
)

// Neighbor is one index hit.
type Neighbor struct {
	Row      int     `json:"row"`
	Distance float64 `json:"distance"`
}

// closer orders neighbors by ascending distance, then ascending row, which
// makes query output deterministic when distances tie.
func closer(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Row < b.Row
}

// NeighborIndex is an exhaustive cosine-distance index over the rows of a
// CSR matrix. It is immutable after FitIndex and safe for concurrent use.
type NeighborIndex struct {
	m    *sparse.CSR
	opts IndexOptions
}

// FitIndex builds an index over m. An empty matrix yields ErrIndex.
func FitIndex(m *sparse.CSR, opts IndexOptions) (*NeighborIndex, error) {
	if m == nil || m.Rows() == 0 {
		return nil, fmt.Errorf("%w: cannot fit on an empty matrix", ErrIndex)
	}
	return &NeighborIndex{m: m, opts: opts.withDefaults()}, nil
}

// Len returns the number of indexed rows.
func (ix *NeighborIndex) Len() int { return ix.m.Rows() }

// CosineDistance returns 1 - dot/(na*nb) clipped to [0, 2]. A zero norm
// means similarity 0, so distance 1.
func CosineDistance(dot, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - dot/(na*nb)
	switch {
	case d < 0:
		return 0
	case d > 2:
		return 2
	default:
		return d
	}
}

// Query returns the k rows closest to q, nearest first. k larger than the
// index returns every row. The query vector itself is not special: if it
// is a row of the index, that row comes back at distance 0 (or 1 for an
// all-zero row).
func (ix *NeighborIndex) Query(ctx context.Context, q sparse.Vector, k int) ([]Neighbor, error) {
	return ix.scan(ctx, q, q.Norm(), k)
}

// QueryRow is Query using an indexed row as the query vector.
func (ix *NeighborIndex) QueryRow(ctx context.Context, row, k int) ([]Neighbor, error) {
	if row < 0 || row >= ix.m.Rows() {
		return nil, fmt.Errorf("%w: row %d out of range [0,%d)", ErrInconsistent, row, ix.m.Rows())
	}
	return ix.scan(ctx, ix.m.Row(row), ix.m.Norm(row), k)
}

func (ix *NeighborIndex) scan(ctx context.Context, q sparse.Vector, qNorm float64, k int) ([]Neighbor, error) {
	rows := ix.m.Rows()
	if k <= 0 {
		return []Neighbor{}, nil
	}
	if k > rows {
		k = rows
	}

	workers := ix.opts.Workers
	if maxWorkers := (rows + ix.opts.MinRowsPerWorker - 1) / ix.opts.MinRowsPerWorker; workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (rows + workers - 1) / workers

	partials := make([]*cache.TopK[Neighbor], workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > rows {
			end = rows
		}
		top := cache.NewTopK(k, closer)
		partials[w] = top
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for r := start; r < end; r++ {
				if (r-start)%4096 == 0 && ctx.Err() != nil {
					return
				}
				d := CosineDistance(sparse.Dot(q, ix.m.Row(r)), qNorm, ix.m.Norm(r))
				top.Push(Neighbor{Row: r, Distance: d})
			}
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := cache.NewTopK(k, closer)
	for _, p := range partials {
		for _, n := range p.Sorted() {
			merged.Push(n)
		}
	}
	return merged.Sorted(), nil
}
