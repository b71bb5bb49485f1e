// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package cache

import "sort"

// TopK keeps the k best values seen so far, where a is better than b when
// less(a, b). Internally it is a heap with the worst kept value at the root,
// so Push is O(log k) and rejecting a value that cannot enter is O(1).
//
// TopK is not safe for concurrent use; the neighbor scan gives each worker
// its own instance and merges them afterwards.
type TopK[T any] struct {
	k    int
	less func(a, b T) bool
	heap []T
}

// NewTopK creates a TopK retaining at most k values. k <= 0 retains nothing.
func NewTopK[T any](k int, less func(a, b T) bool) *TopK[T] {
	if k < 0 {
		k = 0
	}
	capHint := k
	if capHint > 1024 {
		capHint = 1024
	}
	return &TopK[T]{k: k, less: less, heap: make([]T, 0, capHint)}
}

// Push offers v and reports whether it was kept.
func (h *TopK[T]) Push(v T) bool {
	if h.k == 0 {
		return false
	}
	if len(h.heap) < h.k {
		h.heap = append(h.heap, v)
		h.up(len(h.heap) - 1)
		return true
	}
	if !h.less(v, h.heap[0]) {
		return false
	}
	h.heap[0] = v
	h.down(0)
	return true
}

// Len returns the number of retained values.
func (h *TopK[T]) Len() int { return len(h.heap) }

// Worst returns the worst retained value. ok is false when empty.
func (h *TopK[T]) Worst() (v T, ok bool) {
	if len(h.heap) == 0 {
		return v, false
	}
	return h.heap[0], true
}

// Sorted returns the retained values best first. The TopK is unchanged.
func (h *TopK[T]) Sorted() []T {
	out := make([]T, len(h.heap))
	copy(out, h.heap)
	sort.Slice(out, func(i, j int) bool { return h.less(out[i], out[j]) })
	return out
}

// worse reports whether heap[i] should sit above heap[j].
func (h *TopK[T]) worse(i, j int) bool {
	return h.less(h.heap[j], h.heap[i])
}

func (h *TopK[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.worse(i, parent) {
			return
		}
		h.heap[i], h.heap[parent] = h.heap[parent], h.heap[i]
		i = parent
	}
}

func (h *TopK[T]) down(i int) {
	n := len(h.heap)
	for {
		top := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.worse(left, top) {
			top = left
		}
		if right < n && h.worse(right, top) {
			top = right
		}
		if top == i {
			return
		}
		h.heap[i], h.heap[top] = h.heap[top], h.heap[i]
		i = top
	}
}
