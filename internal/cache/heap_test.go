// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package cache

import (
	"math/rand"
	"sort"
	"testing"
)

func intLess(a, b int) bool { return a < b }

func TestTopK_KeepsSmallest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		k      int
		values []int
		want   []int
	}{
		{"fewer than k", 5, []int{3, 1, 2}, []int{1, 2, 3}},
		{"exactly k", 3, []int{9, 4, 7}, []int{4, 7, 9}},
		{"more than k", 3, []int{9, 4, 7, 1, 8, 2}, []int{1, 2, 4}},
		{"duplicates", 2, []int{5, 5, 5, 1}, []int{1, 5}},
		{"zero k", 0, []int{1, 2}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewTopK(tt.k, intLess)
			for _, v := range tt.values {
				h.Push(v)
			}
			got := h.Sorted()
			if len(got) != len(tt.want) {
				t.Fatalf("Sorted() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Sorted() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTopK_Worst(t *testing.T) {
	t.Parallel()

	h := NewTopK(2, intLess)
	if _, ok := h.Worst(); ok {
		t.Error("Worst() on empty heap returned ok")
	}
	h.Push(4)
	h.Push(1)
	if w, _ := h.Worst(); w != 4 {
		t.Errorf("Worst() = %d, want 4", w)
	}
	if h.Push(6) {
		t.Error("Push(6) kept a value worse than every retained value")
	}
	if !h.Push(2) {
		t.Error("Push(2) rejected a better value")
	}
	if w, _ := h.Worst(); w != 2 {
		t.Errorf("Worst() = %d, want 2", w)
	}
}

func TestTopK_MatchesFullSort(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	values := make([]int, 500)
	for i := range values {
		values[i] = rng.Intn(1000)
	}

	h := NewTopK(25, intLess)
	for _, v := range values {
		h.Push(v)
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	got := h.Sorted()
	for i := range got {
		if got[i] != sorted[i] {
			t.Fatalf("position %d: got %d, want %d", i, got[i], sorted[i])
		}
	}
}
