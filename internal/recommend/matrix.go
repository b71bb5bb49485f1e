// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/moviematch/internal/models"
	"github.com/tomtom215/moviematch/internal/recommend/sparse"
)

// RatingMatrix is the filtered movie x user matrix. Row i holds the ratings
// of movie RowMovieIDs[i]; column j holds user ColUserIDs[j]. Both are in
// ascending ID order.
type RatingMatrix struct {
	CSR         *sparse.CSR
	RowMovieIDs []int
	ColUserIDs  []int
	Thresholds  Thresholds

	rowOf map[int]int
	stats MatrixStats
}

// RowOf returns the row of movieID, or false when the movie was filtered
// out or never rated.
func (m *RatingMatrix) RowOf(movieID int) (int, bool) {
	row, ok := m.rowOf[movieID]
	return row, ok
}

// MovieAt returns the movie ID stored in row.
func (m *RatingMatrix) MovieAt(row int) (int, bool) {
	if row < 0 || row >= len(m.RowMovieIDs) {
		return 0, false
	}
	return m.RowMovieIDs[row], true
}

// MatrixStats summarises a build for logs, metrics and the status endpoint.
type MatrixStats struct {
	Movies         int     `json:"movies"`
	Users          int     `json:"users"`
	Ratings        int     `json:"ratings"`
	Rows           int     `json:"rows"`
	Cols           int     `json:"cols"`
	NNZ            int     `json:"nnz"`
	Density        float64 `json:"density"`
	DroppedMovies  int     `json:"dropped_movies"`
	DroppedUsers   int     `json:"dropped_users"`
	UnratedMovies  int     `json:"unrated_movies"`
	OrphanRatings  int     `json:"orphan_ratings"`
	EmptyRows      int     `json:"empty_rows"`
	MinMovieRating int     `json:"min_ratings_per_movie"`
	MinUserRating  int     `json:"min_ratings_per_user"`
}

// Stats holds the counts observed while building m.
func (m *RatingMatrix) Stats() MatrixStats { return m.stats }

// BuildMatrix pivots ratings into the thresholded movie x user matrix.
//
// Per-movie and per-user counts are both taken over the full ratings list,
// so removing a movie never changes whether a user is kept. Cells for
// users that survive but never rated a kept movie stay zero.
//
// Ratings of movies missing from the catalog never become rows. They still
// count toward their user's total and are reported as OrphanRatings. The
// returned error wraps ErrData.
func BuildMatrix(movies []models.Movie, ratings []models.Rating, th Thresholds) (*RatingMatrix, error) {
	if len(movies) == 0 {
		return nil, fmt.Errorf("%w: movie catalog is empty", ErrData)
	}
	if len(ratings) == 0 {
		return nil, fmt.Errorf("%w: ratings table is empty", ErrData)
	}

	catalog := make(map[int]struct{}, len(movies))
	for _, mv := range movies {
		if _, dup := catalog[mv.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate movie id %d in catalog", ErrData, mv.ID)
		}
		catalog[mv.ID] = struct{}{}
	}

	movieCounts := make(map[int]int)
	userCounts := make(map[int]int)
	orphans := 0
	for i, r := range ratings {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return nil, fmt.Errorf("%w: rating %d (user %d, movie %d) is not finite", ErrData, i, r.UserID, r.MovieID)
		}
		userCounts[r.UserID]++
		if _, ok := catalog[r.MovieID]; !ok {
			orphans++
			continue
		}
		movieCounts[r.MovieID]++
	}

	rowIDs := keysAbove(movieCounts, th.MinRatingsPerMovie)
	if len(rowIDs) == 0 {
		return nil, fmt.Errorf("%w: no movie has more than %d ratings", ErrData, th.MinRatingsPerMovie)
	}
	colIDs := keysAbove(userCounts, th.MinRatingsPerUser)
	if len(colIDs) == 0 {
		return nil, fmt.Errorf("%w: no user has more than %d ratings", ErrData, th.MinRatingsPerUser)
	}

	rowOf := make(map[int]int, len(rowIDs))
	for i, id := range rowIDs {
		rowOf[id] = i
	}
	colOf := make(map[int]int, len(colIDs))
	for j, id := range colIDs {
		colOf[id] = j
	}

	// Group kept cells by row. Duplicate (user, movie) pairs are detected
	// over the whole table, not only the kept part.
	byRow := make([][]sparse.Cell, len(rowIDs))
	order := make([]int, len(ratings))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ra, rb := ratings[order[a]], ratings[order[b]]
		if ra.MovieID != rb.MovieID {
			return ra.MovieID < rb.MovieID
		}
		return ra.UserID < rb.UserID
	})

	nnzHint := 0
	for k, idx := range order {
		r := ratings[idx]
		if k > 0 {
			prev := ratings[order[k-1]]
			if prev.MovieID == r.MovieID && prev.UserID == r.UserID {
				return nil, fmt.Errorf("%w: user %d rated movie %d more than once", ErrData, r.UserID, r.MovieID)
			}
		}
		row, keepRow := rowOf[r.MovieID]
		col, keepCol := colOf[r.UserID]
		if keepRow && keepCol {
			byRow[row] = append(byRow[row], sparse.Cell{Col: col, Value: r.Value})
			nnzHint++
		}
	}

	b := sparse.NewBuilder(len(colIDs), len(rowIDs), nnzHint)
	emptyRows := 0
	for row, cells := range byRow {
		if err := b.AppendRow(cells); err != nil {
			return nil, fmt.Errorf("%w: movie %d: %w", ErrData, rowIDs[row], err)
		}
		if len(cells) == 0 {
			emptyRows++
		}
	}
	csr := b.Build()

	return &RatingMatrix{
		CSR:         csr,
		RowMovieIDs: rowIDs,
		ColUserIDs:  colIDs,
		Thresholds:  th,
		rowOf:       rowOf,
		stats: MatrixStats{
			Movies:         len(movies),
			Users:          len(userCounts),
			Ratings:        len(ratings),
			Rows:           csr.Rows(),
			Cols:           csr.Cols(),
			NNZ:            csr.NNZ(),
			Density:        csr.Density(),
			DroppedMovies:  len(movieCounts) - len(rowIDs),
			DroppedUsers:   len(userCounts) - len(colIDs),
			UnratedMovies:  len(movies) - len(movieCounts),
			OrphanRatings:  orphans,
			EmptyRows:      emptyRows,
			MinMovieRating: th.MinRatingsPerMovie,
			MinUserRating:  th.MinRatingsPerUser,
		},
	}, nil
}

// keysAbove returns, in ascending order, the keys whose count exceeds floor.
func keysAbove(counts map[int]int, floor int) []int {
	keys := make([]int, 0, len(counts))
	for id, n := range counts {
		if n > floor {
			keys = append(keys, id)
		}
	}
	sort.Ints(keys)
	return keys
}
