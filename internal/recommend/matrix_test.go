// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/moviematch/internal/models"
)

func TestBuildMatrixFixture(t *testing.T) {
	t.Parallel()

	movies, ratings := fixtureCorpus()
	m, err := BuildMatrix(movies, ratings, DefaultThresholds())
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	if m.CSR.Rows() != 60 || m.CSR.Cols() != 20 {
		t.Fatalf("shape = %dx%d, want 60x20", m.CSR.Rows(), m.CSR.Cols())
	}
	for i := 1; i < len(m.RowMovieIDs); i++ {
		if m.RowMovieIDs[i-1] >= m.RowMovieIDs[i] {
			t.Fatalf("row movie IDs not ascending at %d: %v", i, m.RowMovieIDs)
		}
	}
	for j := 1; j < len(m.ColUserIDs); j++ {
		if m.ColUserIDs[j-1] >= m.ColUserIDs[j] {
			t.Fatalf("column user IDs not ascending at %d", j)
		}
	}

	if _, ok := m.RowOf(obscureID); ok {
		t.Error("movie with 5 ratings should be filtered")
	}
	if _, ok := m.RowOf(sequelID); ok {
		t.Error("unrated movie should not have a row")
	}
	row, ok := m.RowOf(toyStoryID)
	if !ok || row != 0 {
		t.Fatalf("RowOf(toy story) = %d, %v; want 0, true", row, ok)
	}
	if id, _ := m.MovieAt(row); id != toyStoryID {
		t.Errorf("MovieAt(%d) = %d, want %d", row, id, toyStoryID)
	}
	if got := m.CSR.Row(row).Len(); got != 15 {
		t.Errorf("toy story nnz = %d, want 15", got)
	}

	// Missing ratings are zeros.
	col16 := 15
	if v := m.CSR.At(row, col16); v != 0 {
		t.Errorf("At(toy story, user 16) = %v, want 0", v)
	}
	if v := m.CSR.At(row, 0); v != fixtureValue(1, toyStoryID) {
		t.Errorf("At(toy story, user 1) = %v, want %v", v, fixtureValue(1, toyStoryID))
	}

	st := m.Stats()
	if st.DroppedMovies != 1 || st.UnratedMovies != 1 || st.DroppedUsers != 0 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestBuildMatrixThresholdsAreStrict(t *testing.T) {
	t.Parallel()

	movies := []models.Movie{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	var ratings []models.Rating
	// Movie 1: 3 ratings; movie 2: 2 ratings.
	for u := 1; u <= 3; u++ {
		ratings = append(ratings, models.Rating{UserID: u, MovieID: 1, Value: 1})
	}
	ratings = append(ratings,
		models.Rating{UserID: 1, MovieID: 2, Value: 1},
		models.Rating{UserID: 2, MovieID: 2, Value: 1},
	)

	m, err := BuildMatrix(movies, ratings, Thresholds{MinRatingsPerMovie: 2, MinRatingsPerUser: 1})
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if !reflect.DeepEqual(m.RowMovieIDs, []int{1}) {
		t.Errorf("rows = %v, want [1] (count must exceed threshold)", m.RowMovieIDs)
	}
	// Users 1 and 2 have 2 ratings each across the whole table, user 3 has 1.
	if !reflect.DeepEqual(m.ColUserIDs, []int{1, 2}) {
		t.Errorf("cols = %v, want [1 2]", m.ColUserIDs)
	}
}

func TestBuildMatrixUserCountsUseUnfilteredRatings(t *testing.T) {
	t.Parallel()

	movies := []models.Movie{{ID: 10, Title: "Kept"}, {ID: 20, Title: "Dropped"}}
	ratings := []models.Rating{
		{UserID: 1, MovieID: 10, Value: 5},
		{UserID: 2, MovieID: 10, Value: 3},
		// User 1's second rating is on a movie that will be filtered out.
		{UserID: 1, MovieID: 20, Value: 2},
	}

	m, err := BuildMatrix(movies, ratings, Thresholds{MinRatingsPerMovie: 1, MinRatingsPerUser: 1})
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if !reflect.DeepEqual(m.RowMovieIDs, []int{10}) {
		t.Fatalf("rows = %v, want [10]", m.RowMovieIDs)
	}
	if !reflect.DeepEqual(m.ColUserIDs, []int{1}) {
		t.Fatalf("cols = %v, want [1]: user 1 has 2 ratings before movie filtering", m.ColUserIDs)
	}
}

func TestBuildMatrixEmptyRow(t *testing.T) {
	t.Parallel()

	movies := []models.Movie{{ID: 1, Title: "Popular"}, {ID: 2, Title: "Casual"}}
	ratings := []models.Rating{
		{UserID: 1, MovieID: 1, Value: 4},
		{UserID: 1, MovieID: 2, Value: 4},
		{UserID: 2, MovieID: 2, Value: 3},
		{UserID: 3, MovieID: 1, Value: 2},
	}
	// Users need more than 1 rating: only user 1 survives. Both movies
	// have 2 ratings and survive, so movie 2 keeps user 1 and movie 1 too.
	m, err := BuildMatrix(movies, ratings, Thresholds{MinRatingsPerMovie: 1, MinRatingsPerUser: 1})
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if m.Stats().EmptyRows != 0 {
		t.Fatalf("EmptyRows = %d, want 0", m.Stats().EmptyRows)
	}

	// Movie 3 is rated only by users that get dropped.
	movies = append(movies, models.Movie{ID: 3, Title: "Niche"})
	ratings = append(ratings,
		models.Rating{UserID: 4, MovieID: 3, Value: 5},
		models.Rating{UserID: 5, MovieID: 3, Value: 5},
	)
	m, err = BuildMatrix(movies, ratings, Thresholds{MinRatingsPerMovie: 1, MinRatingsPerUser: 1})
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	row, ok := m.RowOf(3)
	if !ok {
		t.Fatal("movie 3 should keep its row")
	}
	if m.CSR.Norm(row) != 0 {
		t.Errorf("Norm = %v, want 0 for a row with no kept users", m.CSR.Norm(row))
	}
	if m.Stats().EmptyRows != 1 {
		t.Errorf("EmptyRows = %d, want 1", m.Stats().EmptyRows)
	}
}

func TestBuildMatrixSkipsUnknownMovies(t *testing.T) {
	t.Parallel()

	catalog := []models.Movie{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	ratings := []models.Rating{
		{UserID: 1, MovieID: 1, Value: 4},
		{UserID: 1, MovieID: 99, Value: 5},
		{UserID: 2, MovieID: 1, Value: 3},
		{UserID: 2, MovieID: 2, Value: 2},
		{UserID: 3, MovieID: 98, Value: 1},
	}

	// User 1 passes only because the orphan rating counts toward them.
	m, err := BuildMatrix(catalog, ratings, Thresholds{MinRatingsPerUser: 1})
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if !reflect.DeepEqual(m.RowMovieIDs, []int{1, 2}) {
		t.Errorf("RowMovieIDs = %v, want [1 2]", m.RowMovieIDs)
	}
	if !reflect.DeepEqual(m.ColUserIDs, []int{1, 2}) {
		t.Errorf("ColUserIDs = %v, want [1 2]", m.ColUserIDs)
	}
	for _, id := range []int{98, 99} {
		if _, ok := m.RowOf(id); ok {
			t.Errorf("RowOf(%d) found a row for a movie outside the catalog", id)
		}
	}

	st := m.Stats()
	if st.OrphanRatings != 2 {
		t.Errorf("OrphanRatings = %d, want 2", st.OrphanRatings)
	}
	if st.NNZ != 3 {
		t.Errorf("NNZ = %d, want 3", st.NNZ)
	}
	if st.Ratings != len(ratings) {
		t.Errorf("Ratings = %d, want %d", st.Ratings, len(ratings))
	}
}

func TestBuildMatrixErrors(t *testing.T) {
	t.Parallel()

	catalog := []models.Movie{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	one := []models.Rating{{UserID: 1, MovieID: 1, Value: 3}}
	loose := Thresholds{}

	tests := []struct {
		name    string
		movies  []models.Movie
		ratings []models.Rating
		th      Thresholds
	}{
		{name: "empty catalog", movies: nil, ratings: one, th: loose},
		{name: "empty ratings", movies: catalog, ratings: nil, th: loose},
		{
			name:    "duplicate catalog id",
			movies:  []models.Movie{{ID: 1, Title: "A"}, {ID: 1, Title: "A again"}},
			ratings: one,
			th:      loose,
		},
		{
			name:    "only unknown movies",
			movies:  catalog,
			ratings: []models.Rating{{UserID: 1, MovieID: 99, Value: 3}},
			th:      loose,
		},
		{
			name:    "duplicate pair",
			movies:  catalog,
			ratings: []models.Rating{{UserID: 1, MovieID: 2, Value: 3}, {UserID: 1, MovieID: 1, Value: 4}, {UserID: 1, MovieID: 2, Value: 5}},
			th:      loose,
		},
		{
			name:    "nan rating",
			movies:  catalog,
			ratings: []models.Rating{{UserID: 1, MovieID: 1, Value: math.NaN()}},
			th:      loose,
		},
		{
			name:    "infinite rating",
			movies:  catalog,
			ratings: []models.Rating{{UserID: 1, MovieID: 1, Value: math.Inf(1)}},
			th:      loose,
		},
		{name: "no movie passes", movies: catalog, ratings: one, th: Thresholds{MinRatingsPerMovie: 1}},
		{name: "no user passes", movies: catalog, ratings: one, th: Thresholds{MinRatingsPerUser: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := BuildMatrix(tt.movies, tt.ratings, tt.th)
			if !errors.Is(err, ErrData) {
				t.Fatalf("BuildMatrix() = %v, %v; want ErrData", m, err)
			}
		})
	}
}
