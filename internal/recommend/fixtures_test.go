// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/models"
)

// Fixture catalog:
//
//	1        Toy Story (1995), rated by users 1-15
//	2..60    Movie NN (2000), rated by users 1-20
//	61       Obscure Film (2001), rated by users 1-5 (filtered out)
//	62       Toy Story 2 (1999), never rated
//
// Every user rates at least 59 movies, so all 20 users are kept.
const (
	toyStoryID = 1
	obscureID  = 61
	sequelID   = 62
)

func fixtureCorpus() ([]models.Movie, []models.Rating) {
	movies := []models.Movie{{ID: toyStoryID, Title: "Toy Story (1995)", Genres: []string{"Animation"}}}
	for id := 2; id <= 60; id++ {
		movies = append(movies, models.Movie{ID: id, Title: fmt.Sprintf("Movie %02d (2000)", id)})
	}
	movies = append(movies,
		models.Movie{ID: obscureID, Title: "Obscure Film (2001)"},
		models.Movie{ID: sequelID, Title: "Toy Story 2 (1999)"},
	)

	var ratings []models.Rating
	for user := 1; user <= 20; user++ {
		for id := 1; id <= 60; id++ {
			if id == toyStoryID && user > 15 {
				continue
			}
			ratings = append(ratings, models.Rating{UserID: user, MovieID: id, Value: fixtureValue(user, id)})
		}
		if user <= 5 {
			ratings = append(ratings, models.Rating{UserID: user, MovieID: obscureID, Value: 4})
		}
	}
	return movies, ratings
}

// fixtureValue spreads ratings over 0.5..5.0 so rows differ.
func fixtureValue(user, movie int) float64 {
	return float64((user*7+movie*3)%10)/2 + 0.5
}

func fixtureEngine(t *testing.T) *Engine {
	t.Helper()
	movies, ratings := fixtureCorpus()
	e, err := Build(context.Background(), movies, ratings, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return e
}

// looseConfig keeps every movie and user.
func looseConfig() *Config {
	cfg := DefaultConfig()
	cfg.Thresholds = Thresholds{MinRatingsPerMovie: 0, MinRatingsPerUser: 0}
	return cfg
}
