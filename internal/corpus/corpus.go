// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package corpus loads the movie catalog and the ratings table from a
// configured source.
//
// Every Loader returns movies in catalog order. Title search takes the
// first catalog match, so a loader that reorders movies changes which movie
// a query resolves to.
//
// Sources:
//   - csv: MovieLens movies.csv and ratings.csv parsed in Go
//   - duckdb: a DuckDB database file, or the same CSVs imported through DuckDB
//   - mongo: movies and ratings collections in MongoDB
//
// New wraps the chosen loader in a circuit breaker when enabled, so
// scheduled rebuilds stop hitting a source that keeps failing.
package corpus

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/models"
)

var (
	// ErrMalformed reports an input row that could not be parsed.
	ErrMalformed = errors.New("corpus: malformed input")

	// ErrUnknownSource reports a source name New does not recognise.
	ErrUnknownSource = errors.New("corpus: unknown source")
)

// Corpus is one consistent snapshot of the catalog and its ratings.
type Corpus struct {
	Movies  []models.Movie
	Ratings []models.Rating
}

// Stats summarises a corpus.
type Stats struct {
	Movies    int     `json:"movies"`
	Ratings   int     `json:"ratings"`
	Users     int     `json:"users"`
	MinRating float64 `json:"min_rating"`
	MaxRating float64 `json:"max_rating"`
}

// Stats counts movies, ratings and distinct users.
func (c *Corpus) Stats() Stats {
	s := Stats{Movies: len(c.Movies), Ratings: len(c.Ratings)}
	users := make(map[int]struct{})
	for i, r := range c.Ratings {
		users[r.UserID] = struct{}{}
		if i == 0 || r.Value < s.MinRating {
			s.MinRating = r.Value
		}
		if i == 0 || r.Value > s.MaxRating {
			s.MaxRating = r.Value
		}
	}
	s.Users = len(users)
	return s
}

// Loader produces a Corpus.
type Loader interface {
	Load(ctx context.Context) (*Corpus, error)
	Name() string
}

// New builds the loader selected by cfg.Source.
func New(cfg config.CorpusConfig) (Loader, error) {
	var l Loader
	switch cfg.Source {
	case config.SourceCSV, "":
		l = &CSVLoader{MoviesPath: cfg.MoviesPath, RatingsPath: cfg.RatingsPath}
	case config.SourceDuckDB:
		l = &DuckDBLoader{DB: cfg.DuckDB, MoviesCSV: cfg.MoviesPath, RatingsCSV: cfg.RatingsPath}
	case config.SourceMongo:
		l = &MongoLoader{
			URI:               cfg.Mongo.URI,
			Database:          cfg.Mongo.Database,
			MoviesCollection:  cfg.Mongo.MoviesCollection,
			RatingsCollection: cfg.Mongo.RatingsCollection,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}

	if cfg.LoadTimeout > 0 {
		l = &timeoutLoader{Loader: l, timeout: cfg.LoadTimeout}
	}
	if cfg.Breaker.Enabled {
		l = NewBreakerLoader(l, cfg.Breaker)
	}
	return l, nil
}
