// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package corpus

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/database"
	"github.com/tomtom215/moviematch/internal/logging"
)

// DuckDBLoader reads the corpus from a DuckDB store. When the store holds
// no movies and both CSV paths are set, the CSVs are imported first, into
// DB.Path or an in-memory database when DB.Path is empty. A database
// filled by Snapshot is read as is.
type DuckDBLoader struct {
	DB         config.DuckDBConfig
	MoviesCSV  string
	RatingsCSV string
}

// Name implements Loader.
func (l *DuckDBLoader) Name() string { return "duckdb" }

// Load implements Loader.
func (l *DuckDBLoader) Load(ctx context.Context) (*Corpus, error) {
	start := time.Now()

	db, err := database.New(&l.DB)
	if err != nil {
		return nil, fmt.Errorf("duckdb corpus: %w", err)
	}
	defer db.Close()

	counts, err := db.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("duckdb corpus: %w", err)
	}
	if counts.Movies == 0 && l.MoviesCSV != "" && l.RatingsCSV != "" {
		if _, err := db.ImportMovieLens(ctx, l.MoviesCSV, l.RatingsCSV); err != nil {
			return nil, fmt.Errorf("duckdb corpus: %w", err)
		}
	}

	movies, err := db.Movies(ctx)
	if err != nil {
		return nil, fmt.Errorf("duckdb corpus: %w", err)
	}
	ratings, err := db.Ratings(ctx)
	if err != nil {
		return nil, fmt.Errorf("duckdb corpus: %w", err)
	}

	logging.Debug().
		Str("path", db.Path()).
		Int("movies", len(movies)).
		Int("ratings", len(ratings)).
		Dur("duration", time.Since(start)).
		Msg("Loaded corpus from DuckDB")

	return &Corpus{Movies: movies, Ratings: ratings}, nil
}

// Snapshot loads a corpus with src and stores it in the DuckDB database at
// cfg.Path, replacing what was there.
func Snapshot(ctx context.Context, src Loader, cfg config.DuckDBConfig) (database.Counts, error) {
	c, err := src.Load(ctx)
	if err != nil {
		return database.Counts{}, err
	}

	db, err := database.New(&cfg)
	if err != nil {
		return database.Counts{}, err
	}
	defer db.Close()

	if err := db.ReplaceCorpus(ctx, c.Movies, c.Ratings); err != nil {
		return database.Counts{}, err
	}
	return db.Counts(ctx)
}
