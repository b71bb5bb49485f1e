// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/models"
)

// buildSeq numbers engines in build order across the process.
var buildSeq atomic.Uint64

// Engine answers similar-movie queries over one corpus snapshot. It never
// changes after Build and is safe for concurrent use.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger

	movies      []models.Movie
	lowerTitles []string
	catalogIdx  map[int]int // movie ID -> index into movies

	matrix *RatingMatrix
	index  *NeighborIndex

	version       uint64
	builtAt       time.Time
	buildDuration time.Duration
}

// Build runs the matrix and index stages over a corpus snapshot. movies
// must be in catalog order. Errors wrap ErrData or ErrIndex.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Build(ctx context.Context, movies []models.Movie, ratings []models.Rating, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	start := time.Now()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger = logger.With().Str("component", "recommend").Logger()

	matrix, err := BuildMatrix(movies, ratings, cfg.Thresholds)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index, err := FitIndex(matrix.CSR, cfg.Index)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		logger:      logger,
		movies:      movies,
		lowerTitles: make([]string, len(movies)),
		catalogIdx:  make(map[int]int, len(movies)),
		matrix:      matrix,
		index:       index,
		version:     buildSeq.Add(1),
		builtAt:     time.Now(),
	}
	for i, m := range movies {
		e.lowerTitles[i] = strings.ToLower(m.Title)
		e.catalogIdx[m.ID] = i
	}
	e.buildDuration = time.Since(start)

	stats := matrix.Stats()
	logger.Info().
		Uint64("version", e.version).
		Int("movies", stats.Movies).
		Int("ratings", stats.Ratings).
		Int("rows", stats.Rows).
		Int("cols", stats.Cols).
		Int("nnz", stats.NNZ).
		Int("dropped_movies", stats.DroppedMovies).
		Int("dropped_users", stats.DroppedUsers).
		Dur("duration", e.buildDuration).
		Msg("Built recommendation engine")

	return e, nil
}

// Version returns the engine's build sequence number.
func (e *Engine) Version() uint64 { return e.version }

// Matrix returns the filtered rating matrix.
func (e *Engine) Matrix() *RatingMatrix { return e.matrix }

// Limits returns the configured result count bounds.
func (e *Engine) Limits() LimitsConfig { return e.cfg.Limits }

// Movie looks up a catalog entry by ID.
func (e *Engine) Movie(id int) (models.Movie, bool) {
	i, ok := e.catalogIdx[id]
	if !ok {
		return models.Movie{}, false
	}
	return e.movies[i], true
}

// Status describes the engine.
func (e *Engine) Status() Status {
	return Status{
		Version:       e.version,
		BuiltAt:       e.builtAt,
		BuildDuration: e.buildDuration,
		Catalog:       len(e.movies),
		Matrix:        e.matrix.Stats(),
		Limits:        e.cfg.Limits,
	}
}

// Recommend returns up to limit movies most similar to the first catalog
// title containing query. limit <= 0 selects the default; larger values are
// capped at the configured maximum.
//
// A query that resolves to nothing, or to a movie removed by the rating
// thresholds, is answered with Result.NotFound rather than an error.
func (e *Engine) Recommend(ctx context.Context, query string, limit int) (*Result, error) {
	start := time.Now()
	res, err := e.recommend(ctx, query, limit)
	metrics.RecordRecommendQuery(outcomeOf(res, err), time.Since(start))
	return res, err
}

func (e *Engine) recommend(ctx context.Context, query string, limit int) (*Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	limit = e.cfg.Limits.Clamp(limit)
	res := &Result{Query: q, Limit: limit, EngineVersion: e.version}

	first, matches := e.firstMatch(strings.ToLower(q))
	res.Matches = matches
	if first < 0 {
		res.NotFound = &NotFound{Reason: ReasonNoMatch}
		return res, nil
	}
	movie := e.movies[first]
	res.Movie = &movie

	row, ok := e.matrix.RowOf(movie.ID)
	if !ok {
		res.NotFound = &NotFound{Reason: ReasonFiltered}
		return res, nil
	}

	neighbors, err := e.index.QueryRow(ctx, row, limit+1)
	if err != nil {
		return nil, fmt.Errorf("query neighbors of movie %d: %w", movie.ID, err)
	}

	items := make([]Recommendation, 0, limit)
	for _, n := range neighbors {
		if n.Row == row {
			continue
		}
		if len(items) == limit {
			break
		}
		item, err := e.recommendation(n)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	res.Items = items

	e.logger.Debug().
		Str("query", q).
		Int("movie_id", movie.ID).
		Int("matches", matches).
		Int("items", len(items)).
		Msg("Resolved recommendation query")

	return res, nil
}

// recommendation maps an index hit back to a catalog movie.
func (e *Engine) recommendation(n Neighbor) (Recommendation, error) {
	movieID, ok := e.matrix.MovieAt(n.Row)
	if !ok {
		return Recommendation{}, fmt.Errorf("%w: no movie for row %d", ErrInconsistent, n.Row)
	}
	movie, ok := e.Movie(movieID)
	if !ok {
		return Recommendation{}, fmt.Errorf("%w: movie %d in matrix but not in catalog", ErrInconsistent, movieID)
	}
	sim := 1 - n.Distance
	return Recommendation{
		MovieID:    movieID,
		Title:      movie.Title,
		Score:      fmt.Sprintf("%.3f", sim),
		Similarity: sim,
		Distance:   n.Distance,
	}, nil
}

// firstMatch returns the catalog index of the first title containing
// lowered, or -1, plus the total number of matching titles.
func (e *Engine) firstMatch(lowered string) (first, count int) {
	first = -1
	for i, title := range e.lowerTitles {
		if strings.Contains(title, lowered) {
			if first < 0 {
				first = i
			}
			count++
		}
	}
	return first, count
}

// Search lists catalog titles containing query, in catalog order, flagging
// the ones that can be used as recommendation queries.
func (e *Engine) Search(query string, limit int) ([]MovieMatch, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, ErrEmptyQuery
	}
	limit = e.cfg.Limits.Clamp(limit)

	out := make([]MovieMatch, 0, limit)
	for i, title := range e.lowerTitles {
		if !strings.Contains(title, q) {
			continue
		}
		_, indexed := e.matrix.RowOf(e.movies[i].ID)
		out = append(out, MovieMatch{Movie: e.movies[i], Indexed: indexed})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func outcomeOf(res *Result, err error) string {
	switch {
	case errors.Is(err, ErrEmptyQuery):
		return metrics.OutcomeInvalid
	case err != nil:
		return metrics.OutcomeError
	case res.NotFound == nil:
		return metrics.OutcomeOK
	case res.NotFound.Reason == ReasonFiltered:
		return metrics.OutcomeFiltered
	default:
		return metrics.OutcomeNoMatch
	}
}
