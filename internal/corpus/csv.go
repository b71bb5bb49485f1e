// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package corpus

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/models"
)

// CSVLoader reads MovieLens movies.csv and ratings.csv. Columns are found by
// header name, so extra columns and any column order are accepted.
type CSVLoader struct {
	MoviesPath  string
	RatingsPath string
}

// Name implements Loader.
func (l *CSVLoader) Name() string { return "csv" }

// Load implements Loader. Any malformed row fails the whole load.
func (l *CSVLoader) Load(ctx context.Context) (*Corpus, error) {
	start := time.Now()

	movies, err := readCSV(ctx, l.MoviesPath, []string{"movieId", "title", "genres"}, parseMovie)
	if err != nil {
		return nil, err
	}
	ratings, err := readCSV(ctx, l.RatingsPath, []string{"userId", "movieId", "rating"}, parseRating)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("movies_path", l.MoviesPath).
		Str("ratings_path", l.RatingsPath).
		Int("movies", len(movies)).
		Int("ratings", len(ratings)).
		Dur("duration", time.Since(start)).
		Msg("Loaded corpus from CSV")

	return &Corpus{Movies: movies, Ratings: ratings}, nil
}

// ReadMovies parses a movies.csv stream.
func ReadMovies(r io.Reader) ([]models.Movie, error) {
	return parseCSV(context.Background(), r, "movies", []string{"movieId", "title", "genres"}, parseMovie)
}

// ReadRatings parses a ratings.csv stream.
func ReadRatings(r io.Reader) ([]models.Rating, error) {
	return parseCSV(context.Background(), r, "ratings", []string{"userId", "movieId", "rating"}, parseRating)
}

func readCSV[T any](ctx context.Context, path string, columns []string, parse func([]string, []int) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parseCSV(ctx, bufio.NewReaderSize(f, 1<<20), path, columns, parse)
}

// parseCSV reads a header row, locates columns, and parses every record.
func parseCSV[T any](ctx context.Context, r io.Reader, name string, columns []string, parse func([]string, []int) (T, error)) ([]T, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: missing header row", ErrMalformed, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
	}
	idx, err := columnIndexes(header, columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
	}

	var out []T
	for n := 0; ; n++ {
		if n%65536 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
		}
		v, err := parse(rec, idx)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrMalformed, name, line, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func columnIndexes(header, columns []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		pos[strings.TrimSpace(h)] = i
	}
	idx := make([]int, len(columns))
	for i, c := range columns {
		p, ok := pos[c]
		if !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
		idx[i] = p
	}
	return idx, nil
}

func parseMovie(rec []string, idx []int) (models.Movie, error) {
	id, err := strconv.Atoi(strings.TrimSpace(rec[idx[0]]))
	if err != nil {
		return models.Movie{}, fmt.Errorf("movieId %q: %w", rec[idx[0]], err)
	}
	title := strings.TrimSpace(rec[idx[1]])
	if title == "" {
		return models.Movie{}, fmt.Errorf("movie %d has an empty title", id)
	}
	return models.Movie{ID: id, Title: title, Genres: models.ParseGenres(rec[idx[2]])}, nil
}

func parseRating(rec []string, idx []int) (models.Rating, error) {
	user, err := strconv.Atoi(strings.TrimSpace(rec[idx[0]]))
	if err != nil {
		return models.Rating{}, fmt.Errorf("userId %q: %w", rec[idx[0]], err)
	}
	movie, err := strconv.Atoi(strings.TrimSpace(rec[idx[1]]))
	if err != nil {
		return models.Rating{}, fmt.Errorf("movieId %q: %w", rec[idx[1]], err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[2]]), 64)
	if err != nil {
		return models.Rating{}, fmt.Errorf("rating %q: %w", rec[idx[2]], err)
	}
	return models.Rating{UserID: user, MovieID: movie, Value: value}, nil
}
