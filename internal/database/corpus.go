// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/models"
)

// Counts reports table sizes.
type Counts struct {
	Movies  int `json:"movies"`
	Ratings int `json:"ratings"`
	Users   int `json:"users"`
}

// quoteLiteral renders s as a SQL string literal. read_csv takes its path
// as a literal, not a bound parameter.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ImportMovieLens replaces the stored corpus with the contents of a
// MovieLens movies.csv and ratings.csv. Both files must have a header row.
// Catalog order is the order of rows in movies.csv.
func (db *DB) ImportMovieLens(ctx context.Context, moviesCSV, ratingsCSV string) (Counts, error) {
	loadMovies := fmt.Sprintf(`
		INSERT INTO movies (movie_id, title, genres, position)
		SELECT movieId, title, COALESCE(genres, ''), CAST(row_number() OVER () - 1 AS INTEGER)
		FROM read_csv(%s, header = true, quote = '"', escape = '"',
			columns = {'movieId': 'INTEGER', 'title': 'VARCHAR', 'genres': 'VARCHAR'})`,
		quoteLiteral(moviesCSV))

	loadRatings := fmt.Sprintf(`
		INSERT INTO ratings (user_id, movie_id, rating, rated_at)
		SELECT userId, movieId, rating, "timestamp"
		FROM read_csv(%s, header = true,
			columns = {'userId': 'INTEGER', 'movieId': 'INTEGER', 'rating': 'DOUBLE', 'timestamp': 'BIGINT'})`,
		quoteLiteral(ratingsCSV))

	err := db.replace(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, loadMovies); err != nil {
			return fmt.Errorf("import %s: %w", moviesCSV, err)
		}
		if _, err := tx.ExecContext(ctx, loadRatings); err != nil {
			return fmt.Errorf("import %s: %w", ratingsCSV, err)
		}
		return nil
	})
	if err != nil {
		return Counts{}, err
	}

	counts, err := db.Counts(ctx)
	if err != nil {
		return Counts{}, err
	}
	logging.Info().
		Str("movies_csv", moviesCSV).
		Str("ratings_csv", ratingsCSV).
		Int("movies", counts.Movies).
		Int("ratings", counts.Ratings).
		Msg("Imported MovieLens corpus into DuckDB")
	return counts, nil
}

// ReplaceCorpus replaces the stored corpus with movies and ratings. The
// slice order of movies becomes catalog order.
func (db *DB) ReplaceCorpus(ctx context.Context, movies []models.Movie, ratings []models.Rating) error {
	return db.replace(ctx, func(tx *sql.Tx) error {
		movieStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO movies (movie_id, title, genres, position) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare movie insert: %w", err)
		}
		defer closeQuietly(movieStmt)

		for i, m := range movies {
			if _, err := movieStmt.ExecContext(ctx, m.ID, m.Title, strings.Join(m.Genres, "|"), i); err != nil {
				return fmt.Errorf("insert movie %d: %w", m.ID, err)
			}
		}

		ratingStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO ratings (user_id, movie_id, rating) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare rating insert: %w", err)
		}
		defer closeQuietly(ratingStmt)

		for _, r := range ratings {
			if _, err := ratingStmt.ExecContext(ctx, r.UserID, r.MovieID, r.Value); err != nil {
				return fmt.Errorf("insert rating (user %d, movie %d): %w", r.UserID, r.MovieID, err)
			}
		}
		return nil
	})
}

// replace clears both tables and runs fill in the same transaction.
func (db *DB) replace(ctx context.Context, fill func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM ratings", "DELETE FROM movies"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	if err := fill(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Movies returns the catalog in catalog order.
func (db *DB) Movies(ctx context.Context) ([]models.Movie, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id, title, genres FROM movies ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer closeQuietly(rows)

	var movies []models.Movie
	for rows.Next() {
		var (
			m      models.Movie
			genres string
		)
		if err := rows.Scan(&m.ID, &m.Title, &genres); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		m.Genres = models.ParseGenres(genres)
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

// Ratings returns every rating ordered by movie, then user.
func (db *DB) Ratings(ctx context.Context) ([]models.Rating, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM ratings`).Scan(&n); err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, movie_id, rating FROM ratings ORDER BY movie_id, user_id`)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer closeQuietly(rows)

	ratings := make([]models.Rating, 0, n)
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

// Counts returns the number of movies, ratings and distinct users stored.
func (db *DB) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM movies),
			(SELECT count(*) FROM ratings),
			(SELECT count(DISTINCT user_id) FROM ratings)`).
		Scan(&c.Movies, &c.Ratings, &c.Users)
	if err != nil {
		return Counts{}, fmt.Errorf("count corpus: %w", err)
	}
	return c, nil
}
