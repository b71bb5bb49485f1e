// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package database stores the movie catalog and ratings in DuckDB.
//
// The store has two tables:
//
//	movies(movie_id, title, genres, position)
//	ratings(user_id, movie_id, rating, rated_at)
//
// position records catalog order, which title search depends on, so
// Movies always returns rows ordered by it.
//
// MovieLens CSV files are imported with DuckDB's read_csv, which is much
// faster than parsing in Go for the 25M-rating dataset. ReplaceCorpus
// writes an already-loaded corpus, for example one read from MongoDB, so it
// can be served from a local file afterwards.
//
// An empty Path opens an in-memory database; the connection pool shares
// that one database for the lifetime of the DB value.
package database
