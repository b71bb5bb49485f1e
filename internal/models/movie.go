// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package models

import "strings"

// Movie is a catalog entry.
type Movie struct {
	ID     int      `json:"movie_id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres,omitempty"`
}

// Rating is one user's rating of one movie.
type Rating struct {
	UserID  int     `json:"user_id"`
	MovieID int     `json:"movie_id"`
	Value   float64 `json:"rating"`
}

// ParseGenres splits a MovieLens pipe-separated genre list. The MovieLens
// placeholder "(no genres listed)" yields nil.
func ParseGenres(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "(no genres listed)" {
		return nil
	}
	parts := strings.Split(s, "|")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}
