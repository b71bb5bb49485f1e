// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package models defines the catalog and rating records shared by the corpus
loaders, the recommendation engine and the presentation layers.

Key Components:

  - Movie: a catalog entry (MovieLens movies.csv row)
  - Rating: one user's rating of one movie (MovieLens ratings.csv row)

Both types are plain values. Loaders produce them, the matrix builder
consumes them, and nothing mutates them after loading.
*/
package models
