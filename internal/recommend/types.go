// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"time"

	"github.com/tomtom215/moviematch/internal/models"
)

// NotFound reasons.
const (
	ReasonNoMatch  = "no movies found"
	ReasonFiltered = "movie excluded by filtering"
)

// Result is the answer to one query. Exactly one of Items (possibly empty)
// or NotFound is meaningful: when NotFound is set, Items is nil.
type Result struct {
	// Query is the trimmed query text.
	Query string `json:"query"`

	// Movie is the catalog entry the query resolved to. Nil when no title
	// matched.
	Movie *models.Movie `json:"movie,omitempty"`

	// Matches is how many catalog titles contained the query. Only the
	// first, in catalog order, is used.
	Matches int `json:"matches"`

	// Limit is the effective result count after defaulting and clamping.
	Limit int `json:"limit"`

	Items    []Recommendation `json:"items,omitempty"`
	NotFound *NotFound        `json:"not_found,omitempty"`

	// EngineVersion identifies the engine that produced the result.
	EngineVersion uint64 `json:"engine_version"`
}

// NotFound explains why a query produced no recommendations.
type NotFound struct {
	Reason string `json:"reason"`
}

// Recommendation is one similar movie.
type Recommendation struct {
	MovieID int    `json:"movie_id"`
	Title   string `json:"title"`

	// Score is Similarity rounded to three decimals, e.g. "0.873". It may
	// be negative.
	Score      string  `json:"score"`
	Similarity float64 `json:"similarity"`
	Distance   float64 `json:"distance"`
}

// MovieMatch is one title search hit.
type MovieMatch struct {
	models.Movie
	// Indexed reports whether the movie survived the rating thresholds and
	// can be used as a recommendation query.
	Indexed bool `json:"indexed"`
}

// Status describes a built engine.
type Status struct {
	Version       uint64        `json:"version"`
	BuiltAt       time.Time     `json:"built_at"`
	BuildDuration time.Duration `json:"build_duration_ns"`
	Catalog       int           `json:"catalog_size"`
	Matrix        MatrixStats   `json:"matrix"`
	Limits        LimitsConfig  `json:"limits"`
}
