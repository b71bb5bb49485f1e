// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"fmt"
	"runtime"

	"github.com/tomtom215/moviematch/internal/config"
)

// Config contains all configuration for building and querying an engine.
type Config struct {
	// Thresholds controls which movies and users enter the matrix.
	Thresholds Thresholds `json:"thresholds"`

	// Limits bounds the number of recommendations per query.
	Limits LimitsConfig `json:"limits"`

	// Index contains neighbor scan parameters.
	Index IndexOptions `json:"index"`
}

// Thresholds are strict lower bounds on rating counts. A movie is kept when
// it has more than MinRatingsPerMovie ratings; a user is kept when they
// have more than MinRatingsPerUser ratings across the whole corpus.
type Thresholds struct {
	// MinRatingsPerMovie default: 10.
	MinRatingsPerMovie int `json:"min_ratings_per_movie"`

	// MinRatingsPerUser default: 50.
	MinRatingsPerUser int `json:"min_ratings_per_user"`
}

// LimitsConfig bounds query sizes.
type LimitsConfig struct {
	// DefaultLimit is used when a query asks for zero or fewer results.
	// Default: 10.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the requested result count.
	// Default: 100.
	MaxLimit int `json:"max_limit"`
}

// IndexOptions tunes the exhaustive neighbor scan.
type IndexOptions struct {
	// Workers is the number of goroutines sharing one query's scan.
	// Default: GOMAXPROCS.
	Workers int `json:"workers"`

	// MinRowsPerWorker stops small matrices from being split across
	// goroutines that would each do almost no work.
	// Default: 512.
	MinRowsPerWorker int `json:"min_rows_per_worker"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: DefaultThresholds(),
		Limits: LimitsConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
		Index: DefaultIndexOptions(),
	}
}

// ConfigFromSettings maps the loaded application settings onto an engine
// configuration. Zero index workers means GOMAXPROCS.
func ConfigFromSettings(rc config.RecommendConfig) *Config {
	cfg := DefaultConfig()
	cfg.Thresholds = Thresholds{
		MinRatingsPerMovie: rc.MinRatingsPerMovie,
		MinRatingsPerUser:  rc.MinRatingsPerUser,
	}
	cfg.Limits = LimitsConfig{
		DefaultLimit: rc.DefaultLimit,
		MaxLimit:     rc.MaxLimit,
	}
	if rc.IndexWorkers > 0 {
		cfg.Index.Workers = rc.IndexWorkers
	}
	return cfg
}

// DefaultThresholds returns the 10-per-movie and 50-per-user bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{MinRatingsPerMovie: 10, MinRatingsPerUser: 50}
}

// DefaultIndexOptions returns scan options sized to the machine.
func DefaultIndexOptions() IndexOptions {
	return IndexOptions{
		Workers:          runtime.GOMAXPROCS(0),
		MinRowsPerWorker: 512,
	}
}

// withDefaults fills unset scan options.
func (o IndexOptions) withDefaults() IndexOptions {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.MinRowsPerWorker <= 0 {
		o.MinRowsPerWorker = 512
	}
	return o
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Thresholds.MinRatingsPerMovie < 0 {
		return fmt.Errorf("thresholds.min_ratings_per_movie must be non-negative, got %d", c.Thresholds.MinRatingsPerMovie)
	}
	if c.Thresholds.MinRatingsPerUser < 0 {
		return fmt.Errorf("thresholds.min_ratings_per_user must be non-negative, got %d", c.Thresholds.MinRatingsPerUser)
	}
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Index.Workers < 0 {
		return fmt.Errorf("index.workers must be non-negative, got %d", c.Index.Workers)
	}
	return nil
}

// Clamp maps a requested result count onto [1, MaxLimit].
func (l LimitsConfig) Clamp(limit int) int {
	if limit <= 0 {
		return l.DefaultLimit
	}
	if limit > l.MaxLimit {
		return l.MaxLimit
	}
	return limit
}
