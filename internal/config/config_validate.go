// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/moviematch/internal/validation"
)

// Validate checks field constraints, then the rules that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateCorpus(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	return c.validateSecurity()
}

// validateCorpus checks that the selected source has what it needs.
func (c *Config) validateCorpus() error {
	switch c.Corpus.Source {
	case SourceCSV:
		if c.Corpus.MoviesPath == "" || c.Corpus.RatingsPath == "" {
			return fmt.Errorf("MOVIES_CSV and RATINGS_CSV are required when CORPUS_SOURCE=csv")
		}
	case SourceDuckDB:
		// Either an existing database file or CSVs to import into memory.
		if c.Corpus.DuckDB.Path == "" && (c.Corpus.MoviesPath == "" || c.Corpus.RatingsPath == "") {
			return fmt.Errorf("DUCKDB_PATH or both MOVIES_CSV and RATINGS_CSV are required when CORPUS_SOURCE=duckdb")
		}
	case SourceMongo:
		return c.validateMongo()
	}
	return nil
}

func (c *Config) validateMongo() error {
	m := c.Corpus.Mongo
	u, err := url.Parse(m.URI)
	if err != nil || (u.Scheme != "mongodb" && u.Scheme != "mongodb+srv") {
		return fmt.Errorf("MONGO_URI must be a mongodb:// or mongodb+srv:// URL, got %q", m.URI)
	}
	if m.Database == "" {
		return fmt.Errorf("MONGO_DATABASE is required when CORPUS_SOURCE=mongo")
	}
	if m.MoviesCollection == "" || m.RatingsCollection == "" {
		return fmt.Errorf("mongo movies and ratings collections must be named")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT (%d) must be >= RECOMMEND_DEFAULT_LIMIT (%d)", r.MaxLimit, r.DefaultLimit)
	}
	if r.CacheEnabled && r.CacheSize == 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must be positive when the result cache is enabled")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled && (c.Security.RateLimitReqs == 0 || c.Security.RateLimitWindow == 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS origin %q must start with http:// or https://", origin)
		}
	}
	return nil
}
