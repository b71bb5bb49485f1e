// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package config loads MovieMatch settings from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import "time"

// Corpus source names.
const (
	SourceCSV    = "csv"
	SourceDuckDB = "duckdb"
	SourceMongo  = "mongo"
)

// Config holds all application configuration
type Config struct {
	Corpus    CorpusConfig    `koanf:"corpus"`
	Recommend RecommendConfig `koanf:"recommend"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// CorpusConfig selects and configures the ratings source.
type CorpusConfig struct {
	Source      string        `koanf:"source" validate:"oneof=csv duckdb mongo"`
	MoviesPath  string        `koanf:"movies_path"`
	RatingsPath string        `koanf:"ratings_path"`
	LoadTimeout time.Duration `koanf:"load_timeout" validate:"gt=0"`

	DuckDB  DuckDBConfig  `koanf:"duckdb"`
	Mongo   MongoConfig   `koanf:"mongo"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// DuckDBConfig configures the DuckDB-backed corpus store. An empty Path
// means an in-memory database that is filled from the CSV paths.
type DuckDBConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"` // 0 = DuckDB default
}

// MongoConfig configures the MongoDB corpus source.
type MongoConfig struct {
	URI               string `koanf:"uri"`
	Database          string `koanf:"database"`
	MoviesCollection  string `koanf:"movies_collection"`
	RatingsCollection string `koanf:"ratings_collection"`
}

// BreakerConfig tunes the circuit breaker around corpus loads.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	FailureThreshold uint32        `koanf:"failure_threshold" validate:"gte=1"`
	Timeout          time.Duration `koanf:"timeout" validate:"gt=0"`
}

// RecommendConfig holds matrix, index and query settings.
type RecommendConfig struct {
	MinRatingsPerMovie int `koanf:"min_ratings_per_movie" validate:"gte=0"`
	MinRatingsPerUser  int `koanf:"min_ratings_per_user" validate:"gte=0"`
	DefaultLimit       int `koanf:"default_limit" validate:"gte=1"`
	MaxLimit           int `koanf:"max_limit" validate:"gte=1"`
	IndexWorkers       int `koanf:"index_workers" validate:"gte=0"` // 0 = GOMAXPROCS

	DispatchWorkers int           `koanf:"dispatch_workers" validate:"gte=1"`
	QueueSize       int           `koanf:"queue_size" validate:"gte=1"`
	QueryTimeout    time.Duration `koanf:"query_timeout" validate:"gt=0"`

	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheSize    int           `koanf:"cache_size" validate:"gte=0"`
	CacheTTL     time.Duration `koanf:"cache_ttl" validate:"gte=0"`

	// RebuildInterval of zero disables scheduled rebuilds.
	RebuildInterval time.Duration `koanf:"rebuild_interval" validate:"gte=0"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration using the default search paths.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
