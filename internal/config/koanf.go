// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moviematch/config.yaml",
	"/etc/moviematch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Source:      SourceCSV,
			MoviesPath:  "data/movies.csv",
			RatingsPath: "data/ratings.csv",
			LoadTimeout: 5 * time.Minute,
			DuckDB: DuckDBConfig{
				Path:      "", // in-memory
				MaxMemory: "1GB",
			},
			Mongo: MongoConfig{
				URI:               "mongodb://127.0.0.1:27017",
				Database:          "moviematch",
				MoviesCollection:  "movies",
				RatingsCollection: "ratings",
			},
			Breaker: BreakerConfig{
				Enabled:          true,
				FailureThreshold: 3,
				Timeout:          time.Minute,
			},
		},
		Recommend: RecommendConfig{
			MinRatingsPerMovie: 10,
			MinRatingsPerUser:  50,
			DefaultLimit:       10,
			MaxLimit:           100,
			IndexWorkers:       0,
			DispatchWorkers:    4,
			QueueSize:          64,
			QueryTimeout:       10 * time.Second,
			CacheEnabled:       true,
			CacheSize:          1024,
			CacheTTL:           5 * time.Minute,
			RebuildInterval:    0,
		},
		Server: ServerConfig{
			Port:            8857,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Option adjusts how LoadWithKoanf resolves configuration.
type Option func(*loadOptions)

type loadOptions struct {
	path      string
	overrides []func(*Config)
}

// WithConfigFile loads path instead of searching CONFIG_PATH and the
// default locations. A missing file is an error.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) { o.path = path }
}

// WithOverride applies fn after all layers are merged and before
// validation. Command-line flags use it.
func WithOverride(fn func(*Config)) Option {
	return func(o *loadOptions) { o.overrides = append(o.overrides, fn) }
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Struct defaults
//  2. Config file (optional, YAML)
//  3. Environment variables (highest priority)
//
// Overrides registered with WithOverride run last.
func LoadWithKoanf(opts ...Option) (*Config, error) {
	var lo loadOptions
	for _, opt := range opts {
		opt(&lo)
	}

	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := lo.path
	if configPath == "" {
		configPath = findConfigFile()
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables
	// MOVIES_CSV -> corpus.movies_path
	// MIN_RATINGS_PER_USER -> recommend.min_ratings_per_user
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	for _, fn := range lo.overrides {
		fn(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ConfigFile returns the file LoadWithKoanf would read when no
// WithConfigFile option is given, or "" when there is none.
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile searches for a config file in the default locations.
// Returns empty string if no config file is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Values that are already slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Corpus source
	"corpus_source":       "corpus.source",
	"movies_csv":          "corpus.movies_path",
	"ratings_csv":         "corpus.ratings_path",
	"corpus_load_timeout": "corpus.load_timeout",

	"duckdb_path":       "corpus.duckdb.path",
	"duckdb_max_memory": "corpus.duckdb.max_memory",
	"duckdb_threads":    "corpus.duckdb.threads",

	"mongo_uri":                "corpus.mongo.uri",
	"mongo_database":           "corpus.mongo.database",
	"mongo_movies_collection":  "corpus.mongo.movies_collection",
	"mongo_ratings_collection": "corpus.mongo.ratings_collection",

	"corpus_breaker_enabled":  "corpus.breaker.enabled",
	"corpus_breaker_failures": "corpus.breaker.failure_threshold",
	"corpus_breaker_timeout":  "corpus.breaker.timeout",

	// Recommendation engine
	"min_ratings_per_movie":      "recommend.min_ratings_per_movie",
	"min_ratings_per_user":       "recommend.min_ratings_per_user",
	"recommend_default_limit":    "recommend.default_limit",
	"recommend_max_limit":        "recommend.max_limit",
	"recommend_index_workers":    "recommend.index_workers",
	"recommend_dispatch_workers": "recommend.dispatch_workers",
	"recommend_queue_size":       "recommend.queue_size",
	"recommend_query_timeout":    "recommend.query_timeout",
	"recommend_cache_enabled":    "recommend.cache_enabled",
	"recommend_cache_size":       "recommend.cache_size",
	"recommend_cache_ttl":        "recommend.cache_ttl",
	"recommend_rebuild_interval": "recommend.rebuild_interval",

	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" so unrelated environment does not leak in.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// WatchConfigFile calls callback whenever the file at path changes. The
// caller reloads with LoadWithKoanf and is responsible for synchronisation.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
