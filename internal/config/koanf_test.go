// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the loader at an empty directory and clears every mapped
// environment variable so the host environment cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	for key := range envMappings {
		t.Setenv(strings.ToUpper(key), "")
		os.Unsetenv(strings.ToUpper(key))
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Corpus.Source != SourceCSV {
		t.Errorf("Corpus.Source = %q, want csv", cfg.Corpus.Source)
	}
	if cfg.Recommend.MinRatingsPerMovie != 10 {
		t.Errorf("MinRatingsPerMovie = %d, want 10", cfg.Recommend.MinRatingsPerMovie)
	}
	if cfg.Recommend.MinRatingsPerUser != 50 {
		t.Errorf("MinRatingsPerUser = %d, want 50", cfg.Recommend.MinRatingsPerUser)
	}
	if cfg.Recommend.DefaultLimit != 10 || cfg.Recommend.MaxLimit != 100 {
		t.Errorf("limits = %d/%d, want 10/100", cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit)
	}
	if cfg.Recommend.RebuildInterval != 0 {
		t.Errorf("RebuildInterval = %v, want 0 (disabled)", cfg.Recommend.RebuildInterval)
	}
	if cfg.Server.Port != 8857 {
		t.Errorf("Server.Port = %d, want 8857", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"MOVIES_CSV", "corpus.movies_path"},
		{"RATINGS_CSV", "corpus.ratings_path"},
		{"CORPUS_SOURCE", "corpus.source"},
		{"MONGO_URI", "corpus.mongo.uri"},
		{"DUCKDB_PATH", "corpus.duckdb.path"},
		{"MIN_RATINGS_PER_MOVIE", "recommend.min_ratings_per_movie"},
		{"min_ratings_per_user", "recommend.min_ratings_per_user"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	t.Run("no config file exists", func(t *testing.T) {
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "config.yaml"), "logging:\n  level: info\n")
		defer os.Remove(filepath.Join(dir, "config.yaml"))

		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH takes precedence", func(t *testing.T) {
		custom := filepath.Join(dir, "custom.yaml")
		writeFile(t, custom, "logging:\n  level: info\n")
		t.Setenv(ConfigPathEnvVar, custom)

		if got := ConfigFile(); got != custom {
			t.Errorf("ConfigFile() = %q, want %q", got, custom)
		}
	})

	t.Run("CONFIG_PATH with missing file falls back", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolate(t)

	t.Setenv("MOVIES_CSV", "/srv/ml/movies.csv")
	t.Setenv("RATINGS_CSV", "/srv/ml/ratings.csv")
	t.Setenv("MIN_RATINGS_PER_USER", "20")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RECOMMEND_CACHE_TTL", "90s")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Corpus.MoviesPath != "/srv/ml/movies.csv" {
		t.Errorf("MoviesPath = %q", cfg.Corpus.MoviesPath)
	}
	if cfg.Recommend.MinRatingsPerUser != 20 {
		t.Errorf("MinRatingsPerUser = %d, want 20", cfg.Recommend.MinRatingsPerUser)
	}
	if cfg.Recommend.MinRatingsPerMovie != 10 {
		t.Errorf("MinRatingsPerMovie = %d, want 10 (default)", cfg.Recommend.MinRatingsPerMovie)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.Recommend.CacheTTL)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "moviematch.yaml")
	writeFile(t, path, `
corpus:
  source: mongo
  mongo:
    uri: "mongodb://db.local:27017"
    database: films
recommend:
  max_limit: 25
server:
  port: 8888
logging:
  level: warn
`)

	t.Run("explicit path", func(t *testing.T) {
		cfg, err := LoadWithKoanf(WithConfigFile(path))
		if err != nil {
			t.Fatalf("LoadWithKoanf() error = %v", err)
		}
		if cfg.Corpus.Source != SourceMongo {
			t.Errorf("Source = %q, want mongo", cfg.Corpus.Source)
		}
		if cfg.Corpus.Mongo.Database != "films" {
			t.Errorf("Mongo.Database = %q, want films", cfg.Corpus.Mongo.Database)
		}
		if cfg.Corpus.Mongo.RatingsCollection != "ratings" {
			t.Errorf("RatingsCollection = %q, want ratings (default)", cfg.Corpus.Mongo.RatingsCollection)
		}
		if cfg.Recommend.MaxLimit != 25 {
			t.Errorf("MaxLimit = %d, want 25", cfg.Recommend.MaxLimit)
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "7000")
		cfg, err := LoadWithKoanf(WithConfigFile(path))
		if err != nil {
			t.Fatalf("LoadWithKoanf() error = %v", err)
		}
		if cfg.Server.Port != 7000 {
			t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
		}
		if cfg.Logging.Level != "warn" {
			t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
		}
	})

	t.Run("override runs last", func(t *testing.T) {
		t.Setenv("CORPUS_SOURCE", "duckdb")
		cfg, err := LoadWithKoanf(WithConfigFile(path), WithOverride(func(c *Config) {
			c.Corpus.Source = SourceCSV
		}))
		if err != nil {
			t.Fatalf("LoadWithKoanf() error = %v", err)
		}
		if cfg.Corpus.Source != SourceCSV {
			t.Errorf("Source = %q, want csv", cfg.Corpus.Source)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := LoadWithKoanf(WithConfigFile(filepath.Join(dir, "nope.yaml"))); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown source",
			env:     map[string]string{"CORPUS_SOURCE": "postgres"},
			wantErr: "source must be one of",
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"LOG_LEVEL": "loud"},
			wantErr: "level must be one of",
		},
		{
			name:    "max below default",
			env:     map[string]string{"RECOMMEND_DEFAULT_LIMIT": "20", "RECOMMEND_MAX_LIMIT": "5"},
			wantErr: "RECOMMEND_MAX_LIMIT",
		},
		{
			name:    "port out of range",
			env:     map[string]string{"HTTP_PORT": "70000"},
			wantErr: "port must be less than or equal to 65535",
		},
		{
			name:    "bad mongo uri",
			env:     map[string]string{"CORPUS_SOURCE": "mongo", "MONGO_URI": "http://db"},
			wantErr: "MONGO_URI",
		},
		{
			name:    "duckdb without inputs",
			env:     map[string]string{"CORPUS_SOURCE": "duckdb", "MOVIES_CSV": "", "RATINGS_CSV": ""},
			wantErr: "DUCKDB_PATH",
		},
		{
			name:    "bad cors origin",
			env:     map[string]string{"CORS_ORIGINS": "example.com"},
			wantErr: "CORS origin",
		},
		{
			name:    "negative threshold",
			env:     map[string]string{"MIN_RATINGS_PER_MOVIE": "-1"},
			wantErr: "min_ratings_per_movie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatalf("LoadWithKoanf() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
