// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package corpus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tomtom215/moviematch/internal/config"
)

func TestDuckDBLoaderMatchesCSV(t *testing.T) {
	dir := t.TempDir()
	movies := writeFile(t, dir, "movies.csv",
		"movieId,title,genres",
		"5,Father of the Bride Part II (1995),Comedy",
		`1,"Toy Story (1995)",Adventure|Animation`,
	)
	ratings := writeFile(t, dir, "ratings.csv",
		"userId,movieId,rating,timestamp",
		"3,1,4.0,1",
		"3,5,2.0,2",
		"4,1,3.5,3",
	)
	ctx := context.Background()

	fromCSV, err := (&CSVLoader{MoviesPath: movies, RatingsPath: ratings}).Load(ctx)
	if err != nil {
		t.Fatalf("CSV Load() error = %v", err)
	}
	fromDuck, err := (&DuckDBLoader{DB: config.DuckDBConfig{Threads: 1}, MoviesCSV: movies, RatingsCSV: ratings}).Load(ctx)
	if err != nil {
		t.Fatalf("DuckDB Load() error = %v", err)
	}

	if len(fromDuck.Movies) != len(fromCSV.Movies) {
		t.Fatalf("movies: duckdb %d, csv %d", len(fromDuck.Movies), len(fromCSV.Movies))
	}
	for i := range fromCSV.Movies {
		if fromDuck.Movies[i].ID != fromCSV.Movies[i].ID || fromDuck.Movies[i].Title != fromCSV.Movies[i].Title {
			t.Errorf("movie %d: duckdb %+v, csv %+v", i, fromDuck.Movies[i], fromCSV.Movies[i])
		}
	}
	if fromDuck.Stats() != fromCSV.Stats() {
		t.Errorf("Stats: duckdb %+v, csv %+v", fromDuck.Stats(), fromCSV.Stats())
	}
}

func TestSnapshotThenLoad(t *testing.T) {
	dir := t.TempDir()
	src := &CSVLoader{
		MoviesPath:  writeFile(t, dir, "movies.csv", "movieId,title,genres", "9,Sudden Death (1995),Action"),
		RatingsPath: writeFile(t, dir, "ratings.csv", "userId,movieId,rating,timestamp", "1,9,3.0,1"),
	}
	dbCfg := config.DuckDBConfig{Path: filepath.Join(dir, "corpus.duckdb"), Threads: 1}
	ctx := context.Background()

	counts, err := Snapshot(ctx, src, dbCfg)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if counts.Movies != 1 || counts.Ratings != 1 {
		t.Errorf("Snapshot counts = %+v, want 1/1", counts)
	}

	c, err := (&DuckDBLoader{DB: dbCfg}).Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Movies) != 1 || c.Movies[0].Title != "Sudden Death (1995)" {
		t.Errorf("Movies = %+v", c.Movies)
	}

	// A populated file wins over CSV paths, even ones that do not exist.
	c, err = (&DuckDBLoader{DB: dbCfg, MoviesCSV: "missing.csv", RatingsCSV: "missing.csv"}).Load(ctx)
	if err != nil {
		t.Fatalf("Load() with stale CSV paths error = %v", err)
	}
	if len(c.Ratings) != 1 {
		t.Errorf("Ratings = %+v, want the snapshot", c.Ratings)
	}
}
