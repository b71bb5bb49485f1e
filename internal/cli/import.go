// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/corpus"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the configured corpus into a DuckDB database file",
		Long: `Loads movies and ratings from the configured source and writes them to
a DuckDB file, replacing its contents. Point the server at the file with
CORPUS_SOURCE=duckdb and DUCKDB_PATH.`,
		Example: "  moviematch import --movies movies.csv --ratings ratings.csv --out corpus.duckdb",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			src, err := corpus.New(cfg.Corpus)
			if err != nil {
				return err
			}

			dst := config.DuckDBConfig{
				Path:      out,
				MaxMemory: cfg.Corpus.DuckDB.MaxMemory,
				Threads:   cfg.Corpus.DuckDB.Threads,
			}
			counts, err := corpus.Snapshot(cmd.Context(), src, dst)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "imported %d movies and %d ratings from %s into %s\n",
				counts.Movies, counts.Ratings, src.Name(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "DuckDB database file to write")
	return cmd
}
