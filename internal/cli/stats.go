// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/moviematch/internal/corpus"
	"github.com/tomtom215/moviematch/internal/recommend"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus and rating matrix statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			cs := s.corpus.Stats()
			st := s.engine.Status()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					Source string           `json:"source"`
					Corpus corpus.Stats     `json:"corpus"`
					Engine recommend.Status `json:"engine"`
				}{s.cfg.Corpus.Source, cs, st})
			}
			return writeStats(cmd.OutOrStdout(), s.cfg.Corpus.Source, cs, st)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	return cmd
}
