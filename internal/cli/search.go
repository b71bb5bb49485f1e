// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "List catalog titles containing <text>",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			matches, err := s.engine.Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			return writeMatches(cmd.OutOrStdout(), matches)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum titles to list (0 = configured default)")
	return cmd
}
