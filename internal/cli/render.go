// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviematch/internal/corpus"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// ErrNotFound is returned by the recommend command when a query produced
// no recommendations, so the process exits non-zero.
var ErrNotFound = errors.New("no recommendations")

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeResult prints a ranked table, or the NotFound reason.
func writeResult(w io.Writer, res *recommend.Result) error {
	if res.NotFound != nil {
		printf(w, "%s: %q\n", res.NotFound.Reason, res.Query)
		if res.Movie != nil {
			printf(w, "  matched %s (id %d), which has too few ratings to compare\n", res.Movie.Title, res.Movie.ID)
		}
		return nil
	}

	printf(w, "Recommendations for %s\n", res.Movie.Title)
	if res.Matches > 1 {
		printf(w, "  (%d titles matched; using the first)\n", res.Matches)
	}
	tw := newTable(w)
	printf(tw, "#\tTITLE\tSCORE\n")
	for i, item := range res.Items {
		printf(tw, "%d\t%s\t%s\n", i+1, item.Title, item.Score)
	}
	return tw.Flush()
}

func writeMatches(w io.Writer, matches []recommend.MovieMatch) error {
	if len(matches) == 0 {
		printf(w, "no movies found\n")
		return nil
	}
	tw := newTable(w)
	printf(tw, "ID\tTITLE\tINDEXED\n")
	for _, m := range matches {
		indexed := "no"
		if m.Indexed {
			indexed = "yes"
		}
		printf(tw, "%d\t%s\t%s\n", m.ID, m.Title, indexed)
	}
	return tw.Flush()
}

func writeStats(w io.Writer, source string, cs corpus.Stats, st recommend.Status) error {
	m := st.Matrix
	tw := newTable(w)
	rows := []struct {
		label string
		value any
	}{
		{"source", source},
		{"movies", cs.Movies},
		{"users", cs.Users},
		{"ratings", cs.Ratings},
		{"rating range", fmt.Sprintf("%.1f - %.1f", cs.MinRating, cs.MaxRating)},
		{"unrated movies", m.UnratedMovies},
		{"orphan ratings", m.OrphanRatings},
		{"matrix", fmt.Sprintf("%d x %d", m.Rows, m.Cols)},
		{"nonzeros", m.NNZ},
		{"density", fmt.Sprintf("%.4f%%", m.Density*100)},
		{"dropped movies", fmt.Sprintf("%d (<= %d ratings)", m.DroppedMovies, m.MinMovieRating)},
		{"dropped users", fmt.Sprintf("%d (<= %d ratings)", m.DroppedUsers, m.MinUserRating)},
		{"empty rows", m.EmptyRows},
		{"build time", st.BuildDuration},
	}
	for _, r := range rows {
		printf(tw, "%s\t%v\n", r.label, r.value)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
