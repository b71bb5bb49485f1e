// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Command moviematch answers recommendation queries from the terminal.
//
//	moviematch recommend toy story --limit 5
//	moviematch search matrix
//	moviematch stats
//	moviematch shell
//	moviematch import --out corpus.duckdb
package main

import "github.com/tomtom215/moviematch/internal/cli"

func main() {
	cli.Execute()
}
