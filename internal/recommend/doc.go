// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package recommend finds movies whose rating patterns resemble a queried
// movie.
//
// # Architecture
//
// A build runs three stages once and produces an immutable Engine:
//
//   - BuildMatrix pivots the ratings into a movie x user matrix, keeps
//     movies with more than MinRatingsPerMovie ratings and users with more
//     than MinRatingsPerUser ratings, and encodes the result as CSR. Missing
//     ratings are zeros.
//   - FitIndex wraps the matrix in an exhaustive cosine-distance neighbor
//     index. Every query scans every row.
//   - Engine.Recommend resolves free text to the first catalog title that
//     contains it (case-insensitive, literal), looks up its row, asks the
//     index for limit+1 neighbors and drops the movie itself.
//
// # Results
//
// A query that cannot be answered is not an error. Recommend returns a
// Result whose NotFound field names the reason: no title matched, or the
// matched movie was removed by the rating thresholds. Errors are reserved
// for bad input (ErrEmptyQuery) and internal faults.
//
// Build failures wrap ErrData (empty or inconsistent corpus, or thresholds
// that eliminate every movie or user) or ErrIndex (nothing to index).
//
// # Thread Safety
//
// An Engine never changes after Build, so any number of goroutines may call
// Recommend concurrently. Holder publishes a replacement Engine atomically:
// in-flight queries finish against the engine they started with.
//
// # Usage
//
//	engine, err := recommend.Build(ctx, corpus.Movies, corpus.Ratings, cfg, logger)
//	if err != nil {
//	    return err // errors.Is(err, recommend.ErrData)
//	}
//	res, err := engine.Recommend(ctx, "toy story", 10)
//	if res.NotFound != nil {
//	    fmt.Println(res.NotFound.Reason)
//	}
package recommend
