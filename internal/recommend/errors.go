// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import "errors"

var (
	// ErrData reports a corpus that cannot produce a rating matrix: empty
	// input, integrity violations, or thresholds that remove every movie or
	// every user.
	ErrData = errors.New("rating data error")

	// ErrIndex reports a neighbor index that cannot be fit.
	ErrIndex = errors.New("neighbor index error")

	// ErrEmptyQuery is returned for a blank movie query.
	ErrEmptyQuery = errors.New("empty movie query")

	// ErrNotReady is returned by Holder before the first engine is
	// published.
	ErrNotReady = errors.New("recommendation engine not ready")

	// ErrInconsistent reports a broken row to movie mapping. It indicates a
	// bug, never a user-facing condition.
	ErrInconsistent = errors.New("engine state inconsistent")
)
