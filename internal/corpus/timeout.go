// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package corpus

import (
	"context"
	"time"
)

// timeoutLoader bounds each Load call.
type timeoutLoader struct {
	Loader
	timeout time.Duration
}

func (l *timeoutLoader) Load(ctx context.Context) (*Corpus, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.Loader.Load(ctx)
}
