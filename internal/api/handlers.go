// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"strings"
	"time"

	"github.com/tomtom215/moviematch/internal/cache"
	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/recommend/dispatch"
)

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// QueryTimeout bounds how long a request waits for its dispatched
	// query. Zero means wait for the client to give up.
	QueryTimeout time.Duration

	// CacheSize is the result cache capacity. Zero disables the cache.
	CacheSize int

	// CacheTTL expires cached results. Zero keeps them until evicted.
	CacheTTL time.Duration
}

// resultKey identifies a memoised result. The engine version makes every
// entry from an older engine unreachable after a swap.
type resultKey struct {
	version uint64
	query   string
	limit   int
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, result cache
//   - handlers_recommend.go: recommendation and search endpoints
//   - handlers_engine.go: engine status and rebuild
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	holder    *recommend.Holder
	sessions  *dispatch.Sessions
	results   *cache.LRU[resultKey, *recommend.Result]
	opts      HandlerOptions
	startTime time.Time
}

// NewHandler creates the API handler. Recommendation queries are submitted
// through sessions; everything else reads the holder directly.
func NewHandler(holder *recommend.Holder, sessions *dispatch.Sessions, opts HandlerOptions) *Handler {
	h := &Handler{
		holder:    holder,
		sessions:  sessions,
		opts:      opts,
		startTime: time.Now(),
	}
	if opts.CacheSize > 0 {
		h.results = cache.NewLRU[resultKey, *recommend.Result](opts.CacheSize, opts.CacheTTL)
	}
	return h
}

func newResultKey(e *recommend.Engine, query string, limit int) resultKey {
	return resultKey{
		version: e.Version(),
		query:   strings.ToLower(strings.TrimSpace(query)),
		limit:   e.Limits().Clamp(limit),
	}
}

func (h *Handler) cachedResult(key resultKey) (*recommend.Result, bool) {
	if h.results == nil {
		return nil, false
	}
	res, ok := h.results.Get(key)
	metrics.RecordResultCache(ok)
	return res, ok
}

func (h *Handler) storeResult(key resultKey, res *recommend.Result) {
	if h.results == nil || res == nil {
		return
	}
	// The query may have run on a newer engine than the one used to
	// build the key.
	key.version = res.EngineVersion
	h.results.Add(key, res)
}

// CacheStats returns result cache statistics, or the zero value when the
// cache is disabled.
func (h *Handler) CacheStats() cache.Stats {
	if h.results == nil {
		return cache.Stats{}
	}
	return h.results.Stats()
}
