// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/middleware"
	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/recommend/dispatch"
)

// Recommendations handles GET /api/v1/recommendations?q=<title>&limit=<n>.
//
// Responses:
//   - 200 with the resolved movie and its ranked neighbors
//   - 400 VALIDATION_ERROR for a blank or oversized query or a bad limit
//   - 404 NOT_FOUND when no title matches or the movie was filtered out
//   - 409 QUERY_IN_PROGRESS when the session already has a query running
//   - 503 SERVICE_UNAVAILABLE before the first engine is built
//   - 504 QUERY_TIMEOUT when the query does not finish in time
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, ok := parseQueryRequest(w, r)
	if !ok {
		return
	}

	engine, err := h.holder.Current()
	if err != nil {
		rw.ServiceUnavailable("Recommendation engine is not ready")
		return
	}

	key := newResultKey(engine, req.Query, req.Limit)
	if res, hit := h.cachedResult(key); hit {
		h.writeResult(rw, res, true)
		return
	}

	ctx := r.Context()
	if h.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.QueryTimeout)
		defer cancel()
	}

	out, err := h.sessions.Submit(ctx, middleware.GetSessionID(r.Context()), req.Query, req.Limit)
	if errors.Is(err, dispatch.ErrSessionBusy) {
		rw.Error(http.StatusConflict, ErrCodeQueryInProgress, "A query is already in progress for this session")
		return
	} else if err != nil {
		h.writeQueryError(rw, r, err)
		return
	}

	var outcome dispatch.Outcome
	select {
	case outcome = <-out:
	case <-ctx.Done():
		// The outcome is still delivered to the buffered channel and
		// dropped; the session hold is released when it lands.
		outcome = dispatch.Outcome{Err: ctx.Err()}
	}

	if outcome.Err != nil {
		h.writeQueryError(rw, r, outcome.Err)
		return
	}
	h.storeResult(key, outcome.Result)
	h.writeResult(rw, outcome.Result, false)
}

func (h *Handler) writeResult(rw *ResponseWriter, res *recommend.Result, cached bool) {
	meta := &APIMeta{EngineVersion: res.EngineVersion, Cached: cached}
	if res.NotFound != nil {
		details := map[string]interface{}{"query": res.Query, "matches": res.Matches}
		if res.Movie != nil {
			details["movie"] = res.Movie
		}
		rw.ErrorWithMeta(http.StatusNotFound, ErrCodeNotFound, res.NotFound.Reason, details, meta)
		return
	}
	rw.SuccessWithMeta(res, meta)
}

func (h *Handler) writeQueryError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrEmptyQuery):
		rw.BadRequest(err.Error())
	case errors.Is(err, recommend.ErrNotReady), errors.Is(err, dispatch.ErrPoolClosed):
		rw.ServiceUnavailable("Recommendation engine is not available")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeQueryTimeout, "Recommendation query timed out")
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads this response.
		logging.Ctx(r.Context()).Debug().Msg("Recommendation request cancelled by client")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation query failed")
		rw.InternalError("Failed to generate recommendations")
	}
}

// SearchResponse is the payload of GET /movies/search.
type SearchResponse struct {
	Query string                 `json:"query"`
	Count int                    `json:"count"`
	Items []recommend.MovieMatch `json:"items"`
}

// SearchMovies handles GET /api/v1/movies/search?q=<text>&limit=<n>. Hits
// are in catalog order; the first indexed hit is the movie a
// recommendation query with the same text resolves to.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, ok := parseQueryRequest(w, r)
	if !ok {
		return
	}

	engine, err := h.holder.Current()
	if err != nil {
		rw.ServiceUnavailable("Recommendation engine is not ready")
		return
	}

	items, err := engine.Search(req.Query, req.Limit)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	rw.SuccessWithMeta(SearchResponse{Query: req.Query, Count: len(items), Items: items}, &APIMeta{EngineVersion: engine.Version()})
}
