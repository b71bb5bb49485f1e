// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/moviematch/internal/cache"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// EngineStatusResponse is the payload of GET /engine/status.
type EngineStatusResponse struct {
	Ready       bool                    `json:"ready"`
	Engine      *recommend.Status       `json:"engine,omitempty"`
	LastAttempt *time.Time              `json:"last_attempt,omitempty"`
	LastFailure *recommend.BuildFailure `json:"last_failure,omitempty"`
	Cache       *cache.Stats            `json:"result_cache,omitempty"`
}

func (h *Handler) engineStatus() EngineStatusResponse {
	resp := EngineStatusResponse{LastFailure: h.holder.LastFailure()}
	if e, err := h.holder.Current(); err == nil {
		st := e.Status()
		resp.Ready = true
		resp.Engine = &st
	}
	if at := h.holder.LastAttempt(); !at.IsZero() {
		resp.LastAttempt = &at
	}
	if h.results != nil {
		stats := h.CacheStats()
		resp.Cache = &stats
	}
	return resp
}

// EngineStatus handles GET /api/v1/engine/status: version, build time,
// matrix shape and thresholds of the serving engine, plus the last failed
// rebuild if any. 503 until an engine is ready.
func (h *Handler) EngineStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	status := h.engineStatus()
	if !status.Ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation engine is not ready", status)
		return
	}
	rw.SuccessWithMeta(status, &APIMeta{EngineVersion: status.Engine.Version})
}

// RebuildEngine handles POST /api/v1/engine/rebuild. It reloads the corpus
// and swaps in a new engine, returning the new status. The serving engine
// is untouched when the rebuild fails. The rebuild is not tied to the
// client connection.
func (h *Handler) RebuildEngine(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	logger := logging.Ctx(r.Context())

	e, err := h.holder.TryRebuild(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, recommend.ErrRebuildInProgress):
		rw.Error(http.StatusConflict, ErrCodeRebuildInProgress, "An engine rebuild is already in progress")
		return
	case err != nil:
		logger.Error().Err(err).Msg("Engine rebuild via API failed")
		rw.ErrorWithDetails(http.StatusInternalServerError, ErrCodeRebuildFailed, "Engine rebuild failed", h.engineStatus())
		return
	}

	if h.results != nil {
		h.results.Purge()
	}
	logger.Info().Uint64("version", e.Version()).Msg("Engine rebuilt via API")
	rw.SuccessWithMeta(h.engineStatus(), &APIMeta{EngineVersion: e.Version()})
}
