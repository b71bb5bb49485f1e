// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"
	"time"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of engine state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK once an engine is serving, 503 before that. A failed
// rebuild does not make a serving instance unready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	data := map[string]interface{}{
		"ready_to_serve": h.holder.Ready(),
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if f := h.holder.LastFailure(); f != nil {
		data["last_failure"] = f
	}

	e, err := h.holder.Current()
	if err != nil {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation engine is not ready", data)
		return
	}
	data["engine_version"] = e.Version()
	rw.Success(data)
}
