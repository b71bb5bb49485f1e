// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package middleware provides HTTP middleware for the MovieMatch API.

All middleware uses the chi signature func(http.Handler) http.Handler:

  - RequestID: reuses or generates X-Request-ID and stores it in the
    request context for logging.Ctx.
  - SessionID: reads the X-Session-ID header the recommendation endpoint
    uses to refuse overlapping queries from one client.
  - PrometheusMetrics: request counts, latency and in-flight gauge, labelled
    by chi route pattern so path parameters do not explode cardinality.

Typical chain:

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.SessionID)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
