// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

/*
Package api provides the HTTP REST API for MovieMatch.

Endpoints:

	GET  /api/v1/recommendations?q=<title>&limit=<n>
	GET  /api/v1/movies/search?q=<text>&limit=<n>
	GET  /api/v1/engine/status
	POST /api/v1/engine/rebuild
	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	GET  /metrics

Every JSON response uses the same envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}, "meta": {...}}

Recommendation queries run on the dispatch pool. A client that sends an
X-Session-ID header gets at most one query in flight; a second one is
answered 409 QUERY_IN_PROGRESS. A query that resolves to no movie, or to a
movie removed by the rating thresholds, is answered 404 NOT_FOUND with the
reason as the message.

Results are memoised per engine version, so a rebuild makes older entries
unreachable without an explicit purge.
*/
package api
