// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/moviematch/internal/validation"
)

// QueryRequest represents the validated query parameters shared by
// GET /recommendations and GET /movies/search.
//
// Fields:
//   - Query: title text, required, at most 200 characters
//   - Limit: result count; zero or negative selects the default and
//     values above the maximum are capped, so no range is enforced here
type QueryRequest struct {
	Query string `query:"q" validate:"notblank,max=200"`
	Limit int    `query:"limit"`
}

// parseQueryRequest reads and validates q and limit. On failure it has
// already written the 400 response.
func parseQueryRequest(w http.ResponseWriter, r *http.Request) (QueryRequest, bool) {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	req := QueryRequest{Query: q.Get("q")}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			rw.ValidationError(validation.ErrorCode, "limit must be an integer", map[string]interface{}{
				"field": "limit",
				"tag":   "integer",
				"value": raw,
			})
			return req, false
		}
		req.Limit = n
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Code, apiErr.Message, apiErr.Details)
		return req, false
	}
	return req, true
}
