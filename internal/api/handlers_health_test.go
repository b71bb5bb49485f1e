// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		notReady  bool
		path      string
		wantCode  int
		wantReady bool
	}{
		{name: "live while building", notReady: true, path: "/api/v1/health/live", wantCode: http.StatusOK},
		{name: "live", path: "/api/v1/health/live", wantCode: http.StatusOK},
		{name: "ready before build", notReady: true, path: "/api/v1/health/ready", wantCode: http.StatusServiceUnavailable},
		{name: "ready", path: "/api/v1/health/ready", wantCode: http.StatusOK, wantReady: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t, serverOptions{notReady: tt.notReady})

			code, env := ts.do(t, http.MethodGet, tt.path, nil)
			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d", code, tt.wantCode)
			}
			if tt.wantReady {
				var data map[string]interface{}
				decodeData(t, env, &data)
				if data["ready_to_serve"] != true || data["engine_version"] == nil {
					t.Errorf("data = %v", data)
				}
			}
		})
	}
}
