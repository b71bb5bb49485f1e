// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/corpus"
	"github.com/tomtom215/moviematch/internal/models"
	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/recommend/dispatch"
)

// testCorpus: four movies rated by users 1-4, plus one movie with a
// single rating that the test thresholds remove.
func testCorpus() *corpus.Corpus {
	movies := []models.Movie{
		{ID: 1, Title: "Toy Story (1995)", Genres: []string{"Animation", "Children"}},
		{ID: 2, Title: "Jumanji (1995)"},
		{ID: 3, Title: "Heat (1995)"},
		{ID: 4, Title: "Sabrina (1995)"},
		{ID: 5, Title: "Obscure Short (2001)"},
	}
	values := map[int][]float64{
		1: {5, 4, 1, 2},
		2: {4, 5, 2, 1},
		3: {1, 2, 5, 4},
		4: {2, 1, 4, 5},
	}
	var ratings []models.Rating
	for movie := 1; movie <= 4; movie++ {
		for u, v := range values[movie] {
			ratings = append(ratings, models.Rating{UserID: u + 1, MovieID: movie, Value: v})
		}
	}
	ratings = append(ratings, models.Rating{UserID: 1, MovieID: 5, Value: 3})
	return &corpus.Corpus{Movies: movies, Ratings: ratings}
}

func testEngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Thresholds = recommend.Thresholds{MinRatingsPerMovie: 1, MinRatingsPerUser: 0}
	return cfg
}

// stubLoader serves testCorpus, or fails with err. gate, when set, holds
// Load until closed.
type stubLoader struct {
	mu      sync.Mutex
	err     error
	gate    chan struct{}
	started chan struct{}
}

func (s *stubLoader) Name() string { return "stub" }

func (s *stubLoader) Load(ctx context.Context) (*corpus.Corpus, error) {
	s.mu.Lock()
	err, gate, started := s.err, s.gate, s.started
	s.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return testCorpus(), nil
}

func (s *stubLoader) set(fn func(s *stubLoader)) {
	s.mu.Lock()
	fn(s)
	s.mu.Unlock()
}

// gatedRunner holds every query until gate is closed.
type gatedRunner struct {
	inner   dispatch.Recommender
	gate    chan struct{}
	started chan struct{}
}

func (g *gatedRunner) Recommend(ctx context.Context, query string, limit int) (*recommend.Result, error) {
	g.started <- struct{}{}
	<-g.gate
	return g.inner.Recommend(ctx, query, limit)
}

type testServer struct {
	holder  *recommend.Holder
	loader  *stubLoader
	handler *Handler
	router  http.Handler
}

type serverOptions struct {
	handler  HandlerOptions
	mw       *ChiMiddlewareConfig
	notReady bool
	runner   func(h *recommend.Holder) dispatch.Recommender
}

func newTestServer(t *testing.T, so serverOptions) *testServer {
	t.Helper()

	loader := &stubLoader{}
	holder := recommend.NewHolder(loader, testEngineConfig(), zerolog.Nop())
	if !so.notReady {
		if _, err := holder.Rebuild(context.Background()); err != nil {
			t.Fatalf("Rebuild() error = %v", err)
		}
	}

	var runner dispatch.Recommender = holder
	if so.runner != nil {
		runner = so.runner(holder)
	}
	pool := dispatch.NewPool(runner, dispatch.Options{Workers: 2}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = pool.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	if so.mw == nil {
		so.mw = DefaultChiMiddlewareConfig()
		so.mw.RateLimitDisabled = true
	}
	h := NewHandler(holder, dispatch.NewSessions(pool), so.handler)
	return &testServer{
		holder:  holder,
		loader:  loader,
		handler: h,
		router:  NewRouter(h, NewChiMiddleware(so.mw)),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
	Meta *APIMeta `json:"meta"`
}

// serve is safe to call from goroutines other than the test's.
func (ts *testServer) serve(method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) do(t *testing.T, method, target string, header map[string]string) (int, envelope) {
	t.Helper()
	rec := ts.serve(method, target, header)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid JSON %q: %v", method, target, rec.Body.String(), err)
	}
	return rec.Code, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

var errLoad = errors.New("ratings source offline")
