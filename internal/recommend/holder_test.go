// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/corpus"
)

// stubLoader serves the fixture corpus, or err when set.
type stubLoader struct {
	mu      sync.Mutex
	err     error
	gate    chan struct{}
	started chan struct{}
	calls   atomic.Int32
}

func (s *stubLoader) Name() string { return "stub" }

func (s *stubLoader) Load(ctx context.Context) (*corpus.Corpus, error) {
	s.calls.Add(1)
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	movies, ratings := fixtureCorpus()
	return &corpus.Corpus{Movies: movies, Ratings: ratings}, nil
}

func (s *stubLoader) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func TestHolderNotReady(t *testing.T) {
	t.Parallel()
	h := NewHolder(&stubLoader{}, nil, zerolog.Nop())

	if h.Ready() {
		t.Error("Ready() = true before any build")
	}
	if _, err := h.Current(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Current() error = %v, want ErrNotReady", err)
	}
	if _, err := h.Recommend(context.Background(), "toy story", 5); !errors.Is(err, ErrNotReady) {
		t.Errorf("Recommend() error = %v, want ErrNotReady", err)
	}
	if !h.LastAttempt().IsZero() {
		t.Errorf("LastAttempt() = %v, want zero", h.LastAttempt())
	}
}

func TestHolderRebuild(t *testing.T) {
	t.Parallel()
	h := NewHolder(&stubLoader{}, nil, zerolog.Nop())

	e, err := h.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	cur, err := h.Current()
	if err != nil || cur != e {
		t.Fatalf("Current() = %p, %v; want %p", cur, err, e)
	}
	if h.LastFailure() != nil {
		t.Errorf("LastFailure() = %+v, want nil", h.LastFailure())
	}
	if h.LastAttempt().IsZero() {
		t.Error("LastAttempt() not recorded")
	}

	res, err := h.Recommend(context.Background(), "toy story", 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(res.Items) != 5 || res.EngineVersion != e.Version() {
		t.Errorf("Recommend() = %+v", res)
	}
}

func TestHolderFailedRebuildKeepsEngine(t *testing.T) {
	t.Parallel()
	loader := &stubLoader{}
	h := NewHolder(loader, nil, zerolog.Nop())

	first, err := h.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	loadErr := errors.New("ratings file truncated")
	loader.fail(loadErr)
	if _, err := h.Rebuild(context.Background()); !errors.Is(err, loadErr) {
		t.Fatalf("Rebuild() error = %v, want %v", err, loadErr)
	}

	cur, err := h.Current()
	if err != nil || cur != first {
		t.Errorf("Current() = %p, %v; want the previous engine %p", cur, err, first)
	}
	failure := h.LastFailure()
	if failure == nil || failure.At.IsZero() || failure.Error == "" {
		t.Fatalf("LastFailure() = %+v", failure)
	}

	loader.fail(nil)
	second, err := h.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if second.Version() <= first.Version() {
		t.Errorf("version %d not after %d", second.Version(), first.Version())
	}
	if h.LastFailure() != nil {
		t.Error("LastFailure() not cleared by a successful rebuild")
	}
}

func TestHolderBuildErrors(t *testing.T) {
	t.Parallel()

	t.Run("nil loader", func(t *testing.T) {
		t.Parallel()
		h := NewHolder(nil, nil, zerolog.Nop())
		if _, err := h.Rebuild(context.Background()); err == nil {
			t.Error("Rebuild() with nil loader should fail")
		}
		if h.Ready() {
			t.Error("Ready() = true after failed rebuild")
		}
	})

	t.Run("thresholds remove everything", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Thresholds.MinRatingsPerMovie = 1000
		h := NewHolder(&stubLoader{}, cfg, zerolog.Nop())
		if _, err := h.Rebuild(context.Background()); !errors.Is(err, ErrData) {
			t.Errorf("Rebuild() error = %v, want ErrData", err)
		}
		if h.LastFailure() == nil {
			t.Error("LastFailure() = nil")
		}
	})
}

func TestHolderPublish(t *testing.T) {
	t.Parallel()
	h := NewHolder(nil, nil, zerolog.Nop())
	e := fixtureEngine(t)

	h.Publish(e)
	cur, err := h.Current()
	if err != nil || cur != e {
		t.Errorf("Current() = %p, %v; want %p", cur, err, e)
	}
}

func TestHolderTryRebuild(t *testing.T) {
	t.Parallel()
	loader := &stubLoader{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	h := NewHolder(loader, nil, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := h.Rebuild(context.Background())
		done <- err
	}()
	<-loader.started

	if _, err := h.TryRebuild(context.Background()); !errors.Is(err, ErrRebuildInProgress) {
		t.Errorf("TryRebuild() error = %v, want ErrRebuildInProgress", err)
	}
	if _, err := h.Current(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Current() during first build error = %v, want ErrNotReady", err)
	}

	close(loader.gate)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Rebuild() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Rebuild() did not finish")
	}

	loader.started = nil
	if _, err := h.TryRebuild(context.Background()); err != nil {
		t.Errorf("TryRebuild() error = %v", err)
	}
	if got := loader.calls.Load(); got != 2 {
		t.Errorf("loader calls = %d, want 2", got)
	}
}

func TestHolderReadersDuringRebuild(t *testing.T) {
	t.Parallel()
	loader := &stubLoader{}
	h := NewHolder(loader, nil, zerolog.Nop())
	if _, err := h.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				res, err := h.Recommend(ctx, "movie 12", 5)
				if err != nil {
					if ctx.Err() == nil {
						errs <- err
					}
					return
				}
				if len(res.Items) != 5 {
					errs <- errors.New("short result during rebuild")
					return
				}
			}
		}()
	}

	for i := 0; i < 3; i++ {
		if _, err := h.Rebuild(context.Background()); err != nil {
			t.Fatalf("Rebuild() error = %v", err)
		}
	}
	cancel()
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
