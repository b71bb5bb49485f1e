// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/corpus"
	"github.com/tomtom215/moviematch/internal/metrics"
)

// ErrRebuildInProgress is returned by TryRebuild while another rebuild runs.
var ErrRebuildInProgress = errors.New("engine rebuild already in progress")

// Holder owns the serving Engine. Readers get the current engine without
// locking; Rebuild builds a replacement off to the side and swaps it in
// only on success.
type Holder struct {
	current atomic.Pointer[Engine]

	rebuildMu sync.Mutex
	loader    corpus.Loader
	cfg       *Config
	base      zerolog.Logger
	logger    zerolog.Logger

	lastErr     atomic.Pointer[BuildFailure]
	lastAttempt atomic.Int64 // unix nanos
}

// BuildFailure records the most recent failed rebuild.
type BuildFailure struct {
	At    time.Time `json:"at"`
	Error string    `json:"error"`
}

// NewHolder creates an empty Holder. loader may be nil when engines are
// only ever published directly.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHolder(loader corpus.Loader, cfg *Config, logger zerolog.Logger) *Holder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Holder{
		loader: loader,
		cfg:    cfg,
		base:   logger,
		logger: logger.With().Str("component", "engine_holder").Logger(),
	}
}

// Current returns the serving engine, or ErrNotReady before the first
// successful build.
func (h *Holder) Current() (*Engine, error) {
	e := h.current.Load()
	if e == nil {
		return nil, ErrNotReady
	}
	return e, nil
}

// Ready reports whether an engine is being served.
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}

// Publish makes e the serving engine.
func (h *Holder) Publish(e *Engine) {
	h.current.Store(e)
	st := e.matrix.Stats()
	metrics.SetServingEngine(e.version, st.Rows, st.Cols, st.NNZ)
}

// LastFailure returns the most recent failed rebuild, or nil if the last
// rebuild succeeded.
func (h *Holder) LastFailure() *BuildFailure {
	return h.lastErr.Load()
}

// Recommend runs the query on the current engine.
func (h *Holder) Recommend(ctx context.Context, query string, limit int) (*Result, error) {
	e, err := h.Current()
	if err != nil {
		return nil, err
	}
	return e.Recommend(ctx, query, limit)
}

// Rebuild loads a fresh corpus and builds a new engine. On success the
// new engine is published and returned. On failure the serving engine is
// left untouched. Concurrent calls run one after another.
func (h *Holder) Rebuild(ctx context.Context) (*Engine, error) {
	h.rebuildMu.Lock()
	defer h.rebuildMu.Unlock()
	return h.rebuildLocked(ctx)
}

// TryRebuild is Rebuild, except that it returns ErrRebuildInProgress instead
// of waiting when a rebuild is already running.
func (h *Holder) TryRebuild(ctx context.Context) (*Engine, error) {
	if !h.rebuildMu.TryLock() {
		return nil, ErrRebuildInProgress
	}
	defer h.rebuildMu.Unlock()
	return h.rebuildLocked(ctx)
}

func (h *Holder) rebuildLocked(ctx context.Context) (*Engine, error) {
	if h.loader == nil {
		return nil, fmt.Errorf("rebuild: no corpus loader configured")
	}

	start := time.Now()
	h.lastAttempt.Store(start.UnixNano())

	e, err := h.build(ctx)
	metrics.RecordEngineBuild(time.Since(start), err)
	if err != nil {
		h.lastErr.Store(&BuildFailure{At: start, Error: err.Error()})
		ev := h.logger.Error().Err(err).Dur("duration", time.Since(start))
		if prev := h.current.Load(); prev != nil {
			ev = ev.Uint64("serving_version", prev.version)
		}
		ev.Msg("Engine rebuild failed")
		return nil, err
	}

	prev := h.current.Load()
	h.Publish(e)
	h.lastErr.Store(nil)

	ev := h.logger.Info().Uint64("version", e.version).Dur("duration", time.Since(start))
	if prev != nil {
		ev = ev.Uint64("previous_version", prev.version)
	}
	ev.Msg("Published recommendation engine")
	return e, nil
}

func (h *Holder) build(ctx context.Context) (*Engine, error) {
	c, err := h.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus from %s: %w", h.loader.Name(), err)
	}
	return Build(ctx, c.Movies, c.Ratings, h.cfg, h.base)
}

// LastAttempt returns when the last rebuild started, or the zero time.
func (h *Holder) LastAttempt() time.Time {
	n := h.lastAttempt.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
