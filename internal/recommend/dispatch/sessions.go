// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/tomtom215/moviematch/internal/metrics"
)

// ErrSessionBusy is returned when a session submits a query while its
// previous one has not delivered an outcome.
var ErrSessionBusy = errors.New("a query is already in progress for this session")

// Sessions allows at most one in-flight query per session ID. Different
// sessions share the pool freely. An empty session ID is never gated.
type Sessions struct {
	pool *Pool

	mu     sync.Mutex
	active map[string]struct{}
}

// NewSessions gates submissions to pool by session.
func NewSessions(pool *Pool) *Sessions {
	return &Sessions{pool: pool, active: make(map[string]struct{})}
}

// Submit queues a query for session, or returns ErrSessionBusy. The hold
// is released just before the outcome is delivered.
func (s *Sessions) Submit(ctx context.Context, session, query string, limit int) (<-chan Outcome, error) {
	if session == "" {
		return s.pool.Submit(ctx, query, limit), nil
	}

	s.mu.Lock()
	if _, busy := s.active[session]; busy {
		s.mu.Unlock()
		metrics.RecommendQueriesTotal.WithLabelValues(metrics.OutcomeBusy).Inc()
		return nil, ErrSessionBusy
	}
	s.active[session] = struct{}{}
	s.mu.Unlock()

	return s.pool.submit(ctx, query, limit, func() { s.release(session) }), nil
}

// Busy reports whether session has a query in flight.
func (s *Sessions) Busy(session string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.active[session]
	return busy
}

// Active returns the number of sessions with a query in flight.
func (s *Sessions) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

func (s *Sessions) release(session string) {
	s.mu.Lock()
	delete(s.active, session)
	s.mu.Unlock()
}
