// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package dispatch runs recommendation queries on a fixed set of background
// workers. Callers submit a query and wait on a channel that receives
// exactly one Outcome.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/metrics"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// ErrPoolClosed is delivered for queries submitted after shutdown began, or
// still queued when it finished.
var ErrPoolClosed = errors.New("dispatch pool closed")

// Recommender is the query side of recommend.Holder and recommend.Engine.
type Recommender interface {
	Recommend(ctx context.Context, query string, limit int) (*recommend.Result, error)
}

// Outcome is the single value delivered for a submitted query.
type Outcome struct {
	Result *recommend.Result
	Err    error
}

// Options sizes a Pool.
type Options struct {
	// Workers is the number of queries run at once.
	// Default: GOMAXPROCS.
	Workers int

	// QueueSize is how many queries may wait for a worker before Submit
	// blocks.
	// Default: 64.
	QueueSize int

	// QueryTimeout bounds a single query once a worker picks it up. Zero
	// means no bound.
	QueryTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	return o
}

type task struct {
	ctx   context.Context
	query string
	limit int
	out   chan Outcome
	done  func()
}

// finish releases any session hold before delivering, so a caller that
// receives the outcome can immediately submit again.
func (t task) finish(o Outcome) {
	if t.done != nil {
		t.done()
	}
	t.out <- o
}

// Pool is a fixed-size worker pool. Workers run while Serve runs.
type Pool struct {
	runner Recommender
	opts   Options
	logger zerolog.Logger

	queue    chan task
	stopping chan struct{}
	stopOnce sync.Once

	mu      sync.RWMutex
	closed  bool
	serving atomic.Bool
}

// NewPool creates a pool in front of runner. Queries may be submitted
// before Serve starts; they wait in the queue.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPool(runner Recommender, opts Options, logger zerolog.Logger) *Pool {
	opts = opts.withDefaults()
	return &Pool{
		runner:   runner,
		opts:     opts,
		logger:   logger.With().Str("component", "dispatch").Logger(),
		queue:    make(chan task, opts.QueueSize),
		stopping: make(chan struct{}),
	}
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.opts.Workers }

// String names the pool in supervisor events.
func (p *Pool) String() string { return "dispatch-pool" }

// Submit queues a query. The returned channel is buffered and always
// receives exactly one Outcome, so a caller may abandon it. If ctx ends
// while the query is still waiting for queue space or a worker, the
// outcome carries ctx.Err(). A query already running is not cancelled.
func (p *Pool) Submit(ctx context.Context, query string, limit int) <-chan Outcome {
	return p.submit(ctx, query, limit, nil)
}

func (p *Pool) submit(ctx context.Context, query string, limit int, done func()) <-chan Outcome {
	t := task{ctx: ctx, query: query, limit: limit, out: make(chan Outcome, 1), done: done}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		t.finish(Outcome{Err: ErrPoolClosed})
		return t.out
	}

	metrics.DispatchQueueDepth.Inc()
	select {
	case p.queue <- t:
	case <-ctx.Done():
		metrics.DispatchQueueDepth.Dec()
		t.finish(Outcome{Err: ctx.Err()})
	case <-p.stopping:
		metrics.DispatchQueueDepth.Dec()
		t.finish(Outcome{Err: ErrPoolClosed})
	}
	return t.out
}

// Serve runs the workers until ctx is cancelled, then fails whatever is
// still queued with ErrPoolClosed. A pool serves once.
func (p *Pool) Serve(ctx context.Context) error {
	if !p.serving.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatch pool already served")
	}

	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx)
		}()
	}
	p.logger.Info().
		Int("workers", p.opts.Workers).
		Int("queue_size", p.opts.QueueSize).
		Msg("Dispatch pool started")

	<-ctx.Done()
	p.shutdown()
	wg.Wait()

	dropped := p.drain()
	p.logger.Info().Int("dropped", dropped).Msg("Dispatch pool stopped")
	return ctx.Err()
}

// shutdown stops new submissions and unblocks submitters waiting on a full
// queue.
func (p *Pool) shutdown() {
	p.stopOnce.Do(func() { close(p.stopping) })
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *Pool) drain() int {
	n := 0
	for {
		select {
		case t := <-p.queue:
			metrics.DispatchQueueDepth.Dec()
			t.finish(Outcome{Err: ErrPoolClosed})
			n++
		default:
			return n
		}
	}
}

func (p *Pool) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.queue:
			metrics.DispatchQueueDepth.Dec()
			if ctx.Err() != nil {
				t.finish(Outcome{Err: ErrPoolClosed})
				return
			}
			p.run(t)
		}
	}
}

func (p *Pool) run(t task) {
	metrics.DispatchInFlight.Inc()
	defer metrics.DispatchInFlight.Dec()

	if err := t.ctx.Err(); err != nil {
		t.finish(Outcome{Err: err})
		return
	}

	ctx := context.WithoutCancel(t.ctx)
	if p.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.QueryTimeout)
		defer cancel()
	}

	var o Outcome
	func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error().
					Interface("panic", r).
					Str("query", t.query).
					Msg("Recommendation query panicked")
				o = Outcome{Err: fmt.Errorf("query %q panicked: %v", t.query, r)}
			}
		}()
		o.Result, o.Err = p.runner.Recommend(ctx, t.query, t.limit)
	}()
	t.finish(o)
}
