// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/api"
	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/corpus"
	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/recommend/dispatch"
	"github.com/tomtom215/moviematch/internal/supervisor/services"
)

// RecommendComponents holds everything that answers recommendation queries.
type RecommendComponents struct {
	Holder   *recommend.Holder
	Pool     *dispatch.Pool
	Sessions *dispatch.Sessions
	Engine   *services.EngineService
}

// initRecommend builds the corpus loader, runs the first engine build and
// wires the dispatcher. The first build must succeed: a server with no
// engine would only ever answer 503.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*RecommendComponents, error) {
	loader, err := corpus.New(cfg.Corpus)
	if err != nil {
		return nil, fmt.Errorf("corpus loader: %w", err)
	}

	engineCfg := recommend.ConfigFromSettings(cfg.Recommend)
	if err := engineCfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	logger.Info().
		Str("source", loader.Name()).
		Int("min_ratings_per_movie", engineCfg.Thresholds.MinRatingsPerMovie).
		Int("min_ratings_per_user", engineCfg.Thresholds.MinRatingsPerUser).
		Int("index_workers", engineCfg.Index.Workers).
		Msg("Building initial recommendation engine")

	holder := recommend.NewHolder(loader, engineCfg, logger)
	if _, err := holder.Rebuild(ctx); err != nil {
		return nil, fmt.Errorf("initial engine build: %w", err)
	}

	pool := dispatch.NewPool(holder, dispatch.Options{
		Workers:      cfg.Recommend.DispatchWorkers,
		QueueSize:    cfg.Recommend.QueueSize,
		QueryTimeout: cfg.Recommend.QueryTimeout,
	}, logger)

	return &RecommendComponents{
		Holder:   holder,
		Pool:     pool,
		Sessions: dispatch.NewSessions(pool),
		Engine: services.NewEngineService(holder, services.EngineServiceConfig{
			RebuildInterval: cfg.Recommend.RebuildInterval,
			RebuildTimeout:  cfg.Corpus.LoadTimeout,
		}, logger),
	}, nil
}

// handlerOptions maps the cache and timeout settings onto the API handler.
func handlerOptions(rc config.RecommendConfig) api.HandlerOptions {
	opts := api.HandlerOptions{QueryTimeout: rc.QueryTimeout}
	if rc.CacheEnabled {
		opts.CacheSize = rc.CacheSize
		opts.CacheTTL = rc.CacheTTL
	}
	return opts
}
