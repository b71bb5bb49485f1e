// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/recommend"
)

// EngineRebuilder is the part of recommend.Holder the refresh loop needs.
type EngineRebuilder interface {
	TryRebuild(ctx context.Context) (*recommend.Engine, error)
}

// EngineServiceConfig holds configuration for the refresh loop.
type EngineServiceConfig struct {
	// RebuildInterval is how often the corpus is reloaded. Zero or less
	// disables scheduled rebuilds; the service then only waits for
	// shutdown.
	RebuildInterval time.Duration

	// RebuildTimeout bounds one scheduled rebuild. Default: 30m
	RebuildTimeout time.Duration
}

// EngineService rebuilds the recommendation engine on a schedule. A failed
// rebuild is logged and the previous engine keeps serving; the service
// itself does not fail, so suture never restarts it for a bad corpus.
type EngineService struct {
	holder EngineRebuilder
	config EngineServiceConfig
	logger zerolog.Logger
	name   string
}

// NewEngineService creates the refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngineService(holder EngineRebuilder, cfg EngineServiceConfig, logger zerolog.Logger) *EngineService {
	if cfg.RebuildTimeout <= 0 {
		cfg.RebuildTimeout = 30 * time.Minute
	}
	return &EngineService{
		holder: holder,
		config: cfg,
		logger: logger.With().Str("service", "engine").Logger(),
		name:   "engine-service",
	}
}

// Serve implements suture.Service.
func (s *EngineService) Serve(ctx context.Context) error {
	if s.config.RebuildInterval <= 0 {
		s.logger.Debug().Msg("scheduled rebuilds disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().Dur("rebuild_interval", s.config.RebuildInterval).Msg("engine service running")

	ticker := time.NewTicker(s.config.RebuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("engine service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.rebuild(ctx)
		}
	}
}

func (s *EngineService) rebuild(ctx context.Context) {
	rebuildCtx, cancel := context.WithTimeout(ctx, s.config.RebuildTimeout)
	defer cancel()

	e, err := s.holder.TryRebuild(rebuildCtx)
	switch {
	case errors.Is(err, recommend.ErrRebuildInProgress):
		s.logger.Debug().Msg("skipping scheduled rebuild, another rebuild is running")
	case err != nil:
		// The holder has already logged the cause.
		s.logger.Warn().Err(err).Msg("scheduled rebuild failed, keeping current engine")
	default:
		s.logger.Debug().Uint64("version", e.Version()).Msg("scheduled rebuild complete")
	}
}

// String returns the service name for logging.
func (s *EngineService) String() string {
	return s.name
}
