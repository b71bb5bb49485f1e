// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

// Package cli implements the moviematch command line tool.
//
// Every command loads configuration the same way the server does (defaults,
// config file, environment) and then applies the persistent flags on top.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/corpus"
	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath  string
	source      string
	moviesPath  string
	ratingsPath string
	logLevel    string
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "moviematch",
		Short:         "Similar-movie recommendations from rating patterns",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logging.Config{
				Level:     opts.logLevel,
				Format:    "console",
				Timestamp: true,
				Output:    cmd.ErrOrStderr(),
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to config.yaml (default: CONFIG_PATH or ./config.yaml)")
	pf.StringVar(&opts.source, "source", "", "Corpus source: csv, duckdb or mongo")
	pf.StringVar(&opts.moviesPath, "movies", "", "Path to movies.csv")
	pf.StringVar(&opts.ratingsPath, "ratings", "", "Path to ratings.csv")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level: trace, debug, info, warn or error")

	root.AddCommand(
		newRecommendCmd(opts),
		newSearchCmd(opts),
		newStatsCmd(opts),
		newShellCmd(opts),
		newImportCmd(opts),
	)
	return root
}

// loadConfig resolves configuration and applies the persistent flags.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var loadOpts []config.Option
	if o.configPath != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(o.configPath))
	}
	loadOpts = append(loadOpts, config.WithOverride(func(c *config.Config) {
		if o.source != "" {
			c.Corpus.Source = o.source
		}
		if o.moviesPath != "" {
			c.Corpus.MoviesPath = o.moviesPath
		}
		if o.ratingsPath != "" {
			c.Corpus.RatingsPath = o.ratingsPath
		}
	}))
	return config.LoadWithKoanf(loadOpts...)
}

// session is a loaded corpus with an engine built over it.
type session struct {
	cfg    *config.Config
	corpus *corpus.Corpus
	holder *recommend.Holder
	engine *recommend.Engine
	logger zerolog.Logger
}

// open loads the corpus once and builds an engine over it. The holder has
// the engine published but no loader, so it cannot rebuild.
func (o *rootOptions) open(ctx context.Context) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	loader, err := corpus.New(cfg.Corpus)
	if err != nil {
		return nil, err
	}

	logger := logging.WithComponent("cli")
	c, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus from %s: %w", loader.Name(), err)
	}

	engineCfg := recommend.ConfigFromSettings(cfg.Recommend)
	e, err := recommend.Build(ctx, c.Movies, c.Ratings, engineCfg, logger)
	if err != nil {
		return nil, err
	}
	holder := recommend.NewHolder(nil, engineCfg, logger)
	holder.Publish(e)

	return &session{cfg: cfg, corpus: c, holder: holder, engine: e, logger: logger}, nil
}

func printf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}
