// MovieMatch - Similar-Movie Recommendations from Rating Patterns
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/moviematch/internal/logging"
	"github.com/tomtom215/moviematch/internal/recommend"
	"github.com/tomtom215/moviematch/internal/recommend/dispatch"
)

const shellHelp = `Type a title to get recommendations.
  :limit N      set the number of recommendations (0 = default)
  :search TEXT  list matching titles
  :help         show this help
  :quit         leave the shell
`

func newShellCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive recommendation prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s, err := opts.open(ctx)
			if err != nil {
				return err
			}

			pool := dispatch.NewPool(s.holder, dispatch.Options{
				Workers:      s.cfg.Recommend.DispatchWorkers,
				QueueSize:    s.cfg.Recommend.QueueSize,
				QueryTimeout: s.cfg.Recommend.QueryTimeout,
			}, s.logger)
			go func() { _ = pool.Serve(ctx) }()

			sh := newShell(cmd.OutOrStdout(), dispatch.NewSessions(pool), s.engine, limit)
			printf(sh.out, "Loaded %d movies, %d comparable. Type :help for commands.\n",
				s.engine.Status().Catalog, s.engine.Status().Matrix.Rows)
			return sh.run(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of recommendations (0 = configured default)")
	return cmd
}

// shell is one interactive session. Queries run on the dispatcher pool
// while the prompt keeps reading; a query typed while another is still
// running is refused by the session gate.
type shell struct {
	out      io.Writer
	sessions *dispatch.Sessions
	engine   *recommend.Engine
	id       string
	limit    int

	pending <-chan dispatch.Outcome
}

func newShell(out io.Writer, sessions *dispatch.Sessions, engine *recommend.Engine, limit int) *shell {
	return &shell{
		out:      out,
		sessions: sessions,
		engine:   engine,
		id:       logging.GenerateSessionID(),
		limit:    limit,
	}
}

// run reads commands until EOF, :quit or ctx ends. At EOF it waits for a
// running query so piped input prints every answer.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	sh.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-lines:
			if !ok {
				if sh.pending != nil {
					select {
					case o := <-sh.pending:
						sh.deliver(o)
					case <-ctx.Done():
					}
				}
				return nil
			}
			if quit := sh.handle(ctx, line); quit {
				return nil
			}
			if sh.pending == nil {
				sh.prompt()
			}

		case o := <-sh.pending:
			sh.deliver(o)
			sh.prompt()
		}
	}
}

// handle runs one input line and reports whether the shell should exit.
func (sh *shell) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case line == ":quit" || line == ":q" || line == "exit":
		return true
	case line == ":help":
		printf(sh.out, "%s", shellHelp)
	case strings.HasPrefix(line, ":limit"):
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, ":limit")))
		if err != nil {
			printf(sh.out, "usage: :limit N\n")
			return false
		}
		sh.limit = n
		printf(sh.out, "limit set to %d\n", sh.engine.Limits().Clamp(n))
	case strings.HasPrefix(line, ":search"):
		matches, err := sh.engine.Search(strings.TrimPrefix(line, ":search"), sh.limit)
		if err != nil {
			printf(sh.out, "usage: :search TEXT\n")
			return false
		}
		_ = writeMatches(sh.out, matches)
	case strings.HasPrefix(line, ":"):
		printf(sh.out, "unknown command %s, try :help\n", line)
	default:
		sh.submit(ctx, line)
	}
	return false
}

func (sh *shell) submit(ctx context.Context, query string) {
	ch, err := sh.sessions.Submit(ctx, sh.id, query, sh.limit)
	if errors.Is(err, dispatch.ErrSessionBusy) {
		printf(sh.out, "still searching, please wait for the current results\n")
		return
	}
	if err != nil {
		printf(sh.out, "error: %v\n", err)
		return
	}
	printf(sh.out, "finding movies similar to %q...\n", strings.TrimSpace(query))
	sh.pending = ch
}

func (sh *shell) deliver(o dispatch.Outcome) {
	sh.pending = nil
	if o.Err != nil {
		printf(sh.out, "error: %v\n", o.Err)
		return
	}
	_ = writeResult(sh.out, o.Result)
}

func (sh *shell) prompt() {
	printf(sh.out, "moviematch> ")
}
