package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/mdindex/internal/cli"
	"github.com/hyperjump/mdindex/internal/models"
	"github.com/hyperjump/mdindex/internal/search"
	"github.com/hyperjump/mdindex/internal/watcher"
)

func watchCmd(opts *globalOptions) *cobra.Command {
	var (
		maxResults int
		exact      bool
	)
	cmd := &cobra.Command{
		Use:   "watch <query>",
		Short: "Re-run a search whenever files in the directory change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, true)
			if err != nil {
				return err
			}
			defer a.close()
			dir, err := a.directory()
			if err != nil {
				return err
			}
			query := models.SearchQuery{Query: buildSearchQuery(args), Directory: dir, MaxResults: maxResults}
			if cmd.Flags().Changed("exact") {
				fuzzy := !exact
				query.Fuzzy = &fuzzy
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			out := cmd.OutOrStdout()
			var mu sync.Mutex
			rerun := func(changed []string) {
				mu.Lock()
				defer mu.Unlock()
				if len(changed) > 0 {
					a.logger.Info("files changed, re-running search", zap.Int("changed", len(changed)))
				}
				if err := runWatchedSearch(ctx, a.engine, query, out, a.format); err != nil {
					a.logger.Warn("watch search failed", zap.Error(err))
				}
			}

			w := watcher.New(dir, a.cfg.Scan.Extensions, rerun,
				watcher.WithDebounce(time.Duration(a.cfg.Watch.DebounceMS)*time.Millisecond),
				watcher.WithLogger(a.logger),
			)
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()
			rerun(nil)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().IntVarP(&maxResults, "limit", "n", 0, "number of results (default and maximum from config)")
	cmd.Flags().BoolVar(&exact, "exact", false, "exact substring matching instead of fuzzy")
	return cmd
}

// runWatchedSearch runs a copy of query so validation defaults never leak between runs.
func runWatchedSearch(ctx context.Context, engine *search.Engine, query models.SearchQuery, out io.Writer, format cli.OutputFormat) error {
	resp, err := engine.Search(ctx, &query)
	if err != nil {
		return err
	}
	if format == cli.OutputText {
		fmt.Fprintf(out, "\n[%s]", time.Now().Format(time.TimeOnly))
	}
	return cli.WriteSearchResults(out, resp, format)
}
