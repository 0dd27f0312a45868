package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperjump/mdindex/internal/cli"
	"github.com/hyperjump/mdindex/internal/models"
)

func searchCmd(opts *globalOptions) *cobra.Command {
	var (
		maxResults int
		exact      bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank files by a fuzzy or exact query",
		Long: `Search ranks every file under the directory against the query.

Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.
  • Fuzzy search (default) tolerates typos and weighs file name, body, title and tags.
  • Use --exact for literal, case-insensitive substring matching.
  • When a fuzzy search finds nothing, spelling suggestions are printed.`,
		Example: `  mdindex search -d ~/notes typescript generics
  mdindex search -d ~/notes --exact "TODO"
  mdindex search -d ~/notes -o json kubernetes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.close()
			dir, err := a.directory()
			if err != nil {
				return err
			}
			query := &models.SearchQuery{
				Query:      buildSearchQuery(args),
				Directory:  dir,
				MaxResults: maxResults,
			}
			if cmd.Flags().Changed("exact") {
				fuzzy := !exact
				query.Fuzzy = &fuzzy
			}
			resp, err := a.engine.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			return cli.WriteSearchResults(cmd.OutOrStdout(), resp, a.format)
		},
	}
	cmd.Flags().IntVarP(&maxResults, "limit", "n", 0, "number of results (default and maximum from config)")
	cmd.Flags().BoolVar(&exact, "exact", false, "exact substring matching instead of fuzzy")
	return cmd
}

// buildSearchQuery joins positional args into one query string.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
