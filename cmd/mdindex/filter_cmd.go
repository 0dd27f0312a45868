package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperjump/mdindex/internal/cli"
	"github.com/hyperjump/mdindex/internal/models"
)

func tagsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "tags <tag>...",
		Short:   "List files tagged with any of the given tags",
		Example: "  mdindex tags -d ~/notes golang tutorial\n  mdindex tags -d ~/notes golang,tutorial",
		Args:    cobra.MinimumNArgs(1),
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
			list, err := a.engine.SearchByTags(cmd.Context(), &models.TagQuery{Tags: splitTags(args), Directory: dir})
			if err != nil {
				return err
			}
			return cli.WriteDocuments(cmd.OutOrStdout(), list, a.format)
		},
	}
}

func datesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dates <start> <end>",
		Short: "List files modified between two dates, inclusive",
		Long: `Dates accepts most common layouts (2024-01-15, 2024-01-15T10:00:00Z, "Jan 15 2024").
Values without a zone are UTC; a date without a time means midnight.`,
		Example: "  mdindex dates -d ~/notes 2024-01-01 2024-01-31",
		Args:    cobra.ExactArgs(2),
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
			query, err := models.NewDateRangeQuery(args[0], args[1], dir)
			if err != nil {
				return err
			}
			list, err := a.engine.SearchByDateRange(cmd.Context(), query)
			if err != nil {
				return err
			}
			return cli.WriteDocuments(cmd.OutOrStdout(), list, a.format)
		},
	}
}

// splitTags accepts tags as separate args or comma-separated.
func splitTags(args []string) []string {
	var tags []string
	for _, arg := range args {
		for _, t := range strings.Split(arg, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}
