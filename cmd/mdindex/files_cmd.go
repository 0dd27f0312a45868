package main

import (
	"github.com/spf13/cobra"

	"github.com/hyperjump/mdindex/internal/cli"
)

func listCmd(opts *globalOptions) *cobra.Command {
	var exts []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the files a search would read",
		Args:  cobra.NoArgs,
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
			paths, err := a.engine.ListFiles(cmd.Context(), dir, exts)
			if err != nil {
				return err
			}
			return cli.WritePaths(cmd.OutOrStdout(), paths, a.format)
		},
	}
	cmd.Flags().StringSliceVar(&exts, "ext", nil, "file extensions to include (default from config)")
	return cmd
}

func statsCmd(opts *globalOptions) *cobra.Command {
	var exts []string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show file count and size of the directory",
		Args:  cobra.NoArgs,
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
			stats, err := a.engine.DirectoryStats(cmd.Context(), dir, exts)
			if err != nil {
				return err
			}
			return cli.WriteStats(cmd.OutOrStdout(), stats, a.format)
		},
	}
	cmd.Flags().StringSliceVar(&exts, "ext", nil, "file extensions to include (default from config)")
	return cmd
}
