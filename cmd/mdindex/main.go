// Package main is the mdindex CLI entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/mdindex/internal/cli"
	"github.com/hyperjump/mdindex/internal/config"
	"github.com/hyperjump/mdindex/internal/search"
	"github.com/hyperjump/mdindex/pkg/utils"
)

// Version is set at build time via ldflags.
var Version = "dev"

// devConfigName is looked up in the working directory when --config is left at its default.
const devConfigName = "mdindex.yaml"

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	dir        string
	output     string
	debug      bool
}

// app is the per-invocation state built from the global options.
type app struct {
	cfg        *config.Config
	configPath string
	engine     *search.Engine
	logger     *zap.Logger
	format     cli.OutputFormat
	dir        string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "mdindex",
		Short: "Search markdown notes on disk",
		Long: "mdindex searches a directory of markdown and text files without keeping an index: " +
			"fuzzy and exact search, tag and date filters, headings, frontmatter and rendering.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file path")
	root.PersistentFlags().StringVarP(&opts.dir, "dir", "d", "", "directory to search (default: scan.directory from config)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "output format: text, compact, or json")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(searchCmd(opts))
	root.AddCommand(tagsCmd(opts))
	root.AddCommand(datesCmd(opts))
	root.AddCommand(listCmd(opts))
	root.AddCommand(statsCmd(opts))
	root.AddCommand(showCmd(opts))
	root.AddCommand(headingsCmd(opts))
	root.AddCommand(frontmatterCmd(opts))
	root.AddCommand(serveCmd(opts))
	root.AddCommand(mcpCmd(opts))
	root.AddCommand(watchCmd(opts))
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mdindex version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mdindex version %s\n", Version)
			return nil
		},
	}
}

// loadConfig loads config from path. When path is the default, mdindex.yaml in the working
// directory takes precedence (for development). A missing file yields defaults.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == config.DefaultPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, devConfigName)
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, err := config.Load(fallback)
				if err != nil {
					return nil, "", err
				}
				return cfg, fallback, nil
			}
		}
		cfg, err := config.LoadOrDefault(path)
		return cfg, path, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newApp loads config and builds the engine. Long-running commands always log; one-shot
// commands log only with --debug so stdout and stderr stay clean for piping.
func newApp(opts *globalOptions, longRunning bool) (*app, error) {
	format, err := cli.ParseFormat(opts.output)
	if err != nil {
		return nil, err
	}
	cfg, path, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	debug := cfg.Debug || opts.debug
	logger := zap.NewNop()
	if debug || longRunning {
		if logger, err = utils.NewLogger(debug); err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}
	logger.Debug("config loaded", zap.String("config_path", path), zap.Bool("debug", debug))

	engine, err := search.NewEngine(cfg, search.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	dir := opts.dir
	if dir == "" {
		dir = cfg.Scan.Directory
	}
	return &app{cfg: cfg, configPath: path, engine: engine, logger: logger, format: format, dir: dir}, nil
}

// directory returns the directory for a query, or an error when neither --dir nor
// scan.directory is set.
func (a *app) directory() (string, error) {
	if a.dir == "" {
		return "", fmt.Errorf("no directory: pass --dir or set scan.directory in the config file")
	}
	return a.dir, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
