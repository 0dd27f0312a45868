// Package search runs queries over a directory: every call scans, loads and ranks from scratch.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/mdindex/internal/config"
	"github.com/hyperjump/mdindex/internal/frontmatter"
	"github.com/hyperjump/mdindex/internal/keyword"
	"github.com/hyperjump/mdindex/internal/loader"
	"github.com/hyperjump/mdindex/internal/models"
	"github.com/hyperjump/mdindex/internal/ranking"
	"github.com/hyperjump/mdindex/internal/scanner"
	"go.uber.org/zap"
)

// maxSuggestions caps "did you mean" alternatives on an empty fuzzy search.
const maxSuggestions = 3

// Engine answers search, filter and listing queries. It keeps no index between calls, so
// results always reflect the files on disk.
type Engine struct {
	config  *config.Config
	parser  frontmatter.Parser
	scanner *scanner.Scanner
	loader  *loader.Loader
	fuzzy   *ranking.Ranker
	exact   *ranking.Ranker
	logger  *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger passed to the scanner and loader and used for query logs.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine from cfg. A nil cfg uses defaults.
func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	config.ApplyDefaults(cfg)
	parser, err := frontmatter.ForMode(cfg.Frontmatter.Mode)
	if err != nil {
		return nil, err
	}
	e := &Engine{config: cfg, parser: parser, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	e.scanner = scanner.New(scanner.WithExtensions(cfg.Scan.Extensions), scanner.WithLogger(e.logger))
	e.loader = loader.New(
		loader.WithParser(parser),
		loader.WithConcurrency(cfg.Scan.Concurrency),
		loader.WithLogger(e.logger),
	)
	rc := &ranking.RankingConfig{
		Threshold:      cfg.Search.FuzzyThreshold,
		MinMatchLength: cfg.Search.MinMatchLength,
		SnippetLength:  cfg.Search.SnippetLength,
		MaxMatches:     min(cfg.Search.MaxMatches, models.MaxMatches),
	}
	rc.ApplyDefaults()
	e.fuzzy = ranking.NewRanker(ranking.NewFuzzyScorer(rc))
	e.exact = ranking.NewRanker(ranking.NewExactScorer(rc))
	return e, nil
}

// Search ranks the documents under query.Directory with the fuzzy or exact strategy.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ProcessQuery(query, &e.config.Search); err != nil {
		return nil, err
	}
	docs, err := e.loadDirectory(ctx, query.Directory)
	if err != nil {
		return nil, err
	}

	strategy := query.Strategy(e.config.Search.FuzzyOrDefault())
	ranker := e.exact
	if strategy == models.StrategyFuzzy {
		ranker = e.fuzzy
	}
	results, total := ranker.Rank(query.Query, docs, query.MaxResults)

	response := &models.SearchResponse{
		QueryID:  uuid.New().String(),
		Query:    query.Query,
		Strategy: strategy,
		Results:  results,
		Total:    total,
	}
	if total == 0 && strategy == models.StrategyFuzzy && e.config.Search.SuggestionsOrDefault() {
		response.Suggestions = e.suggest(query.Query, docs)
	}
	response.QueryTime = time.Since(startTime).Milliseconds()

	e.logger.Info("search completed",
		zap.String("query_id", response.QueryID),
		zap.String("strategy", strategy),
		zap.String("directory", query.Directory),
		zap.Int("documents", len(docs)),
		zap.Int("total", total),
		zap.Int64("query_time_ms", response.QueryTime),
	)
	return response, nil
}

// suggest builds a throwaway term dictionary over docs and returns corrected queries.
// Failures only cost the suggestions.
func (e *Engine) suggest(query string, docs []*models.Document) []string {
	if len(docs) == 0 {
		return nil
	}
	dict, err := keyword.NewMemDictionary(docs)
	if err != nil {
		e.logger.Warn("suggestion dictionary failed", zap.Error(err))
		return nil
	}
	defer dict.Close()
	checker, err := keyword.NewSpellChecker(dict)
	if err != nil {
		e.logger.Warn("spell checker failed", zap.Error(err))
		return nil
	}
	return checker.SuggestQueries(query, maxSuggestions)
}

// SearchByTags returns documents tagged with any of query.Tags, most recently modified first.
func (e *Engine) SearchByTags(ctx context.Context, query *models.TagQuery) (*models.DocumentList, error) {
	startTime := time.Now()
	if err := query.Validate(); err != nil {
		return nil, err
	}
	docs, err := e.loadDirectory(ctx, query.Directory)
	if err != nil {
		return nil, err
	}
	list := &models.DocumentList{QueryID: uuid.New().String(), Documents: FilterByTags(docs, query.Tags)}
	list.QueryTime = time.Since(startTime).Milliseconds()
	e.logger.Info("tag filter completed",
		zap.String("query_id", list.QueryID),
		zap.Strings("tags", query.Tags),
		zap.Int("matched", len(list.Documents)),
	)
	return list, nil
}

// SearchByDateRange returns documents modified within [query.Start, query.End], most recent first.
func (e *Engine) SearchByDateRange(ctx context.Context, query *models.DateRangeQuery) (*models.DocumentList, error) {
	startTime := time.Now()
	if err := query.Validate(); err != nil {
		return nil, err
	}
	docs, err := e.loadDirectory(ctx, query.Directory)
	if err != nil {
		return nil, err
	}
	list := &models.DocumentList{QueryID: uuid.New().String(), Documents: FilterByDateRange(docs, query.Start, query.End)}
	list.QueryTime = time.Since(startTime).Milliseconds()
	e.logger.Info("date filter completed",
		zap.String("query_id", list.QueryID),
		zap.Time("start", query.Start),
		zap.Time("end", query.End),
		zap.Int("matched", len(list.Documents)),
	)
	return list, nil
}

// ListFiles returns the files a query over dir would load. Empty exts uses the configured set.
func (e *Engine) ListFiles(ctx context.Context, dir string, exts []string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: directory is required", models.ErrInvalidQuery)
	}
	return e.scanner.Scan(ctx, dir, exts)
}

// DirectoryStats summarizes the files under dir. Empty exts uses the configured set.
func (e *Engine) DirectoryStats(ctx context.Context, dir string, exts []string) (*models.DirectoryStats, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: directory is required", models.ErrInvalidQuery)
	}
	return e.scanner.Stats(ctx, dir, exts)
}

// LoadDocument loads a single file. Errors are *loader.ReadError.
func (e *Engine) LoadDocument(path string) (*models.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", models.ErrInvalidQuery)
	}
	return e.loader.Load(path)
}

// LoadDocumentIn loads path only if it resolves to a file under dir. Paths outside dir,
// including through symlinks, fail with scanner.ErrOutsideDirectory.
func (e *Engine) LoadDocumentIn(dir, path string) (*models.Document, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: directory is required", models.ErrInvalidQuery)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", models.ErrInvalidQuery)
	}
	inside, err := scanner.Contains(dir, path)
	if err != nil {
		return nil, err
	}
	if !inside {
		return nil, fmt.Errorf("%w: %s is not under %s", scanner.ErrOutsideDirectory, path, dir)
	}
	return e.loader.Load(path)
}

// ParseFrontmatter splits text with the configured frontmatter parser.
func (e *Engine) ParseFrontmatter(text string) (*frontmatter.Map, string) {
	return e.parser.Parse(text)
}

func (e *Engine) loadDirectory(ctx context.Context, dir string) ([]*models.Document, error) {
	paths, err := e.scanner.Scan(ctx, dir, nil)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return e.loader.LoadAll(ctx, paths)
}
