// Package loader reads document files into models.Document values.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hyperjump/mdindex/internal/extract"
	"github.com/hyperjump/mdindex/internal/frontmatter"
	"github.com/hyperjump/mdindex/internal/models"
	"go.uber.org/zap"
)

// ReadError reports a file that could not be opened, read, decoded or statted.
type ReadError struct {
	Path string
	Op   string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Loader builds Documents from files. It holds no state between calls and is safe for
// concurrent use.
type Loader struct {
	extractor   *extract.Extractor
	parser      frontmatter.Parser
	concurrency int
	logger      *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a logger for skipped files and frontmatter degradation.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// WithParser sets the frontmatter parser applied to markdown-family files.
func WithParser(p frontmatter.Parser) Option {
	return func(ld *Loader) { ld.parser = p }
}

// WithConcurrency bounds the number of files LoadAll reads at once.
func WithConcurrency(n int) Option {
	return func(ld *Loader) {
		if n > 0 {
			ld.concurrency = n
		}
	}
}

// New returns a Loader using the minimal frontmatter parser and 8 concurrent reads.
func New(opts ...Option) *Loader {
	ld := &Loader{
		extractor:   extract.NewExtractor(),
		parser:      frontmatter.Minimal{},
		concurrency: 8,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load reads one file. Markdown-family files have their frontmatter split from the body;
// other files get a nil Frontmatter. Failures are returned as *ReadError.
func (ld *Loader) Load(path string) (*models.Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &ReadError{Path: path, Op: "resolve", Err: err}
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &ReadError{Path: absPath, Op: "stat", Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &ReadError{Path: absPath, Op: "stat", Err: fmt.Errorf("not a regular file")}
	}
	text, err := ld.extractor.Extract(absPath)
	if err != nil {
		return nil, &ReadError{Path: absPath, Op: "read", Err: err}
	}

	doc := &models.Document{
		Path:         absPath,
		Name:         filepath.Base(absPath),
		Body:         text,
		LastModified: info.ModTime().UTC(),
		Size:         info.Size(),
	}
	if extract.IsMarkdown(filepath.Ext(absPath)) {
		fm, body := ld.parser.Parse(text)
		if fm.Len() > 0 {
			doc.Frontmatter = fm
		} else if strings.HasPrefix(text, "---") && body == text {
			ld.logger.Debug("loader ignoring malformed frontmatter", zap.String("path", absPath))
		}
		doc.Body = body
	}
	return doc, nil
}

// LoadAll loads paths concurrently and returns the documents in input order. Files that fail
// to load are logged and skipped. If ctx is cancelled, LoadAll stops dispatching reads and
// returns ctx.Err().
func (ld *Loader) LoadAll(ctx context.Context, paths []string) ([]*models.Document, error) {
	docs := make([]*models.Document, len(paths))
	sem := make(chan struct{}, ld.concurrency)
	var wg sync.WaitGroup

dispatch:
	for i, p := range paths {
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			defer func() { <-sem }()
			doc, err := ld.Load(p)
			if err != nil {
				ld.logger.Warn("loader skipping file", zap.String("path", p), zap.Error(err))
				return
			}
			docs[i] = doc
		}(i, p)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := docs[:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}
