// Package scanner enumerates candidate document files under a directory.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperjump/mdindex/internal/config"
	"github.com/hyperjump/mdindex/internal/models"
	"go.uber.org/zap"
)

// ErrNotDirectory is returned when the scan root exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ErrOutsideDirectory is returned when a path resolves outside the directory it must stay in.
var ErrOutsideDirectory = errors.New("path outside directory")

// Scanner walks directory trees for files with allowed extensions.
type Scanner struct {
	extensions []string
	logger     *zap.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets a logger for skipped entries.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// WithExtensions sets the extensions used when a call passes none.
func WithExtensions(exts []string) Option {
	return func(s *Scanner) {
		if len(exts) > 0 {
			s.extensions = exts
		}
	}
}

// New returns a Scanner defaulting to the markdown and plain-text extensions.
func New(opts ...Option) *Scanner {
	s := &Scanner{extensions: config.DefaultExtensions, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type entry struct {
	path string
	size int64
}

// Scan returns the sorted, deduplicated absolute paths of regular files under root whose
// extension is in exts (the scanner's defaults when exts is empty). Unreadable entries and
// broken symlinks are skipped; symlinked files are included, symlinked directories are not
// descended. Only a root that cannot be enumerated is an error.
func (s *Scanner) Scan(ctx context.Context, root string, exts []string) ([]string, error) {
	entries, err := s.walk(ctx, root, exts)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	return paths, nil
}

// Stats summarizes the files Scan would return.
func (s *Scanner) Stats(ctx context.Context, root string, exts []string) (*models.DirectoryStats, error) {
	entries, err := s.walk(ctx, root, exts)
	if err != nil {
		return nil, err
	}
	absRoot, _ := filepath.Abs(root)
	stats := &models.DirectoryStats{Directory: absRoot, ByExtension: make(map[string]int)}
	for _, e := range entries {
		stats.FileCount++
		stats.TotalBytes += e.size
		stats.ByExtension[strings.ToLower(filepath.Ext(e.path))]++
	}
	return stats, nil
}

func (s *Scanner) walk(ctx context.Context, root string, exts []string) ([]entry, error) {
	if len(exts) == 0 {
		exts = s.extensions
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, absRoot)
	}
	if _, err := os.ReadDir(absRoot); err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	// WalkDir does not descend a symlinked root, so walk its target and report paths under
	// the caller's spelling of the root.
	walkRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	seen := make(map[string]struct{})
	var entries []entry
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			s.logger.Debug("scanner skipping unreadable entry", zap.String("path", path), zap.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !ExtensionAllowed(filepath.Ext(path), exts) {
			return nil
		}
		// Resolve symlinks so only regular files are returned.
		finfo, statErr := os.Stat(path)
		if statErr != nil {
			s.logger.Debug("scanner skipping unstattable file", zap.String("path", path), zap.Error(statErr))
			return nil
		}
		if !finfo.Mode().IsRegular() {
			return nil
		}
		if walkRoot != absRoot {
			rel, relErr := filepath.Rel(walkRoot, path)
			if relErr != nil {
				return nil
			}
			path = filepath.Join(absRoot, rel)
		}
		if _, dup := seen[path]; dup {
			return nil
		}
		seen[path] = struct{}{}
		entries = append(entries, entry{path: path, size: finfo.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	return entries, nil
}

// ExtensionAllowed reports whether ext is in allowed, ignoring case and the leading dot.
func ExtensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	if extNorm == "" {
		return false
	}
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}

// Contains reports whether path lies under root once both are made absolute and their
// symlinks resolved. A path that cannot be resolved, such as a missing file, is compared
// lexically so callers still see ErrNotExist for missing files inside root.
func Contains(root, path string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, fmt.Errorf("absolute path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("absolute path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	} else if dirResolved, err := filepath.EvalSymlinks(filepath.Dir(absPath)); err == nil {
		absPath = filepath.Join(dirResolved, filepath.Base(absPath))
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false, nil
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}
