// Package models defines core data structures for documents, queries, and search results.
package models

import (
	"time"

	"github.com/hyperjump/mdindex/internal/frontmatter"
)

// Document is one file loaded from disk. Documents are built fresh for each query and are
// never mutated after loading.
type Document struct {
	Path         string           `json:"path"`
	Name         string           `json:"name"`
	Body         string           `json:"body"`
	Frontmatter  *frontmatter.Map `json:"frontmatter,omitempty"` // nil when the file has no block
	LastModified time.Time        `json:"last_modified"`
	Size         int64            `json:"size"`
}

// Tags returns the document's normalized frontmatter tags.
func (d *Document) Tags() []string {
	return d.Frontmatter.Tags()
}

// DirectoryStats summarizes the files a scan would load.
type DirectoryStats struct {
	Directory   string         `json:"directory"`
	FileCount   int            `json:"file_count"`
	TotalBytes  int64          `json:"total_bytes"`
	ByExtension map[string]int `json:"by_extension"`
}
