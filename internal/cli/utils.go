// Package cli formats engine output for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hyperjump/mdindex/internal/frontmatter"
	"github.com/hyperjump/mdindex/internal/headings"
	"github.com/hyperjump/mdindex/internal/models"
	"github.com/hyperjump/mdindex/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line per item, suitable for piping.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const separator = "─────────────────────────────────────────────────────────"

// ParseFormat validates a --format value. Empty means OutputText.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case "":
		return OutputText, nil
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, compact or json)", s)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintf(w, "%.4f\t%s\n", r.Score, r.Document.Path)
		}
		return nil
	}

	fmt.Fprintf(w, "\nFound %d results for %q (%s) in %dms\n\n",
		response.Total, response.Query, response.Strategy, response.QueryTime)
	if len(response.Results) == 0 && len(response.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s\n", strings.Join(response.Suggestions, ", "))
		return nil
	}
	for _, r := range response.Results {
		fmt.Fprintln(w, separator)
		fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", r.Rank, r.Score)
		fmt.Fprintf(w, "Path: %s\n", r.Document.Path)
		if title, ok := r.Document.Frontmatter.String("title"); ok {
			fmt.Fprintf(w, "Title: %s\n", title)
		}
		for _, m := range r.Matches {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteDocuments writes a recency-ordered document list (tag and date filters).
func WriteDocuments(w io.Writer, list *models.DocumentList, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, list)
	case OutputCompact:
		for _, d := range list.Documents {
			fmt.Fprintf(w, "%s\t%s\n", d.LastModified.Format(time.RFC3339), d.Path)
		}
		return nil
	}
	fmt.Fprintf(w, "\nFound %d documents in %dms\n\n", len(list.Documents), list.QueryTime)
	for _, d := range list.Documents {
		fmt.Fprintf(w, "%s  %s\n", d.LastModified.Format("2006-01-02 15:04"), d.Path)
		if tags := d.Tags(); len(tags) > 0 {
			fmt.Fprintf(w, "  tags: %s\n", strings.Join(tags, ", "))
		}
	}
	return nil
}

// WritePaths writes a file list.
func WritePaths(w io.Writer, paths []string, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, paths)
	}
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
	return nil
}

// WriteStats writes directory statistics.
func WriteStats(w io.Writer, stats *models.DirectoryStats, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, stats)
	case OutputCompact:
		fmt.Fprintf(w, "%d\t%d\t%s\n", stats.FileCount, stats.TotalBytes, stats.Directory)
		return nil
	}
	fmt.Fprintf(w, "Directory: %s\n", stats.Directory)
	fmt.Fprintf(w, "Files:     %d\n", stats.FileCount)
	fmt.Fprintf(w, "Size:      %s\n", FormatBytes(stats.TotalBytes))
	for _, ext := range sortedKeys(stats.ByExtension) {
		fmt.Fprintf(w, "  %-10s %d\n", ext, stats.ByExtension[ext])
	}
	return nil
}

// WriteDocument writes one document: metadata header then body.
func WriteDocument(w io.Writer, doc *models.Document, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, doc)
	case OutputCompact:
		fmt.Fprintf(w, "%s\t%d\t%s\n", doc.Path, doc.Size, doc.LastModified.Format(time.RFC3339))
		return nil
	}
	fmt.Fprintf(w, "Path:     %s\n", doc.Path)
	fmt.Fprintf(w, "Size:     %s\n", FormatBytes(doc.Size))
	fmt.Fprintf(w, "Modified: %s\n", doc.LastModified.Format(time.RFC3339))
	if doc.Frontmatter.Len() > 0 {
		fmt.Fprintln(w, "Frontmatter:")
		writeFrontmatterText(w, doc.Frontmatter, "  ")
	}
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, doc.Body)
	return nil
}

// WriteHeadings writes a heading list, or the table of contents when toc is set.
func WriteHeadings(w io.Writer, hs []headings.Heading, toc bool, format OutputFormat) error {
	if format == OutputJSON {
		if toc {
			return writeJSON(w, map[string]string{"toc": headings.TOC(hs)})
		}
		if hs == nil {
			hs = []headings.Heading{}
		}
		return writeJSON(w, hs)
	}
	if toc {
		_, err := io.WriteString(w, headings.TOC(hs))
		return err
	}
	for _, h := range hs {
		fmt.Fprintf(w, "%s%s (#%s)\n", strings.Repeat("  ", h.Level-1), h.Text, h.ID)
	}
	return nil
}

// WriteFrontmatter writes a frontmatter mapping.
func WriteFrontmatter(w io.Writer, fm *frontmatter.Map, format OutputFormat) error {
	if format == OutputJSON {
		if fm == nil {
			fm = frontmatter.NewMap()
		}
		return writeJSON(w, fm)
	}
	writeFrontmatterText(w, fm, "")
	return nil
}

func writeFrontmatterText(w io.Writer, fm *frontmatter.Map, indent string) {
	for _, k := range fm.Keys() {
		v, _ := fm.Get(k)
		fmt.Fprintf(w, "%s%s: %s\n", indent, k, FormatValue(v))
	}
}

// FormatValue renders a frontmatter value for display; lists are comma separated.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = FormatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(t)
	}
}

// FormatBytes renders n in the largest binary unit that keeps it >= 1.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Truncate shortens s to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	return utils.Truncate(s, maxLen)
}
