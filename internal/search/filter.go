package search

import (
	"sort"
	"strings"
	"time"

	"github.com/hyperjump/mdindex/internal/models"
)

// FilterByTags keeps documents whose normalized tags contain any of tags, ignoring case.
// The result is ordered most recently modified first.
func FilterByTags(docs []*models.Document, tags []string) []*models.Document {
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	out := make([]*models.Document, 0)
	for _, d := range docs {
		for _, t := range d.Tags() {
			if _, ok := want[strings.ToLower(t)]; ok {
				out = append(out, d)
				break
			}
		}
	}
	sortByRecency(out)
	return out
}

// FilterByDateRange keeps documents with start <= LastModified <= end, most recent first.
func FilterByDateRange(docs []*models.Document, start, end time.Time) []*models.Document {
	out := make([]*models.Document, 0)
	for _, d := range docs {
		if !d.LastModified.Before(start) && !d.LastModified.After(end) {
			out = append(out, d)
		}
	}
	sortByRecency(out)
	return out
}

func sortByRecency(docs []*models.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].LastModified.After(docs[j].LastModified)
	})
}
