package search

import (
	"testing"
	"time"

	"github.com/hyperjump/mdindex/internal/frontmatter"
	"github.com/hyperjump/mdindex/internal/models"
)

func tagged(name string, tags any, modified time.Time) *models.Document {
	d := &models.Document{Name: name, LastModified: modified}
	if tags != nil {
		d.Frontmatter = frontmatter.NewMap()
		d.Frontmatter.Set("tags", tags)
	}
	return d
}

func names(docs []*models.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Name
	}
	return out
}

func TestFilterByTags(t *testing.T) {
	docs := []*models.Document{
		tagged("old.md", "[tutorial, go]", day(1)),
		tagged("new.md", []any{"Go"}, day(9)),
		tagged("scalar.md", "tutorial", day(5)),
		tagged("untagged.md", nil, day(7)),
		tagged("other.md", "rust", day(8)),
	}
	tests := []struct {
		tags []string
		want []string
	}{
		{[]string{"Tutorial"}, []string{"scalar.md", "old.md"}},
		{[]string{"go"}, []string{"new.md", "old.md"}},
		{[]string{"python", "RUST"}, []string{"other.md"}},
		{[]string{"none"}, []string{}},
	}
	for _, tt := range tests {
		got := names(FilterByTags(docs, tt.tags))
		if len(got) != len(tt.want) {
			t.Errorf("FilterByTags(%v) = %v, want %v", tt.tags, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("FilterByTags(%v) = %v, want %v", tt.tags, got, tt.want)
				break
			}
		}
	}
}

func TestFilterByDateRange(t *testing.T) {
	docs := []*models.Document{
		tagged("start.md", nil, day(1)),
		tagged("mid.md", nil, day(15)),
		tagged("end.md", nil, day(31)),
		tagged("after.md", nil, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		tagged("before.md", nil, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)),
	}
	got := names(FilterByDateRange(docs, day(1), day(31)))
	want := []string{"end.md", "mid.md", "start.md"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}
