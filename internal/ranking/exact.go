package ranking

import (
	"fmt"
	"strings"

	"github.com/hyperjump/mdindex/internal/models"
)

// ExactScorer adds a fixed increment for every case-insensitive substring occurrence: one for
// the filename, one per matching body line, one per matching string-valued frontmatter key.
// The sum is clamped to 1. Long documents are not normalized and reach the cap quickly.
type ExactScorer struct {
	config *RankingConfig
}

// NewExactScorer creates an ExactScorer; nil config uses defaults.
func NewExactScorer(config *RankingConfig) *ExactScorer {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()
	return &ExactScorer{config: config}
}

// Score implements Scorer.
func (s *ExactScorer) Score(query string, doc *models.Document) (float64, []string, bool) {
	needle := strings.ToLower(query)
	if needle == "" {
		return 0, nil, false
	}
	var (
		score   float64
		matches []string
		hits    int
	)
	record := func(inc float64, entry string) {
		score += inc
		hits++
		if len(matches) < s.config.MaxMatches {
			matches = append(matches, entry)
		}
	}

	if strings.Contains(strings.ToLower(doc.Name), needle) {
		record(s.config.FilenameMatchScore, "Filename: "+doc.Name)
	}
	for i, line := range strings.Split(doc.Body, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			record(s.config.LineMatchScore, fmt.Sprintf("Line %d: %s", i+1, strings.TrimSpace(line)))
		}
	}
	for _, key := range doc.Frontmatter.Keys() {
		value, ok := doc.Frontmatter.String(key)
		if ok && strings.Contains(strings.ToLower(value), needle) {
			record(s.config.FrontmatterMatchScore, key+": "+value)
		}
	}

	if hits == 0 {
		return 0, nil, false
	}
	return min(score, 1.0), matches, true
}
