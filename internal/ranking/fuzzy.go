package ranking

import (
	"fmt"
	"math"
	"strings"

	"github.com/hyperjump/mdindex/internal/keyword"
	"github.com/hyperjump/mdindex/internal/models"
	"github.com/hyperjump/mdindex/pkg/utils"
)

// epsilon stands in for a perfect field score so it still contributes to the product.
const epsilon = 2.220446049250313e-16

// field is one weighted document attribute searched by the fuzzy strategy.
type field struct {
	name   string
	weight float64
	values func(*models.Document) []string
}

// FuzzyScorer matches the query approximately against a document's name, body, title and tags.
//
// Each field gets a distance score: the best edit distance of the query to any substring of the
// field value, divided by the query length (0 is a perfect match). Fields above the threshold
// are ignored. The document distance is the weighted geometric product of its matched field
// scores, and the returned score is 1 minus that distance.
type FuzzyScorer struct {
	config *RankingConfig
	fields []field
}

// NewFuzzyScorer creates a FuzzyScorer; nil config uses defaults.
func NewFuzzyScorer(config *RankingConfig) *FuzzyScorer {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()
	total := config.NameWeight + config.BodyWeight + config.TitleWeight + config.TagsWeight
	return &FuzzyScorer{
		config: config,
		fields: []field{
			{"name", config.NameWeight / total, func(d *models.Document) []string { return []string{d.Name} }},
			{"body", config.BodyWeight / total, func(d *models.Document) []string { return []string{d.Body} }},
			{"title", config.TitleWeight / total, frontmatterValues("title")},
			{"tags", config.TagsWeight / total, (*models.Document).Tags},
		},
	}
}

func frontmatterValues(key string) func(*models.Document) []string {
	return func(d *models.Document) []string {
		v, ok := d.Frontmatter.Get(key)
		if !ok || v == nil {
			return nil
		}
		if list, ok := v.([]any); ok {
			out := make([]string, 0, len(list))
			for _, e := range list {
				if e != nil {
					out = append(out, fmt.Sprint(e))
				}
			}
			return out
		}
		return []string{fmt.Sprint(v)}
	}
}

// Score implements Scorer.
func (s *FuzzyScorer) Score(query string, doc *models.Document) (float64, []string, bool) {
	pattern := []rune(strings.ToLower(strings.TrimSpace(query)))
	if len(pattern) < s.config.MinMatchLength {
		return 0, nil, false
	}

	raw := 1.0
	var matches []string
	matched := false
	for _, f := range s.fields {
		if f.weight <= 0 {
			continue
		}
		fieldScore, snippet, ok := s.matchField(pattern, f.values(doc))
		if !ok {
			continue
		}
		matched = true
		raw *= math.Pow(math.Max(fieldScore, epsilon), f.weight)
		if len(matches) < s.config.MaxMatches {
			matches = append(matches, f.name+": "+snippet)
		}
	}
	if !matched {
		return 0, nil, false
	}
	return 1 - raw, matches, true
}

// matchField returns the best normalized distance across values, plus a snippet of the best
// value starting at the match.
func (s *FuzzyScorer) matchField(pattern []rune, values []string) (float64, string, bool) {
	best := math.Inf(1)
	var snippet string
	for _, v := range values {
		lower := []rune(strings.ToLower(v))
		m := keyword.SubstringMatch(pattern, lower)
		score := float64(m.Distance) / float64(len(pattern))
		if score < best && m.End > m.Start {
			best = score
			// Lowercasing can change the rune count; fall back to the lowered text then.
			text := []rune(v)
			if len(text) != len(lower) {
				text = lower
			}
			snippet = utils.Snippet(string(text[m.Start:]), s.config.SnippetLength)
		}
	}
	if best > s.config.Threshold {
		return 0, "", false
	}
	return best, snippet, true
}
