package ranking

import (
	"sort"

	"github.com/hyperjump/mdindex/internal/models"
)

// Ranker applies a Scorer to a document set and orders the hits.
type Ranker struct {
	scorer Scorer
}

// NewRanker creates a Ranker for scorer.
func NewRanker(scorer Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// Rank scores docs against query, drops non-matching documents, sorts by descending score
// with ties kept in input order, and returns at most maxResults hits (all when maxResults <= 0)
// together with the number of matching documents before truncation.
func (r *Ranker) Rank(query string, docs []*models.Document, maxResults int) ([]*models.SearchResult, int) {
	results := make([]*models.SearchResult, 0, len(docs))
	for _, doc := range docs {
		score, matches, ok := r.scorer.Score(query, doc)
		if !ok {
			continue
		}
		results = append(results, &models.SearchResult{Document: doc, Score: clamp01(score), Matches: matches})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	total := len(results)
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	for i, res := range results {
		res.Rank = i + 1
	}
	return results, total
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
