// Package ranking scores documents against a free-text query.
package ranking

import "github.com/hyperjump/mdindex/internal/models"

// Scorer scores one document. ok is false when the document does not match at all, in which
// case it is excluded from results. score must be in [0, 1], higher is better.
type Scorer interface {
	Score(query string, doc *models.Document) (score float64, matches []string, ok bool)
}
