package search

import (
	"github.com/hyperjump/mdindex/internal/config"
	"github.com/hyperjump/mdindex/internal/models"
)

// ProcessQuery applies configured defaults and limits, then validates the query.
// Without a configured limit, MaxResults is capped at models.MaxResultsLimit.
func ProcessQuery(query *models.SearchQuery, cfg *config.SearchConfig) error {
	if query.MaxResults == 0 {
		query.MaxResults = cfg.DefaultMaxResults
	}
	if err := query.Validate(); err != nil {
		return err
	}
	limit := cfg.MaxResultsLimit
	if limit <= 0 {
		limit = models.MaxResultsLimit
	}
	if query.MaxResults > limit {
		query.MaxResults = limit
	}
	return nil
}
