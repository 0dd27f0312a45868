package models

// MaxMatches caps the explanations attached to a SearchResult.
const MaxMatches = 5

// SearchResult is a single ranked hit. Score is in [0, 1]; higher is better for both strategies.
type SearchResult struct {
	Document *Document `json:"document"`
	Score    float64   `json:"score"`
	Matches  []string  `json:"matches"`
	Rank     int       `json:"rank"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	QueryID   string          `json:"query_id"`
	Query     string          `json:"query"`
	Strategy  string          `json:"strategy"`
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"` // ranked documents before truncation
	QueryTime int64           `json:"query_time_ms"`
	// Suggestions contains "Did you mean?" spellings, set only when a fuzzy search found nothing.
	Suggestions []string `json:"suggestions,omitempty"`
}

// DocumentList is the recency-ordered output of the tag and date filters.
type DocumentList struct {
	QueryID   string      `json:"query_id"`
	Documents []*Document `json:"documents"`
	QueryTime int64       `json:"query_time_ms"`
}
