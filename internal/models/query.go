package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrInvalidQuery is wrapped by every validation failure.
var ErrInvalidQuery = errors.New("invalid query")

// Result limits used when the search configuration sets none.
const (
	DefaultMaxResults = 10
	MaxResultsLimit   = 100
)

// Search strategies.
const (
	StrategyFuzzy = "fuzzy"
	StrategyExact = "exact"
)

// SearchQuery is a free-text search over one directory.
type SearchQuery struct {
	Query      string `json:"query"`
	Directory  string `json:"directory"`
	MaxResults int    `json:"max_results,omitempty"`
	// Fuzzy selects the strategy; nil means the configured default.
	Fuzzy *bool `json:"fuzzy,omitempty"`
}

// Validate checks required fields and sets an unset MaxResults to DefaultMaxResults.
// The upper bound is configuration and is applied by the search engine.
func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return fmt.Errorf("%w: query cannot be empty", ErrInvalidQuery)
	}
	if err := requireDirectory(q.Directory); err != nil {
		return err
	}
	if q.MaxResults < 0 {
		return fmt.Errorf("%w: max_results must be positive, got %d", ErrInvalidQuery, q.MaxResults)
	}
	if q.MaxResults == 0 {
		q.MaxResults = DefaultMaxResults
	}
	return nil
}

// Strategy reports which ranking strategy the query uses, given the default for nil Fuzzy.
func (q *SearchQuery) Strategy(fuzzyDefault bool) string {
	fuzzy := fuzzyDefault
	if q.Fuzzy != nil {
		fuzzy = *q.Fuzzy
	}
	if fuzzy {
		return StrategyFuzzy
	}
	return StrategyExact
}

// TagQuery selects documents carrying any of Tags.
type TagQuery struct {
	Tags      []string `json:"tags"`
	Directory string   `json:"directory"`
}

// Validate trims tags, drops blanks and requires at least one.
func (q *TagQuery) Validate() error {
	tags := q.Tags[:0:0]
	for _, t := range q.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return fmt.Errorf("%w: at least one tag is required", ErrInvalidQuery)
	}
	q.Tags = tags
	return requireDirectory(q.Directory)
}

// DateRangeQuery selects documents modified within [Start, End], both inclusive.
type DateRangeQuery struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Directory string    `json:"directory"`
}

// Validate requires both bounds and Start not after End.
func (q *DateRangeQuery) Validate() error {
	if q.Start.IsZero() || q.End.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidQuery)
	}
	if q.Start.After(q.End) {
		return fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidQuery,
			q.Start.Format(time.RFC3339), q.End.Format(time.RFC3339))
	}
	return requireDirectory(q.Directory)
}

// ParseDate parses a caller-supplied date boundary in any common layout. Values without a
// zone are read as UTC. A date-only value is midnight of that day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidQuery)
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unparseable date %q: %v", ErrInvalidQuery, s, err)
	}
	return t.UTC(), nil
}

// NewDateRangeQuery parses start and end with ParseDate and validates the result.
func NewDateRangeQuery(start, end, dir string) (*DateRangeQuery, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	q := &DateRangeQuery{Start: s, End: e, Directory: dir}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func requireDirectory(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("%w: directory is required", ErrInvalidQuery)
	}
	return nil
}
