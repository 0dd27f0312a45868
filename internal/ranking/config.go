package ranking

// RankingConfig holds the weights and limits shared by both scoring strategies.
type RankingConfig struct {
	// Fuzzy field weights; normalized to sum to 1 when combined.
	NameWeight  float64 // default: 0.4
	BodyWeight  float64 // default: 0.3
	TitleWeight float64 // default: 0.2
	TagsWeight  float64 // default: 0.1

	// Threshold is the largest normalized edit distance a field may have and still match.
	// Lower is stricter; 0 accepts only exact substrings.
	Threshold float64 // default: 0.4
	// MinMatchLength is the shortest query, in runes, that can match anything.
	MinMatchLength int // default: 2

	// Exact strategy increments.
	FilenameMatchScore    float64 // default: 0.4
	LineMatchScore        float64 // default: 0.1
	FrontmatterMatchScore float64 // default: 0.2

	SnippetLength int // default: 100
	MaxMatches    int // default: 5
}

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		NameWeight:  0.4,
		BodyWeight:  0.3,
		TitleWeight: 0.2,
		TagsWeight:  0.1,

		Threshold:      0.4,
		MinMatchLength: 2,

		FilenameMatchScore:    0.4,
		LineMatchScore:        0.1,
		FrontmatterMatchScore: 0.2,

		SnippetLength: 100,
		MaxMatches:    5,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *RankingConfig) ApplyDefaults() {
	d := DefaultRankingConfig()
	if c.NameWeight == 0 && c.BodyWeight == 0 && c.TitleWeight == 0 && c.TagsWeight == 0 {
		c.NameWeight, c.BodyWeight, c.TitleWeight, c.TagsWeight = d.NameWeight, d.BodyWeight, d.TitleWeight, d.TagsWeight
	}
	if c.Threshold <= 0 {
		c.Threshold = d.Threshold
	}
	if c.MinMatchLength <= 0 {
		c.MinMatchLength = d.MinMatchLength
	}
	if c.FilenameMatchScore == 0 {
		c.FilenameMatchScore = d.FilenameMatchScore
	}
	if c.LineMatchScore == 0 {
		c.LineMatchScore = d.LineMatchScore
	}
	if c.FrontmatterMatchScore == 0 {
		c.FrontmatterMatchScore = d.FrontmatterMatchScore
	}
	if c.SnippetLength <= 0 {
		c.SnippetLength = d.SnippetLength
	}
	if c.MaxMatches <= 0 {
		c.MaxMatches = d.MaxMatches
	}
}
