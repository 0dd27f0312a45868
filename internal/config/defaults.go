package config

// DefaultExtensions is the file set scanned when no extensions are configured.
var DefaultExtensions = []string{".md", ".markdown", ".txt", ".mdx"}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Scan.Extensions) == 0 {
		cfg.Scan.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.Scan.Concurrency <= 0 {
		cfg.Scan.Concurrency = 8
	}
	if cfg.Frontmatter.Mode == "" {
		cfg.Frontmatter.Mode = "minimal"
	}
	if cfg.Search.DefaultMaxResults == 0 {
		cfg.Search.DefaultMaxResults = 10
	}
	if cfg.Search.MaxResultsLimit == 0 {
		cfg.Search.MaxResultsLimit = 100
	}
	if cfg.Search.FuzzyThreshold == 0 {
		cfg.Search.FuzzyThreshold = 0.4
	}
	if cfg.Search.MinMatchLength == 0 {
		cfg.Search.MinMatchLength = 2
	}
	if cfg.Search.SnippetLength == 0 {
		cfg.Search.SnippetLength = 100
	}
	if cfg.Search.MaxMatches == 0 {
		cfg.Search.MaxMatches = 5
	}
	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 400
	}
}
