// Package config provides configuration loading and structs for mdindex.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug       bool              `yaml:"debug"`
	Server      ServerConfig      `yaml:"server"`
	Scan        ScanConfig        `yaml:"scan"`
	Frontmatter FrontmatterConfig `yaml:"frontmatter"`
	Search      SearchConfig      `yaml:"search"`
	Watch       WatchConfig       `yaml:"watch"`
}

// ServerConfig holds settings for the HTTP and MCP servers.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RestrictToDirectory limits document loading and rendering to files under the
	// default directory. Off by default: both servers can read any file the process can.
	RestrictToDirectory bool `yaml:"restrict_to_directory"`
}

// ScanConfig controls directory enumeration and document loading.
// Directory has no default: when empty, callers must supply one explicitly.
type ScanConfig struct {
	Directory   string   `yaml:"directory"`
	Extensions  []string `yaml:"extensions"`
	Concurrency int      `yaml:"concurrency"`
}

// FrontmatterConfig selects the frontmatter parser.
type FrontmatterConfig struct {
	// Mode is "minimal" (flat key: value subset) or "yaml" (full YAML).
	Mode string `yaml:"mode"`
}

// SearchConfig holds ranking and result-shaping settings.
type SearchConfig struct {
	DefaultMaxResults int     `yaml:"default_max_results"`
	MaxResultsLimit   int     `yaml:"max_results_limit"`
	FuzzyDefault      *bool   `yaml:"fuzzy_default"`
	FuzzyThreshold    float64 `yaml:"fuzzy_threshold"`
	MinMatchLength    int     `yaml:"min_match_length"`
	SnippetLength     int     `yaml:"snippet_length"`
	MaxMatches        int     `yaml:"max_matches"`
	Suggestions       *bool   `yaml:"suggestions"`
}

// FuzzyOrDefault returns whether searches are fuzzy when the caller does not say; defaults to true.
func (s *SearchConfig) FuzzyOrDefault() bool {
	if s.FuzzyDefault != nil {
		return *s.FuzzyDefault
	}
	return true
}

// SuggestionsOrDefault returns whether empty fuzzy searches compute spelling suggestions.
func (s *SearchConfig) SuggestionsOrDefault() bool {
	if s.Suggestions != nil {
		return *s.Suggestions
	}
	return true
}

// WatchConfig holds live re-run settings for the watch command.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// DefaultPath is where the CLI looks for a config file when none is given.
const DefaultPath = "/usr/local/etc/mdindex/config.yaml"

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	if cfg.Scan.Directory != "" {
		cfg.Scan.Directory = expandPath(cfg.Scan.Directory, filepath.Dir(path))
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns a default config when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &Config{}
		ApplyDefaults(cfg)
		return cfg, nil
	}
	return cfg, err
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
