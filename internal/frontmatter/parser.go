// Package frontmatter extracts the leading "---" delimited metadata block of a markdown
// document. Parsing never fails: a missing, unclosed, or malformed block yields an empty Map
// and the original text.
package frontmatter

import "fmt"

// Parser separates a frontmatter block from the document body.
type Parser interface {
	Parse(text string) (*Map, string)
}

// Parser modes accepted by ForMode.
const (
	ModeMinimal = "minimal"
	ModeYAML    = "yaml"
)

// ForMode returns the parser for a configured mode. An empty mode selects Minimal.
func ForMode(mode string) (Parser, error) {
	switch mode {
	case "", ModeMinimal:
		return Minimal{}, nil
	case ModeYAML:
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unknown frontmatter mode %q", mode)
	}
}

// Parse runs the Minimal parser.
func Parse(text string) (*Map, string) {
	return Minimal{}.Parse(text)
}
