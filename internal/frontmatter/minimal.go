package frontmatter

import (
	"regexp"
	"strconv"
	"strings"
)

const delimiter = "---"

var (
	intPattern   = regexp.MustCompile(`^\d+$`)
	floatPattern = regexp.MustCompile(`^\d+\.\d+$`)
)

// Minimal parses a flat "key: value" subset of YAML. It does not understand nested mappings,
// multi-line scalars, or inline arrays: "tags: [a, b]" yields the literal string "[a, b]".
// Use Map.Tags to split such values, or the YAML parser for full fidelity.
type Minimal struct{}

// Parse implements Parser.
func (Minimal) Parse(text string) (*Map, string) {
	block, body, ok := splitBlock(text)
	if !ok {
		return NewMap(), text
	}
	m := NewMap()
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		m.Set(strings.TrimSpace(key), inferValue(strings.TrimSpace(value)))
	}
	return m, body
}

// splitBlock separates a leading delimited block from the rest of text. ok is false when text
// does not open with a delimiter line or the block is never closed.
func splitBlock(text string) (block, body string, ok bool) {
	first, rest, found := strings.Cut(text, "\n")
	if !found || strings.TrimRight(first, "\r") != delimiter {
		return "", text, false
	}
	var lines []string
	for {
		line, remaining, more := strings.Cut(rest, "\n")
		if strings.TrimRight(line, "\r") == delimiter {
			return strings.Join(lines, "\n"), remaining, true
		}
		if !more {
			return "", text, false
		}
		lines = append(lines, line)
		rest = remaining
	}
}

func inferValue(raw string) any {
	switch {
	case raw == "true":
		return true
	case raw == "false":
		return false
	case raw == "null":
		return nil
	case intPattern.MatchString(raw):
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	case floatPattern.MatchString(raw):
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return unquote(raw)
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
