// Package headings extracts ATX headings from markdown text and renders a table of contents.
package headings

import (
	"regexp"
	"strings"
)

// TOCTitle prefixes every generated table of contents.
const TOCTitle = "## Table of Contents"

// Heading is one markdown section heading.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

var (
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	slugStrip      = regexp.MustCompile(`[^\w\s-]`)
	slugSpace      = regexp.MustCompile(`\s+`)
)

// Extract returns the headings of body in document order. Identical heading texts produce
// identical IDs; IDs are not deduplicated.
func Extract(body string) []Heading {
	var out []Heading
	for _, line := range strings.Split(body, "\n") {
		m := headingPattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		out = append(out, Heading{Level: len(m[1]), Text: text, ID: Slug(text)})
	}
	return out
}

// Slug derives an anchor id: lowercase, drop everything but word characters, whitespace and
// hyphens, then replace whitespace runs with a single hyphen.
func Slug(text string) string {
	s := strings.ToLower(text)
	s = slugStrip.ReplaceAllString(s, "")
	return slugSpace.ReplaceAllString(s, "-")
}

// TOC renders a nested markdown link list for hs. It returns "" when hs is empty.
func TOC(hs []Heading) string {
	if len(hs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(TOCTitle)
	b.WriteString("\n\n")
	for _, h := range hs {
		b.WriteString(strings.Repeat("  ", h.Level-1))
		b.WriteString("- [")
		b.WriteString(h.Text)
		b.WriteString("](#")
		b.WriteString(h.ID)
		b.WriteString(")\n")
	}
	return b.String()
}
