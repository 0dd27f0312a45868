// Package render turns markdown documents into HTML or styled terminal text.
package render

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/hyperjump/mdindex/internal/headings"
)

// DefaultWidth is the terminal word-wrap width used when none is given.
const DefaultWidth = 100

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// slugIDs makes goldmark heading ids agree with headings.Extract so TOC links resolve.
type slugIDs struct{}

func (slugIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	if s := headings.Slug(string(value)); s != "" {
		return []byte(s)
	}
	return []byte("heading")
}

func (slugIDs) Put([]byte) {}

// HTML renders body as HTML. When withTOC is set the table of contents is rendered first.
// Raw HTML in body is omitted.
func HTML(body string, withTOC bool) (string, error) {
	src := body
	if withTOC {
		if toc := headings.TOC(headings.Extract(body)); toc != "" {
			src = toc + "\n" + body
		}
	}
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(slugIDs{}))
	if err := markdown.Convert([]byte(src), &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// Terminal renders body for display in a terminal wrapped at width columns.
// Plain output carries no ANSI escapes.
func Terminal(body string, width int, plain bool) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	style, profile := "dracula", termenv.ANSI256
	if plain {
		style, profile = "notty", termenv.Ascii
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(profile),
	)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(body)
	if err != nil {
		return "", fmt.Errorf("render terminal: %w", err)
	}
	return out, nil
}
