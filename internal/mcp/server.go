// Package mcp exposes the search engine as MCP tools over stdio.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/hyperjump/mdindex/internal/cli"
	"github.com/hyperjump/mdindex/internal/frontmatter"
	"github.com/hyperjump/mdindex/internal/headings"
	"github.com/hyperjump/mdindex/internal/models"
	"github.com/hyperjump/mdindex/internal/render"
	"github.com/hyperjump/mdindex/internal/search"
)

// Server holds the engine behind the MCP tools.
type Server struct {
	engine     *search.Engine
	defaultDir string
	restrict   bool
	logger     *zap.Logger
	server     *mcp.Server
}

// Option configures a Server.
type Option func(*Server)

// WithRestrictToDirectory confines get_document and render_document to files under the
// default directory.
func WithRestrictToDirectory(restrict bool) Option {
	return func(s *Server) { s.restrict = restrict }
}

// NewServer creates an MCP server with every tool registered. defaultDir is used by calls
// that pass no directory.
func NewServer(engine *search.Engine, defaultDir, version string, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{engine: engine, defaultDir: defaultDir, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "mdindex",
		Version: version,
	}, nil)
	s.registerTools()
	return s
}

// Run serves MCP on stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio", zap.String("directory", s.defaultDir))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search markdown and text files in a directory. Fuzzy search (default) tolerates typos and weighs file name, body, title and tags; exact search scores literal substring hits.\n\nArgs:\n  query: Search text\n  directory: Directory to search (optional when the server has a default)\n  max_results: Number of results (default 10, capped by search.max_results_limit)\n  fuzzy: false for exact matching\n\nReturns ranked results as JSON with scores and match explanations.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_by_tags",
		Description: "Find documents whose frontmatter tags include any of the given tags (case-insensitive). Returns documents most recently modified first.",
	}, s.handleSearchByTags)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_by_date_range",
		Description: "Find documents last modified between start and end, both inclusive. Dates accept most common layouts (2024-01-15, 2024-01-15T10:00:00Z, Jan 15 2024).",
	}, s.handleSearchByDateRange)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_files",
		Description: "List the files a search would consider, recursively, as absolute paths.",
	}, s.handleListFiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "directory_stats",
		Description: "Report file count, total size and per-extension counts for a directory.",
	}, s.handleDirectoryStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Load one file: metadata, frontmatter and body.",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_headings",
		Description: "Extract markdown headings (level, text, anchor id) from text.",
	}, s.handleExtractHeadings)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_toc",
		Description: "Generate a markdown table of contents from the headings in text.",
	}, s.handleGenerateTOC)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_frontmatter",
		Description: "Split a leading --- delimited frontmatter block from text. Returns the parsed fields and the remaining body as JSON.",
	}, s.handleExtractFrontmatter)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_document",
		Description: "Render a markdown file as HTML (with table of contents) or as plain terminal text.",
	}, s.handleRenderDocument)
}

// Tool input types

type searchInput struct {
	Query      string `json:"query" jsonschema:"Search text"`
	Directory  string `json:"directory,omitempty" jsonschema:"Directory to search"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Number of results (default 10, capped by configuration)"`
	Fuzzy      *bool  `json:"fuzzy,omitempty" jsonschema:"Use fuzzy matching (default true)"`
}

type tagsInput struct {
	Tags      []string `json:"tags" jsonschema:"Tags to match, any of"`
	Directory string   `json:"directory,omitempty" jsonschema:"Directory to search"`
}

type dateRangeInput struct {
	Start     string `json:"start" jsonschema:"Earliest modification date, inclusive"`
	End       string `json:"end" jsonschema:"Latest modification date, inclusive"`
	Directory string `json:"directory,omitempty" jsonschema:"Directory to search"`
}

type directoryInput struct {
	Directory  string   `json:"directory,omitempty" jsonschema:"Directory to scan"`
	Extensions []string `json:"extensions,omitempty" jsonschema:"File extensions to include, such as .md"`
}

type pathInput struct {
	Path string `json:"path" jsonschema:"Path of the file"`
}

type textInput struct {
	Text string `json:"text" jsonschema:"Markdown text"`
}

type renderInput struct {
	Path   string `json:"path" jsonschema:"Path of the markdown file"`
	Format string `json:"format,omitempty" jsonschema:"html (default) or terminal"`
	TOC    *bool  `json:"toc,omitempty" jsonschema:"Prepend a table of contents to HTML output (default true)"`
}

// Tool handlers

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, any, error) {
	query := &models.SearchQuery{
		Query:      input.Query,
		Directory:  s.directory(input.Directory),
		MaxResults: input.MaxResults,
		Fuzzy:      input.Fuzzy,
	}
	resp, err := s.engine.Search(ctx, query)
	if err != nil {
		return s.errorResult("search", err), nil, nil
	}
	if len(resp.Results) == 0 {
		msg := "No results found."
		if len(resp.Suggestions) > 0 {
			msg += " Did you mean: " + joinQuoted(resp.Suggestions) + "?"
		}
		return textResult(msg), nil, nil
	}
	return jsonResult(resp), nil, nil
}

func (s *Server) handleSearchByTags(ctx context.Context, req *mcp.CallToolRequest, input tagsInput) (*mcp.CallToolResult, any, error) {
	list, err := s.engine.SearchByTags(ctx, &models.TagQuery{Tags: input.Tags, Directory: s.directory(input.Directory)})
	if err != nil {
		return s.errorResult("tag search", err), nil, nil
	}
	return documentListResult(list), nil, nil
}

func (s *Server) handleSearchByDateRange(ctx context.Context, req *mcp.CallToolRequest, input dateRangeInput) (*mcp.CallToolResult, any, error) {
	query, err := models.NewDateRangeQuery(input.Start, input.End, s.directory(input.Directory))
	if err != nil {
		return s.errorResult("date search", err), nil, nil
	}
	list, err := s.engine.SearchByDateRange(ctx, query)
	if err != nil {
		return s.errorResult("date search", err), nil, nil
	}
	return documentListResult(list), nil, nil
}

func (s *Server) handleListFiles(ctx context.Context, req *mcp.CallToolRequest, input directoryInput) (*mcp.CallToolResult, any, error) {
	paths, err := s.engine.ListFiles(ctx, s.directory(input.Directory), input.Extensions)
	if err != nil {
		return s.errorResult("list files", err), nil, nil
	}
	if len(paths) == 0 {
		return textResult("No files found."), nil, nil
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d files:\n", len(paths))
	for _, p := range paths {
		fmt.Fprintf(&buf, "- %s\n", p)
	}
	return textResult(buf.String()), nil, nil
}

func (s *Server) handleDirectoryStats(ctx context.Context, req *mcp.CallToolRequest, input directoryInput) (*mcp.CallToolResult, any, error) {
	stats, err := s.engine.DirectoryStats(ctx, s.directory(input.Directory), input.Extensions)
	if err != nil {
		return s.errorResult("directory stats", err), nil, nil
	}
	return jsonResult(stats), nil, nil
}

func (s *Server) handleGetDocument(ctx context.Context, req *mcp.CallToolRequest, input pathInput) (*mcp.CallToolResult, any, error) {
	doc, err := s.loadDocument(input.Path)
	if err != nil {
		return s.errorResult("get document", err), nil, nil
	}
	var buf bytes.Buffer
	if err := cli.WriteDocument(&buf, doc, cli.OutputText); err != nil {
		return s.errorResult("get document", err), nil, nil
	}
	return textResult(buf.String()), nil, nil
}

func (s *Server) handleExtractHeadings(ctx context.Context, req *mcp.CallToolRequest, input textInput) (*mcp.CallToolResult, any, error) {
	hs := headings.Extract(input.Text)
	if hs == nil {
		hs = []headings.Heading{}
	}
	return jsonResult(hs), nil, nil
}

func (s *Server) handleGenerateTOC(ctx context.Context, req *mcp.CallToolRequest, input textInput) (*mcp.CallToolResult, any, error) {
	toc := headings.TOC(headings.Extract(input.Text))
	if toc == "" {
		return textResult("No headings found."), nil, nil
	}
	return textResult(toc), nil, nil
}

func (s *Server) handleExtractFrontmatter(ctx context.Context, req *mcp.CallToolRequest, input textInput) (*mcp.CallToolResult, any, error) {
	fm, body := s.engine.ParseFrontmatter(input.Text)
	if fm == nil {
		fm = frontmatter.NewMap()
	}
	return jsonResult(struct {
		Frontmatter *frontmatter.Map `json:"frontmatter"`
		Body        string           `json:"body"`
	}{fm, body}), nil, nil
}

func (s *Server) handleRenderDocument(ctx context.Context, req *mcp.CallToolRequest, input renderInput) (*mcp.CallToolResult, any, error) {
	doc, err := s.loadDocument(input.Path)
	if err != nil {
		return s.errorResult("render document", err), nil, nil
	}
	var out string
	switch input.Format {
	case "", "html":
		withTOC := input.TOC == nil || *input.TOC
		out, err = render.HTML(doc.Body, withTOC)
	case "terminal":
		out, err = render.Terminal(doc.Body, render.DefaultWidth, true)
	default:
		return errorText(fmt.Sprintf("Error: unknown format %q (want html or terminal).", input.Format)), nil, nil
	}
	if err != nil {
		return s.errorResult("render document", err), nil, nil
	}
	return textResult(out), nil, nil
}

// Helpers

func (s *Server) loadDocument(path string) (*models.Document, error) {
	if s.restrict {
		return s.engine.LoadDocumentIn(s.defaultDir, path)
	}
	return s.engine.LoadDocument(path)
}

func (s *Server) directory(dir string) string {
	if dir == "" {
		return s.defaultDir
	}
	return dir
}

func (s *Server) errorResult(op string, err error) *mcp.CallToolResult {
	s.logger.Debug("tool call failed", zap.String("op", op), zap.Error(err))
	return errorText(fmt.Sprintf("Error: %s failed: %v", op, err))
}

func errorText(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorText(fmt.Sprintf("Error: encode result: %v", err))
	}
	return textResult(string(data))
}

func documentListResult(list *models.DocumentList) *mcp.CallToolResult {
	if len(list.Documents) == 0 {
		return textResult("No documents found.")
	}
	var buf bytes.Buffer
	_ = cli.WriteDocuments(&buf, list, cli.OutputText)
	return textResult(buf.String())
}

func joinQuoted(items []string) string {
	var buf bytes.Buffer
	for i, item := range items {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%q", item)
	}
	return buf.String()
}
