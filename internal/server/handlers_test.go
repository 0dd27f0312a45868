package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/mdindex/internal/config"
	"github.com/hyperjump/mdindex/internal/headings"
	"github.com/hyperjump/mdindex/internal/models"
	"github.com/hyperjump/mdindex/internal/search"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string, modified time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chtimes(path, modified, modified))
	return path
}

func newTestServer(t *testing.T, defaultDir string) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "typescript-notes.md",
		"---\ntitle: TypeScript Notes\ntags: typescript, mcp\n---\n# TypeScript\n\nGenerics and interfaces.\n",
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	writeFile(t, dir, "go/concurrency.md",
		"---\ntitle: Concurrency\ntags: go\n---\n# Goroutines\n\nChannels everywhere.\n",
		time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	writeFile(t, dir, "plain.txt", "just some text about typescript\n",
		time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))

	engine, err := search.NewEngine(&config.Config{})
	require.NoError(t, err)
	if defaultDir == "" {
		defaultDir = dir
	}
	return NewServer(engine, &config.ServerConfig{Host: "localhost", Port: 8080}, defaultDir, zap.NewNop()), dir
}

func do(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	r := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	return w
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, "")
	w := do(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleSearch_exact(t *testing.T) {
	srv, dir := newTestServer(t, "")
	fuzzy := false
	w := do(t, srv, http.MethodPost, "/api/v1/search", models.SearchQuery{Query: "typescript", Directory: dir, Fuzzy: &fuzzy})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SearchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, models.StrategyExact, resp.Strategy)
	require.NotEmpty(t, resp.QueryID)
	require.NotEmpty(t, resp.Results)
	require.Equal(t, "typescript-notes.md", resp.Results[0].Document.Name)
	for i := 1; i < len(resp.Results); i++ {
		require.GreaterOrEqual(t, resp.Results[i-1].Score, resp.Results[i].Score)
	}
}

func TestHandleSearch_defaultDirectory(t *testing.T) {
	srv, _ := newTestServer(t, "")
	w := do(t, srv, http.MethodPost, "/api/v1/search", map[string]any{"query": "goroutines"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SearchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, models.StrategyFuzzy, resp.Strategy)
	require.NotEmpty(t, resp.Results)
	require.Equal(t, "concurrency.md", resp.Results[0].Document.Name)
}

func TestHandleSearch_errors(t *testing.T) {
	srv, dir := newTestServer(t, "")

	w := do(t, srv, http.MethodPost, "/api/v1/search", models.SearchQuery{Query: "  ", Directory: dir})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "query cannot be empty")

	w = do(t, srv, http.MethodPost, "/api/v1/search", models.SearchQuery{Query: "x", Directory: filepath.Join(dir, "missing")})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/search", models.SearchQuery{Query: "x", Directory: filepath.Join(dir, "plain.txt")})
	require.Equal(t, http.StatusBadRequest, w.Code)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, r)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid request body")
}

func TestHandleSearchTags(t *testing.T) {
	srv, dir := newTestServer(t, "")
	w := do(t, srv, http.MethodPost, "/api/v1/search/tags", models.TagQuery{Tags: []string{"MCP", "go"}, Directory: dir})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list models.DocumentList
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list.Documents, 2)
	require.Equal(t, "concurrency.md", list.Documents[0].Name)
	require.Equal(t, "typescript-notes.md", list.Documents[1].Name)

	w = do(t, srv, http.MethodPost, "/api/v1/search/tags", models.TagQuery{Tags: []string{" "}, Directory: dir})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSearchDates(t *testing.T) {
	srv, dir := newTestServer(t, "")
	w := do(t, srv, http.MethodPost, "/api/v1/search/dates", dateRangeRequest{Start: "2024-01-01", End: "2024-01-31", Directory: dir})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list models.DocumentList
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list.Documents, 1)
	require.Equal(t, "typescript-notes.md", list.Documents[0].Name)

	w = do(t, srv, http.MethodPost, "/api/v1/search/dates", dateRangeRequest{Start: "2024-02-01", End: "2024-01-01", Directory: dir})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/search/dates", dateRangeRequest{Start: "not a date", End: "2024-01-01", Directory: dir})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListFilesAndStats(t *testing.T) {
	srv, dir := newTestServer(t, "")
	w := do(t, srv, http.MethodGet, "/api/v1/files?directory="+url.QueryEscape(dir), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var files struct {
		Files []string `json:"files"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&files))
	require.Equal(t, 3, files.Count)

	w = do(t, srv, http.MethodGet, "/api/v1/files?ext=.txt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&files))
	require.Equal(t, []string{filepath.Join(dir, "plain.txt")}, files.Files)

	w = do(t, srv, http.MethodGet, "/api/v1/stats?directory="+url.QueryEscape(dir), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.DirectoryStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	require.Equal(t, 3, stats.FileCount)
	require.Equal(t, 2, stats.ByExtension[".md"])
	require.Equal(t, 1, stats.ByExtension[".txt"])
}

func TestHandleGetDocument(t *testing.T) {
	srv, dir := newTestServer(t, "")
	path := filepath.Join(dir, "typescript-notes.md")
	w := do(t, srv, http.MethodGet, "/api/v1/document?path="+url.QueryEscape(path), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc models.Document
	require.NoError(t, json.NewDecoder(w.Body).Decode(&doc))
	require.Equal(t, path, doc.Path)
	title, ok := doc.Frontmatter.String("title")
	require.True(t, ok)
	require.Equal(t, "TypeScript Notes", title)
	require.NotContains(t, doc.Body, "---")

	w = do(t, srv, http.MethodGet, "/api/v1/document?path="+url.QueryEscape(filepath.Join(dir, "nope.md")), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodGet, "/api/v1/document", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetDocumentHTML(t *testing.T) {
	srv, dir := newTestServer(t, "")
	path := filepath.Join(dir, "typescript-notes.md")
	w := do(t, srv, http.MethodGet, "/api/v1/document/html?path="+url.QueryEscape(path), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.Contains(t, w.Body.String(), `<h1 id="typescript">TypeScript</h1>`)
	require.Contains(t, w.Body.String(), "Table of Contents")

	w = do(t, srv, http.MethodGet, "/api/v1/document/html?toc=false&path="+url.QueryEscape(path), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "Table of Contents")

	w = do(t, srv, http.MethodGet, "/api/v1/document/html?toc=maybe&path="+url.QueryEscape(path), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleHeadings(t *testing.T) {
	srv, _ := newTestServer(t, "")
	w := do(t, srv, http.MethodPost, "/api/v1/headings", textRequest{Text: "# Title\n## Sub Heading\n"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp headingsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, []headings.Heading{
		{Level: 1, Text: "Title", ID: "title"},
		{Level: 2, Text: "Sub Heading", ID: "sub-heading"},
	}, resp.Headings)
	require.Contains(t, resp.TOC, "  - [Sub Heading](#sub-heading)")

	w = do(t, srv, http.MethodPost, "/api/v1/headings", textRequest{Text: "no headings"})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"headings":[],"toc":""}`, w.Body.String())
}

func TestHandleFrontmatter(t *testing.T) {
	srv, _ := newTestServer(t, "")
	w := do(t, srv, http.MethodPost, "/api/v1/frontmatter", textRequest{Text: "---\ntitle: Hi\nviews: 3\n---\nBody\n"})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"frontmatter":{"title":"Hi","views":3},"body":"Body\n"}`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/api/v1/frontmatter", textRequest{Text: "plain"})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"frontmatter":{},"body":"plain"}`, w.Body.String())
}

func TestHandleSearch_noDirectory(t *testing.T) {
	engine, err := search.NewEngine(nil)
	require.NoError(t, err)
	srv := NewServer(engine, &config.ServerConfig{}, "", nil)
	w := do(t, srv, http.MethodPost, "/api/v1/search", map[string]string{"query": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "directory is required")
}

func TestHandleGetDocument_restricted(t *testing.T) {
	_, dir := newTestServer(t, "")
	outside := writeFile(t, t.TempDir(), "private.md", "keep out\n", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	engine, err := search.NewEngine(&config.Config{})
	require.NoError(t, err)
	srv := NewServer(engine, &config.ServerConfig{RestrictToDirectory: true}, dir, zap.NewNop())

	inside := filepath.Join(dir, "typescript-notes.md")
	w := do(t, srv, http.MethodGet, "/api/v1/document?path="+url.QueryEscape(inside), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, srv, http.MethodGet, "/api/v1/document?path="+url.QueryEscape(outside), nil)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = do(t, srv, http.MethodGet, "/api/v1/document/html?path="+url.QueryEscape(outside), nil)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	unrestricted := NewServer(engine, &config.ServerConfig{}, dir, zap.NewNop())
	w = do(t, unrestricted, http.MethodGet, "/api/v1/document?path="+url.QueryEscape(outside), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
