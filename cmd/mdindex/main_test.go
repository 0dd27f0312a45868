package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/mdindex/internal/models"
)

// setupNotes writes a small corpus and an empty config file, returning both paths.
func setupNotes(t *testing.T) (dir, configPath string) {
	t.Helper()
	tmp := t.TempDir()
	dir = filepath.Join(tmp, "notes")
	files := map[string]string{
		"typescript-notes.md": "---\ntitle: TypeScript Notes\ntags: typescript, mcp\n---\n# TypeScript\n\n## Generics\n\nType parameters.\n",
		"go/channels.md":      "---\ntags: [go]\n---\n# Channels\n\nUnbuffered channels block.\n",
		"todo.txt":            "buy milk\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	ts := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(dir, "typescript-notes.md"), ts, ts); err != nil {
		t.Fatal(err)
	}
	configPath = filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(configPath, []byte("search:\n  default_max_results: 10\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir, configPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"typescript"}, "typescript"},
		{"multiple words", []string{"typescript", "generics"}, "typescript generics"},
		{"single quoted phrase", []string{"typescript generics"}, "typescript generics"},
		{"surrounding space", []string{"  spaced  "}, "spaced"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildSearchQuery(tt.args); got != tt.expected {
				t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags([]string{"go,typescript", " mcp ", ","})
	want := []string{"go", "typescript", "mcp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitTags = %v, want %v", got, want)
	}
}

func TestSearchCommand_JSON(t *testing.T) {
	dir, cfg := setupNotes(t)
	out, err := run(t, "", "--config", cfg, "--dir", dir, "-o", "json", "search", "--exact", "typescript")
	if err != nil {
		t.Fatalf("search: %v\n%s", err, out)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if resp.Strategy != models.StrategyExact || len(resp.Results) == 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Results[0].Document.Name != "typescript-notes.md" {
		t.Errorf("top result = %s", resp.Results[0].Document.Name)
	}
}

func TestSearchCommand_requiresDirectory(t *testing.T) {
	_, cfg := setupNotes(t)
	_, err := run(t, "", "--config", cfg, "search", "anything")
	if err == nil || !strings.Contains(err.Error(), "no directory") {
		t.Errorf("expected missing directory error, got %v", err)
	}
}

func TestSearchCommand_badOutput(t *testing.T) {
	dir, cfg := setupNotes(t)
	if _, err := run(t, "", "--config", cfg, "--dir", dir, "-o", "xml", "search", "x"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestTagsCommand(t *testing.T) {
	dir, cfg := setupNotes(t)
	out, err := run(t, "", "--config", cfg, "--dir", dir, "-o", "compact", "tags", "GO,mcp")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 documents, got %q", out)
	}
	if !strings.HasSuffix(lines[0], "channels.md") || !strings.HasSuffix(lines[1], "typescript-notes.md") {
		t.Errorf("expected most recent first, got %q", out)
	}
}

func TestDatesCommand(t *testing.T) {
	dir, cfg := setupNotes(t)
	out, err := run(t, "", "--config", cfg, "--dir", dir, "-o", "compact", "dates", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "2024-01-15T00:00:00Z\t"+filepath.Join(dir, "typescript-notes.md") {
		t.Errorf("dates output = %q", out)
	}
	if _, err := run(t, "", "--config", cfg, "--dir", dir, "dates", "2024-02-01", "2024-01-01"); err == nil {
		t.Error("expected error for reversed range")
	}
}

func TestListAndStatsCommands(t *testing.T) {
	dir, cfg := setupNotes(t)
	out, err := run(t, "", "--config", cfg, "--dir", dir, "list", "--ext", ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "todo.txt") {
		t.Errorf("list = %q", out)
	}

	out, err = run(t, "", "--config", cfg, "--dir", dir, "-o", "json", "stats")
	if err != nil {
		t.Fatal(err)
	}
	var stats models.DirectoryStats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.FileCount != 3 || stats.ByExtension[".md"] != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestShowCommand(t *testing.T) {
	dir, cfg := setupNotes(t)
	path := filepath.Join(dir, "typescript-notes.md")
	out, err := run(t, "", "--config", cfg, "show", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "title: TypeScript Notes") || !strings.Contains(out, "Type parameters.") {
		t.Errorf("show output:\n%s", out)
	}

	out, err = run(t, "", "--config", cfg, "show", "--render", "html", "--toc", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<a href="#generics">Generics</a>`) {
		t.Errorf("html output:\n%s", out)
	}

	out, err = run(t, "", "--config", cfg, "show", "--render", "terminal", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Type parameters.") || strings.Contains(out, "\x1b[") {
		t.Errorf("terminal output should be plain when not a tty:\n%q", out)
	}

	if _, err := run(t, "", "--config", cfg, "show", "--render", "pdf", path); err == nil {
		t.Error("expected error for unknown render mode")
	}
	if _, err := run(t, "", "--config", cfg, "show", filepath.Join(dir, "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHeadingsCommand_stdin(t *testing.T) {
	out, err := run(t, "# Title\n## Sub Heading\n", "headings", "--toc", "-")
	if err != nil {
		t.Fatal(err)
	}
	want := "## Table of Contents\n\n- [Title](#title)\n  - [Sub Heading](#sub-heading)\n"
	if out != want {
		t.Errorf("toc = %q, want %q", out, want)
	}
}

func TestFrontmatterCommand(t *testing.T) {
	_, cfg := setupNotes(t)
	out, err := run(t, "---\ntitle: Hi\ndraft: false\n---\nbody\n", "--config", cfg, "-o", "json", "frontmatter", "-")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "{\n  \"title\": \"Hi\",\n  \"draft\": false\n}" {
		t.Errorf("frontmatter json = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "mdindex version dev\n" {
		t.Errorf("version = %q", out)
	}
}

func TestLoadConfig_explicitMissingFails(t *testing.T) {
	cfg, _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatalf("explicit missing config should fail, got %+v", cfg)
	}
}
