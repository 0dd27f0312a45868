package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hyperjump/mdindex/internal/scanner"
)

// recorder collects onChange batches.
type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) onChange(paths []string) {
	r.mu.Lock()
	r.batches = append(r.batches, paths)
	r.mu.Unlock()
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func contains(paths []string, suffix string) bool {
	for _, p := range paths {
		if filepath.Base(p) == suffix {
			return true
		}
	}
	return false
}

func startWatcher(t *testing.T, dir string, exts []string, rec *recorder) *Watcher {
	t.Helper()
	w := New(dir, exts, rec.onChange, WithDebounce(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_DebounceAndExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, []string{".md"}, rec)

	if err := writeFile(filepath.Join(dir, "ignored.go"), "package x"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "note.md"), "# hello"); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool { return contains(rec.all(), "note.md") }) {
		t.Fatalf("expected note.md change, got %v", rec.all())
	}
	if contains(rec.all(), "ignored.go") {
		t.Errorf("ignored.go should be filtered: %v", rec.all())
	}
}

func TestWatcher_BurstCollapsesIntoOneBatch(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := New(dir, []string{".md"}, rec.onChange, WithDebounce(300*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		if err := writeFile(filepath.Join(dir, name), name); err != nil {
			t.Fatal(err)
		}
	}
	if !waitFor(t, func() bool { return rec.count() > 0 }) {
		t.Fatal("no change batch delivered")
	}
	rec.mu.Lock()
	first := rec.batches[0]
	rec.mu.Unlock()
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		if !contains(first, name) {
			t.Errorf("first batch %v missing %s", first, name)
		}
	}
}

func TestWatcher_RemoveReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.md")
	if err := writeFile(path, "bye"); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	startWatcher(t, dir, []string{".md"}, rec)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool { return contains(rec.all(), "gone.md") }) {
		t.Errorf("expected removal of gone.md to be reported, got %v", rec.all())
	}
}

func TestWatcher_HandleNewDirectory_recursiveSubfolders(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, []string{".txt", ".md"}, rec)

	nested := filepath.Join(dir, "level1", "level2")
	if err := mkdirAll(nested); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(nested, "deep.txt"), "deep content"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(nested, "ignore.xyz"), "skip"); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool { return contains(rec.all(), "deep.txt") }) {
		t.Fatalf("expected deep.txt to be reported, got %v", rec.all())
	}
	if contains(rec.all(), "ignore.xyz") {
		t.Errorf("ignore.xyz should not be reported")
	}
}

func TestWatcher_StartErrors(t *testing.T) {
	base := t.TempDir()
	w := New(filepath.Join(base, "missing"), nil, nil)
	if err := w.Start(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing root: got %v", err)
	}

	file := filepath.Join(base, "file.md")
	if err := writeFile(file, "x"); err != nil {
		t.Fatal(err)
	}
	w = New(file, nil, nil)
	if err := w.Start(context.Background()); !errors.Is(err, scanner.ErrNotDirectory) {
		t.Errorf("file root: got %v", err)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := New(t.TempDir(), nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/tmp/a", "/tmp/a", true},
		{"/tmp/a", "/tmp/a/b.txt", true},
		{"/tmp/a", "/tmp/b", false},
		{"/tmp/a", "/tmp/a/../b", false},
	}
	for _, tt := range tests {
		got := inDir(tt.dir, tt.path)
		if got != tt.want {
			t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}

func mkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
