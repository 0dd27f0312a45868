package utils

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	if got := Truncate("héllo wörld", 7); got != "héllo w..." {
		t.Errorf("rune truncation: got %q", got)
	}
	if got := Truncate("ééé", 3); got != "ééé" {
		t.Errorf("multi-byte string within limit: got %q", got)
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("  line one\n\tline   two ", 100); got != "line one line two" {
		t.Errorf("got %q", got)
	}
	if got := Snippet("alpha beta gamma", 5); got != "alpha..." {
		t.Errorf("got %q", got)
	}
}
