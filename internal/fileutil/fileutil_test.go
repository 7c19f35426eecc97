package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadFileLimited(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.png")

	content := []byte("hello world")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFileLimited(path, int64(len(content)))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}

	if _, err := ReadFileLimited(path, int64(len(content))-1); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	got, err = ReadFileLimited(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(content) {
		t.Fatalf("unlimited read returned %d bytes", len(got))
	}
}

func TestReadFileLimitedErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadFileLimited(filepath.Join(dir, "missing.png"), 10); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := ReadFileLimited(dir, 10); err == nil {
		t.Fatal("expected error reading a directory")
	}
}

func TestHasExtension(t *testing.T) {
	cases := []struct {
		path string
		exts []string
		want bool
	}{
		{"a/b/Card.PNG", []string{".png"}, true},
		{"card.json", []string{".png", ".json"}, true},
		{"card.jsonl", []string{".json"}, false},
		{"png", []string{".png"}, false},
		{"card.png", nil, false},
	}
	for _, tc := range cases {
		if got := HasExtension(tc.path, tc.exts...); got != tc.want {
			t.Fatalf("HasExtension(%q, %v) = %v, want %v", tc.path, tc.exts, got, tc.want)
		}
	}
}
