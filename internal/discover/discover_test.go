package discover

import (
	"os"
	"path/filepath"
	"testing"
)

var testOpts = Options{Extensions: []string{".go", ".md"}}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func paths(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestFilesAllowList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, "README.md", "# readme")
	writeFile(t, dir, "notes.txt", "skip me")
	writeFile(t, dir, "script.py", "pass")

	entries, err := Files(dir, testOpts)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	got := paths(entries)
	if len(got) != 2 || got[0] != "README.md" || got[1] != "main.go" {
		t.Fatalf("expected [README.md main.go], got %v", got)
	}
	if entries[1].Extension != ".go" {
		t.Errorf("main.go extension = %q", entries[1].Extension)
	}
}

func TestFilesSortedByPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "z.go", "package z")
	writeFile(t, dir, "a/b.go", "package a")
	writeFile(t, dir, "a/a.go", "package a")
	writeFile(t, dir, "m.go", "package m")

	entries, err := Files(dir, testOpts)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	got := paths(entries)
	want := []string{"a/a.go", "a/b.go", "m.go", "z.go"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFilesSkipDirsAndHidden(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, ".git/objects/pack.go", "package git")
	writeFile(t, dir, "node_modules/pkg/index.go", "package pkg")
	writeFile(t, dir, "vendor/dep/dep.go", "package dep")
	writeFile(t, dir, ".hidden/secret.go", "package secret")
	writeFile(t, dir, ".dotfile.go", "package dot")

	entries, err := Files(dir, testOpts)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "main.go" {
		t.Fatalf("expected [main.go], got %v", paths(entries))
	}
}

func TestFilesExtensionCaseInsensitive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "UPPER.GO", "package upper")

	entries, err := Files(dir, testOpts)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Extension != ".go" {
		t.Fatalf("expected one .go entry, got %v", entries)
	}
}

func TestFilesMaxFileSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "small.go", "package small")
	writeFile(t, dir, "big.go", string(make([]byte, 2048)))

	opts := testOpts
	opts.MaxFileSize = 1024

	entries, err := Files(dir, opts)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "small.go" {
		t.Fatalf("expected [small.go], got %v", paths(entries))
	}
}

func TestFilesGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "ignored.go\nout/\n")
	writeFile(t, dir, "kept.go", "package kept")
	writeFile(t, dir, "ignored.go", "package ignored")
	writeFile(t, dir, "out/gen.go", "package gen")

	entries, err := Files(dir, testOpts)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "kept.go" {
		t.Fatalf("expected [kept.go], got %v", paths(entries))
	}
}

func TestFilesSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.go", "package real")
	if err := os.Symlink(filepath.Join(dir, "real.go"), filepath.Join(dir, "link.go")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	entries, err := Files(dir, testOpts)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "real.go" {
		t.Fatalf("expected [real.go], got %v", paths(entries))
	}
}
