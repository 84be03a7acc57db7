package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := ExpandPath("~/rules.yml")
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if got != filepath.Join(home, "rules.yml") {
		t.Fatalf("tilde not expanded: %q", got)
	}

	got, err = ExpandPath("plain/rules.yml")
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if got != "plain/rules.yml" {
		t.Fatalf("plain path changed: %q", got)
	}
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rules.yml")
	if err := os.WriteFile(file, []byte("rules: []"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ValidatePath(file); err != nil {
		t.Fatalf("regular file rejected: %v", err)
	}
	if err := ValidatePath(dir); err == nil {
		t.Fatal("directory accepted as a file path")
	}
	if err := ValidatePath(filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatal("missing path accepted")
	}
}

func TestEnsureWithinRoot(t *testing.T) {
	root := t.TempDir()

	got, err := EnsureWithinRoot(root, filepath.Join(root, "sub", "report.md"))
	if err != nil {
		t.Fatalf("nested path rejected: %v", err)
	}
	if !strings.HasPrefix(got, root) {
		t.Fatalf("resolved path %q outside root %q", got, root)
	}

	if _, err := EnsureWithinRoot(root, filepath.Join(root, "..", "escape.md")); err == nil {
		t.Fatal("escaping path accepted")
	}
}
