package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestComputeSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.so")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	sum, err := ComputeSHA256(path)
	if err != nil {
		t.Fatalf("ComputeSHA256 failed: %v", err)
	}

	const expected = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if sum != expected {
		t.Errorf("got %q, want %q", sum, expected)
	}
}

func TestComputeSHA256MissingFile(t *testing.T) {
	if _, err := ComputeSHA256(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestComputeSHA256EmptyPath(t *testing.T) {
	if _, err := ComputeSHA256(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestComputeSHA256FromReader(t *testing.T) {
	sum, err := ComputeSHA256FromReader(strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("ComputeSHA256FromReader failed: %v", err)
	}

	const expected = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if sum != expected {
		t.Errorf("got %q, want %q", sum, expected)
	}
}
