// Package testutil provides shared test helpers for stub renderers and
// source documents.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ianhi/myst-preview/internal/document"
)

// StubRenderer writes an executable shell script to a fresh directory and
// returns its path. Tests use it as a fake renderer binary.
func StubRenderer(t *testing.T, name, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// StubRendererOnPath installs a stub `myst` script at the front of PATH so
// executable resolution finds it before any real install. The core system
// directories stay on PATH for the script's own commands.
func StubRendererOnPath(t *testing.T, script string) string {
	t.Helper()
	path := StubRenderer(t, "myst", script)
	t.Setenv("PATH", filepath.Dir(path)+":/usr/bin:/bin")
	return path
}

// SourceDoc creates a source directory holding a target document named name
// plus the given sibling files, and resolves the document.
func SourceDoc(t *testing.T, name string, siblings ...string) *document.Document {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("# "+name), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, s := range siblings {
		if err := os.WriteFile(filepath.Join(dir, s), []byte(s), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	doc, err := document.Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}
