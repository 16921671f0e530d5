package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ianhi/myst-preview/internal/apperr"
	"github.com/ianhi/myst-preview/internal/renderer"
	"github.com/ianhi/myst-preview/internal/testutil"
)

func TestRun_BuildMode_EndToEnd(t *testing.T) {
	doc := testutil.SourceDoc(t, "page.md", "figure.png")
	workDir := t.TempDir()
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)

	testutil.StubRendererOnPath(t,
		"mkdir -p _build/html\necho rendered > _build/html/index.html\n")

	err := Run(context.Background(),
		WithConfig(NewDefaultConfig()),
		WithDocument(doc),
		WithBuildMode("site"),
		WithWorkDir(workDir),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(workDir, "site", "index.html")); err != nil {
		t.Errorf("build output missing: %v", err)
	}

	// The workspace must be gone after the run.
	entries, err := os.ReadDir(tmpRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp artifacts leaked: %v", entries)
	}
}

func TestRun_RendererFailure_CleansUp(t *testing.T) {
	doc := testutil.SourceDoc(t, "page.md")
	workDir := t.TempDir()
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)

	testutil.StubRendererOnPath(t, "exit 7\n")

	err := Run(context.Background(),
		WithConfig(NewDefaultConfig()),
		WithDocument(doc),
		WithBuildMode(""),
		WithWorkDir(workDir),
	)

	var xe *renderer.ExitError
	if !errors.As(err, &xe) {
		t.Fatalf("err = %v, want ExitError", err)
	}
	if xe.Status.Code != 7 {
		t.Errorf("Code = %d, want 7", xe.Status.Code)
	}

	entries, err := os.ReadDir(tmpRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp artifacts leaked after renderer failure: %v", entries)
	}
}

func TestRun_RendererUnavailable_NoWorkspace(t *testing.T) {
	doc := testutil.SourceDoc(t, "page.md")
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)

	// Empty PATH: neither myst nor npx resolvable.
	t.Setenv("PATH", t.TempDir())

	err := Run(context.Background(),
		WithConfig(NewDefaultConfig()),
		WithDocument(doc),
		WithBuildMode(""),
	)
	if !errors.Is(err, apperr.ErrRendererUnavailable) {
		t.Fatalf("err = %v, want ErrRendererUnavailable", err)
	}

	entries, err := os.ReadDir(tmpRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("workspace created despite unavailable renderer: %v", entries)
	}
}

func TestRun_MissingConfig(t *testing.T) {
	doc := testutil.SourceDoc(t, "page.md")
	if err := Run(context.Background(), WithDocument(doc)); err == nil {
		t.Fatal("Run without config should fail")
	}
}

func TestRun_MissingDocument(t *testing.T) {
	if err := Run(context.Background(), WithConfig(NewDefaultConfig())); err == nil {
		t.Fatal("Run without document should fail")
	}
}
