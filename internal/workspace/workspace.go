// Package workspace stages the ephemeral project directory the renderer runs
// in: symlinked siblings of the target document plus a synthesized project
// descriptor, removed in full when the run ends.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ianhi/myst-preview/internal/apperr"
	"github.com/ianhi/myst-preview/internal/document"
)

// Workspace is a temporary project directory owned exclusively by one run.
type Workspace struct {
	// Dir is the absolute path to the staged directory.
	Dir string

	cleanup sync.Once
}

// Build stages a workspace for doc: a fresh temp directory containing a
// symlink to every non-hidden sibling of the document plus the synthesized
// project descriptor. The original source directory is never touched. On any
// failure the partial directory is removed before the error propagates, so
// no orphaned temp directories remain.
func Build(doc *document.Document, desc Descriptor) (*Workspace, error) {
	dir, err := os.MkdirTemp("", "myst-preview-")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp dir: %w", apperr.ErrWorkspaceSetup, err)
	}

	ws := &Workspace{Dir: dir}

	if err := ws.stage(doc, desc); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}
	return ws, nil
}

func (w *Workspace) stage(doc *document.Document, desc Descriptor) error {
	entries, err := os.ReadDir(doc.Dir)
	if err != nil {
		return fmt.Errorf("%w: read source dir %s: %w", apperr.ErrWorkspaceSetup, doc.Dir, err)
	}

	// Symlink everything from the source directory so relative asset
	// references (images, data files, includes) resolve inside the
	// workspace without copying content.
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if err := w.link(filepath.Join(doc.Dir, name), name); err != nil {
			return err
		}
	}

	// A dot-prefixed target is skipped by the sibling pass above; the
	// document itself must always be reachable from the workspace.
	if strings.HasPrefix(doc.Base, ".") {
		if err := w.link(doc.AbsPath, doc.Base); err != nil {
			return err
		}
	}

	return w.writeDescriptor(desc)
}

// link creates a symlink named name inside the workspace pointing at the
// absolute source path. An already existing entry of the same name is left
// in place.
func (w *Workspace) link(source, name string) error {
	target := filepath.Join(w.Dir, name)
	if err := os.Symlink(source, target); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: link %s: %w", apperr.ErrWorkspaceSetup, name, err)
	}
	return nil
}

// writeDescriptor replaces any symlinked descriptor inherited from the
// source directory with the synthesized one. The source file behind the
// removed link is not affected.
func (w *Workspace) writeDescriptor(desc Descriptor) error {
	path := filepath.Join(w.Dir, DescriptorName)

	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("%w: replace linked %s: %w", apperr.ErrWorkspaceSetup, DescriptorName, err)
		}
	}

	data, err := desc.Marshal()
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrWorkspaceSetup, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", apperr.ErrWorkspaceSetup, DescriptorName, err)
	}
	return nil
}

// BuildOutputDir returns the path inside the workspace where the renderer's
// static-build mode places its HTML output.
func (w *Workspace) BuildOutputDir() string {
	return filepath.Join(w.Dir, "_build", "html")
}

// Cleanup removes the workspace directory recursively. It is idempotent:
// repeat calls are no-ops, so the same workspace can be released from both a
// signal handler and the normal unwind path. Removal failures are logged as
// warnings and never escalate.
func (w *Workspace) Cleanup(logger *slog.Logger) {
	w.cleanup.Do(func() {
		if err := os.RemoveAll(w.Dir); err != nil {
			logger.Warn("workspace: cleanup failed",
				slog.String("dir", w.Dir),
				slog.String("error", err.Error()))
		}
	})
}
