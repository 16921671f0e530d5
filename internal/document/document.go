// Package document resolves and validates the file to preview.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianhi/myst-preview/internal/apperr"
)

// SupportedExtensions lists the document formats the renderer accepts,
// sorted for stable error messages.
var SupportedExtensions = []string{".ipynb", ".md", ".rst", ".tex"}

// Document is a validated target file. Immutable once resolved.
type Document struct {
	// AbsPath is the absolute path to the target file.
	AbsPath string
	// Dir is the directory containing the target file.
	Dir string
	// Base is the file name including extension.
	Base string
	// Slug is the file name without extension, used as the project
	// descriptor's sole table-of-contents entry.
	Slug string
	// Ext is the lower-cased extension including the leading dot.
	Ext string
}

// Resolve validates path and returns a Document. It fails with
// apperr.ErrFileNotFound when path is missing or not a regular file, and
// with apperr.ErrUnsupportedFormat for unrecognized extensions. No
// filesystem side effects occur on either failure path.
func Resolve(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("document: resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("document: stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", apperr.ErrFileNotFound, path)
	}

	ext := strings.ToLower(filepath.Ext(abs))
	if !supported(ext) {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			apperr.ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions, ", "))
	}

	base := filepath.Base(abs)
	return &Document{
		AbsPath: abs,
		Dir:     filepath.Dir(abs),
		Base:    base,
		Slug:    strings.TrimSuffix(base, filepath.Ext(base)),
		Ext:     ext,
	}, nil
}

// IsNotebook reports whether the document is a Jupyter notebook.
func (d *Document) IsNotebook() bool {
	return d.Ext == ".ipynb"
}

func supported(ext string) bool {
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
