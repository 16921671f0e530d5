// Package apperr defines the sentinel errors shared across the tool's stages.
package apperr

import "errors"

var (
	// ErrFileNotFound reports a target path that does not resolve to a
	// regular file.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat reports a target file whose extension is not
	// one of the supported document formats.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrWorkspaceSetup reports a failure while staging the temporary
	// preview workspace.
	ErrWorkspaceSetup = errors.New("workspace setup failed")

	// ErrRendererUnavailable reports that no MyST executable could be
	// resolved, neither locally installed nor via npx.
	ErrRendererUnavailable = errors.New("renderer unavailable")
)
