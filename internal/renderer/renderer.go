// Package renderer resolves and runs the external MyST executable against a
// staged workspace. The renderer is an opaque process: its output streams
// through untouched and its exit status is the result.
package renderer

import (
	"fmt"
	"os/exec"

	"github.com/ianhi/myst-preview/internal/apperr"
)

// Command is a resolved renderer invocation: the executable plus any prefix
// arguments that select the renderer when running through a launcher.
type Command struct {
	Path string
	Args []string
}

// argv returns the full argument list for a renderer subcommand.
func (c Command) argv(sub ...string) []string {
	return append(append([]string(nil), c.Args...), sub...)
}

// String renders the command for log messages.
func (c Command) String() string {
	s := c.Path
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

// Resolve locates a MyST executable: a locally installed `myst` first, then
// the npx fetch-and-run fallback. Neither being available fails with
// apperr.ErrRendererUnavailable and install guidance.
func Resolve() (Command, error) {
	return resolveWith(exec.LookPath)
}

// resolveWith runs the availability probe with a pluggable lookup so the
// resolution order is testable without touching PATH.
func resolveWith(look func(string) (string, error)) (Command, error) {
	if path, err := look("myst"); err == nil {
		return Command{Path: path}, nil
	}
	if path, err := look("npx"); err == nil {
		return Command{Path: path, Args: []string{"-y", "mystmd"}}, nil
	}
	return Command{}, fmt.Errorf(
		"%w: 'myst' not found and npx is unavailable; install with: npm install -g mystmd",
		apperr.ErrRendererUnavailable)
}
