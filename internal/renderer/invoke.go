package renderer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/browser"

	"github.com/ianhi/myst-preview/internal/workspace"
)

// terminateGrace is how long a cancelled renderer gets between SIGTERM and
// SIGKILL.
const terminateGrace = 5 * time.Second

// ExitStatus describes how the renderer process ended.
type ExitStatus struct {
	// Code is the exit code, or 128+signal when Signal is set.
	Code int
	// Signal is the terminating signal, zero when the process exited.
	Signal syscall.Signal
}

// ExitError carries a renderer exit status through the error chain so the
// process boundary can mirror it exactly. Renderer output is the diagnostic;
// the error text is only for logs.
type ExitError struct {
	Status ExitStatus
}

func (e *ExitError) Error() string {
	if e.Status.Signal != 0 {
		return fmt.Sprintf("renderer terminated by signal %s", e.Status.Signal)
	}
	return fmt.Sprintf("renderer exited with code %d", e.Status.Code)
}

// ServeOptions configures live-server mode.
type ServeOptions struct {
	Port    int
	Execute bool
	Open    bool
}

// BuildOptions configures static-build mode.
type BuildOptions struct {
	Execute bool
	// OutputDir is where the built HTML lands; empty means _build/html
	// under WorkDir.
	OutputDir string
	// WorkDir is the invocation's original working directory, the base for
	// relative output paths.
	WorkDir string
}

// Serve runs the renderer's live server inside the workspace, inheriting the
// caller's standard streams, and blocks until the child exits or ctx is
// cancelled. A busy requested port is substituted by the next free one.
func Serve(ctx context.Context, logger *slog.Logger, cmd Command, ws *workspace.Workspace, docName string, opts ServeOptions) error {
	port, err := findFreePort(opts.Port)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	if port != opts.Port {
		fmt.Printf("Port %d is in use, using %d instead.\n", opts.Port, port)
	}

	args := cmd.argv("start", "--port", fmt.Sprint(port), "--keep-host")
	if opts.Execute {
		args = append(args, "--execute")
	}

	c := command(ctx, cmd.Path, args, ws.Dir)
	// Bind to all interfaces so the preview is reachable over the network.
	c.Env = append(os.Environ(), "HOST=0.0.0.0")

	fmt.Printf("Starting MyST preview of %s\n", docName)
	fmt.Println("Press Ctrl+C to stop.")
	fmt.Println()
	logger.Debug("renderer: starting live server",
		slog.String("command", cmd.String()),
		slog.Int("port", port),
		slog.String("workspace", ws.Dir))

	if err := c.Start(); err != nil {
		return fmt.Errorf("renderer: start %s: %w", cmd.Path, err)
	}

	if opts.Open {
		go openWhenReady(ctx, logger, port)
	}

	return exitStatus(c.Wait())
}

// Build runs the renderer's static-build mode, waits for it, and on success
// copies the built HTML from the workspace to the resolved output directory,
// replacing any previous output.
func Build(ctx context.Context, logger *slog.Logger, cmd Command, ws *workspace.Workspace, docName string, opts BuildOptions) error {
	args := cmd.argv("build", "--html")
	if opts.Execute {
		args = append(args, "--execute")
	}

	c := command(ctx, cmd.Path, args, ws.Dir)

	fmt.Printf("Building %s to static HTML...\n", docName)
	logger.Debug("renderer: building",
		slog.String("command", cmd.String()),
		slog.String("workspace", ws.Dir))

	if err := c.Start(); err != nil {
		return fmt.Errorf("renderer: start %s: %w", cmd.Path, err)
	}
	if err := exitStatus(c.Wait()); err != nil {
		return err
	}

	output := opts.OutputDir
	if output == "" {
		output = filepath.Join(opts.WorkDir, "_build", "html")
	} else if !filepath.IsAbs(output) {
		output = filepath.Join(opts.WorkDir, output)
	}

	if err := replaceTree(ws.BuildOutputDir(), output); err != nil {
		return fmt.Errorf("renderer: collect build output: %w", err)
	}

	fmt.Printf("Output written to %s\n", output)
	return nil
}

// command builds an exec.Cmd with inherited stdio, the workspace as working
// directory, and graceful cancellation: SIGTERM on ctx cancel, SIGKILL after
// the grace period.
func command(ctx context.Context, path string, args []string, dir string) *exec.Cmd {
	c := exec.CommandContext(ctx, path, args...)
	c.Dir = dir
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Cancel = func() error {
		return c.Process.Signal(syscall.SIGTERM)
	}
	c.WaitDelay = terminateGrace
	return c
}

// exitStatus maps a Wait error to an *ExitError mirroring the child's exit
// code or terminating signal. A nil error stays nil.
func exitStatus(err error) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return fmt.Errorf("renderer: %w", err)
	}
	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		sig := ws.Signal()
		return &ExitError{Status: ExitStatus{Code: 128 + int(sig), Signal: sig}}
	}
	return &ExitError{Status: ExitStatus{Code: ee.ExitCode()}}
}

// openWhenReady launches the browser once the server port accepts
// connections. Failures only warn; the preview keeps running.
func openWhenReady(ctx context.Context, logger *slog.Logger, port int) {
	if !waitForPort(ctx, port, 30*time.Second) {
		logger.Warn("renderer: server did not come up in time, skipping browser launch",
			slog.Int("port", port))
		return
	}
	url := fmt.Sprintf("http://localhost:%d", port)
	if err := browser.OpenURL(url); err != nil {
		logger.Warn("renderer: browser launch failed",
			slog.String("url", url),
			slog.String("error", err.Error()))
	}
}

// replaceTree replaces dst with a copy of the directory tree at src.
func replaceTree(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("missing build output %s: %w", src, err)
	}
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("remove previous output: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output parent: %w", err)
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return fmt.Errorf("copy build output: %w", err)
	}
	return nil
}
