// Package internal provides the preview run initialization and lifecycle.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ianhi/myst-preview/internal/renderer"
	"github.com/ianhi/myst-preview/internal/workspace"
)

// Run stages the workspace, resolves the renderer, and runs one preview.
// The workspace is removed on every exit path: normal return, renderer
// failure, and interrupt/termination signals. A renderer exit status comes
// back as *renderer.ExitError for the process boundary to mirror.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.doc == nil {
		return fmt.Errorf("document is required")
	}
	if app.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		app.workDir = wd
	}

	cfg := app.config
	doc := app.doc

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.Level(),
	}))
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		slog.String("document", doc.AbsPath),
		slog.String("theme", cfg.Preview.Theme),
		slog.Int("port", cfg.Preview.Port),
		slog.Bool("build", app.build))

	// Resolve the renderer before touching the filesystem: an unavailable
	// renderer must not leave a workspace behind.
	cmd, err := renderer.Resolve()
	if err != nil {
		return err
	}

	ws, err := workspace.Build(doc, workspace.NewDescriptor(cfg.Preview.Theme, doc.Slug))
	if err != nil {
		return err
	}
	defer ws.Cleanup(logger)

	logger.Debug("workspace staged", slog.String("dir", ws.Dir))

	// Cell execution is only meaningful for notebooks.
	execute := app.execute && doc.IsNotebook()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(runCtx)
	var renderErr error

	g.Go(func() error {
		// Stop the watcher and signal handler once the renderer ends,
		// whatever the reason.
		defer cancel()
		if app.build {
			renderErr = renderer.Build(gCtx, logger, cmd, ws, doc.Base, renderer.BuildOptions{
				Execute:   execute,
				OutputDir: app.outputDir,
				WorkDir:   app.workDir,
			})
		} else {
			renderErr = renderer.Serve(gCtx, logger, cmd, ws, doc.Base, renderer.ServeOptions{
				Port:    cfg.Preview.Port,
				Execute: execute,
				Open:    cfg.Preview.Open,
			})
		}
		return nil
	})

	if !app.build {
		g.Go(func() error {
			if err := ws.WatchSiblings(gCtx, doc.Dir, logger); err != nil {
				logger.Warn("sibling watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Debug("received shutdown signal", slog.String("signal", sig.String()))
			// Cancelling runCtx asks the invoker to terminate the
			// renderer; forwarding is explicit because the child may
			// sit outside the terminal's process group (npx).
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	_ = g.Wait()

	return renderErr
}
