package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/ianhi/myst-preview/internal"
	"github.com/ianhi/myst-preview/internal/document"
	"github.com/ianhi/myst-preview/internal/renderer"
	pkgconfig "github.com/ianhi/myst-preview/pkg/config"
)

var version = "dev"

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return cli.Exit("usage: myst-preview <file> [flags]", 64)
	}
	if cmd.Args().Len() > 1 {
		return cli.Exit("expected exactly one file to preview", 64)
	}

	cfg := internal.NewDefaultConfig()
	if configPath := cmd.String("config"); configPath != "" {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	} else if _, err := pkgconfig.LoadIfExists(internal.DefaultConfigFile, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	// Flags override anything loaded from a config file.
	if cmd.IsSet("port") {
		cfg.Preview.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("theme") {
		cfg.Preview.Theme = cmd.String("theme")
	}
	if cmd.Bool("no-open") {
		cfg.Preview.Open = false
	}
	if cmd.IsSet("log-level") {
		cfg.App.LogLevel = cmd.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	doc, err := document.Resolve(path)
	if err != nil {
		return err
	}

	build := cmd.Bool("build")
	if cmd.IsSet("output") && !build {
		slog.Warn("--output only applies with --build; ignoring")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithDocument(doc),
		internal.WithExecute(cmd.Bool("execute")),
		internal.WithWorkDir(workDir),
	}
	if build {
		opts = append(opts, internal.WithBuildMode(cmd.String("output")))
	}

	return internal.Run(ctx, opts...)
}

func main() {
	cmd := &cli.Command{
		Name:      "myst-preview",
		Usage:     "Preview a single Markdown, notebook, reStructuredText, or LaTeX file with MyST",
		Version:   version,
		ArgsUsage: "<file>",
		Action:    run,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port for the preview server",
				Value: 3000,
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "MyST site template",
				Value: "book-theme",
			},
			&cli.BoolFlag{
				Name:  "execute",
				Usage: "Execute notebook cells before rendering",
			},
			&cli.BoolFlag{
				Name:  "no-open",
				Usage: "Don't open the preview in a browser",
			},
			&cli.BoolFlag{
				Name:  "build",
				Usage: "Build static HTML instead of starting a live server",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory for --build (default: ./_build/html)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("MYST_PREVIEW_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level for the tool's own diagnostics (debug, info, warn, error)",
				Value: "info",
			},
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err == nil {
		return
	}

	// A renderer exit status is mirrored exactly: same code, or the same
	// terminating signal re-raised after cleanup so shell job control sees
	// the truth. The renderer's own output is the diagnostic.
	var xe *renderer.ExitError
	if errors.As(err, &xe) {
		exitWith(xe.Status)
	}

	color.New(color.FgRed).Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// exitWith terminates the process with the child's exit status. Signal
// termination is reproduced by re-raising the signal on ourselves with the
// default disposition restored.
func exitWith(status renderer.ExitStatus) {
	if status.Signal != 0 {
		signal.Reset(status.Signal)
		_ = syscall.Kill(os.Getpid(), status.Signal)
		// Unreachable unless the signal could not be delivered.
	}
	os.Exit(status.Code)
}
