package internal

import "github.com/ianhi/myst-preview/internal/document"

// Option is a functional option for configuring a preview run.
type Option func(*application)

type application struct {
	config    *Config
	doc       *document.Document
	execute   bool
	build     bool
	outputDir string
	workDir   string
}

// WithConfig sets the run configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithDocument sets the resolved target document.
func WithDocument(doc *document.Document) Option {
	return func(a *application) {
		a.doc = doc
	}
}

// WithExecute forwards cell execution to the renderer.
func WithExecute(execute bool) Option {
	return func(a *application) {
		a.execute = execute
	}
}

// WithBuildMode switches from live-server to static-build mode. outputDir
// may be empty for the engine-default location.
func WithBuildMode(outputDir string) Option {
	return func(a *application) {
		a.build = true
		a.outputDir = outputDir
	}
}

// WithWorkDir records the invocation's working directory, the base for
// relative build output paths.
func WithWorkDir(dir string) Option {
	return func(a *application) {
		a.workDir = dir
	}
}
