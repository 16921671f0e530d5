package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultConfigFile is the optional per-directory config file looked up when
// no --config flag is given.
const DefaultConfigFile = "myst-preview.yaml"

// Config represents the tool configuration. CLI flags override any value
// loaded from a config file.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Preview PreviewConfig     `yaml:"preview"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Preview.Validate()
}

// ApplicationConfig holds tool-level configuration.
type ApplicationConfig struct {
	LogLevel string `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// Level converts the configured log level string to a slog.Level.
// Unknown values fall back to info.
func (c *ApplicationConfig) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PreviewConfig holds the preview server defaults.
type PreviewConfig struct {
	// Port is the requested live-server port. When busy, the next free
	// port within a small range above it is used instead.
	Port int `yaml:"port"`
	// Theme is the MyST site template written into the project descriptor.
	Theme string `yaml:"theme"`
	// Open controls whether a browser is launched once the preview
	// server accepts connections.
	Open bool `yaml:"open"`
}

// Validate validates the preview configuration.
func (c *PreviewConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Theme, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: "info",
		},
		Preview: PreviewConfig{
			Port:  3000,
			Theme: "book-theme",
			Open:  true,
		},
	}
}
