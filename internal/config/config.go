// Package config holds the filekit command's settings, loaded from a YAML
// file and overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bethropolis/filekit/internal/logger"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory when no
// explicit path is given.
const FileName = ".filekit.yaml"

// Output formats.
const (
	FormatPlain    = "plain"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config holds all application configuration settings
type Config struct {
	// Logging settings
	Verbose    bool   `yaml:"verbose"`
	Quiet      bool   `yaml:"quiet"`
	LogLevel   string `yaml:"log_level"`
	NoColor    bool   `yaml:"no_color"`
	UseColors  bool   `yaml:"-"`
	OutputFile string `yaml:"output"`

	// Listing settings
	Recursive  bool   `yaml:"recursive"`
	LeavesOnly bool   `yaml:"leaves_only"`
	Absolute   bool   `yaml:"absolute"`
	Rebase     string `yaml:"rebase"`

	// Filtering settings
	IgnoreHidden    bool     `yaml:"ignore_hidden"`
	IgnoreGit       bool     `yaml:"ignore_git"`
	Ignore          []string `yaml:"ignore"`
	Filter          []string `yaml:"filter"`
	Extensions      []string `yaml:"extensions"`
	Gitignore       string   `yaml:"gitignore"`
	StrictGitignore bool     `yaml:"strict_gitignore"`

	// Execution settings
	Async       bool          `yaml:"async"`
	MaxInFlight int64         `yaml:"max_in_flight"`
	Timeout     time.Duration `yaml:"timeout"`

	// Output format
	Format string `yaml:"format"`

	// Internal: file the settings were read from, empty if none
	path string
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		LogLevel:    "INFO",
		LeavesOnly:  true,
		IgnoreGit:   true,
		MaxInFlight: 16,
		Format:      FormatPlain,
	}
}

// Load reads path into a Default config. An empty path falls back to
// FileName in the working directory; a missing fallback file is not an
// error, a missing explicit one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string { return c.path }

// Validate checks settings that cannot be checked by their type.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case "", FormatPlain:
		c.Format = FormatPlain
	case FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("config: unknown output format %q", c.Format)
	}
	if c.MaxInFlight < 1 {
		return fmt.Errorf("config: max_in_flight must be at least 1, got %d", c.MaxInFlight)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative")
	}
	return nil
}

// Level resolves the effective log level. Verbose and Quiet win over
// LogLevel.
func (c *Config) Level() logger.LogLevel {
	switch {
	case c.Verbose:
		return logger.LevelDebug
	case c.Quiet:
		return logger.LevelWarn
	}
	return logger.ParseLevel(c.LogLevel)
}

// DetectColors decides whether colors should be used for output to f.
func (c *Config) DetectColors(f *os.File) {
	c.UseColors = !c.NoColor && c.OutputFile == "" && c.Format == FormatPlain &&
		(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
