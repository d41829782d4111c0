// Package app wires configuration, rules and output into the filekit command.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bethropolis/filekit"
	"github.com/bethropolis/filekit/internal/config"
	"github.com/bethropolis/filekit/internal/fsys"
	"github.com/bethropolis/filekit/internal/logger"
	"github.com/bethropolis/filekit/internal/printer"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// App encapsulates the main application functionality
type App struct {
	cfg      *config.Config
	log      *logger.Console
	Output   io.Writer
	fs       fsys.FS
	client   *filekit.Client
	promises *filekit.Promises

	flags      *config.Config
	configPath string
	jsonOut    bool
	markdown   bool

	ctx     context.Context
	cancel  context.CancelFunc
	outFile *os.File
}

// New creates an App running on f. A nil f uses the host filesystem.
func New(f fsys.FS) *App {
	if f == nil {
		f = fsys.OS{}
	}
	return &App{fs: f, flags: config.Default()}
}

// NewRootCommand creates and returns the root cobra command for filekit
func NewRootCommand() *cobra.Command {
	return New(nil).Command()
}

// Command builds the command tree bound to a.
func (a *App) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filekit",
		Short: "Filesystem convenience tool",
		Long: `filekit lists, searches, copies and removes files with
gitignore-style filter and ignore rules.

Rules are matched against paths relative to the listed directory, starting
with "/" and ending with "/" for directories. Settings are read from
.filekit.yaml in the working directory (or --config) and overridden by flags.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.init(cmd) },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	a.bindFlags(cmd.PersistentFlags())

	cmd.AddCommand(a.newListCommand())
	cmd.AddCommand(a.newSearchCommand())
	cmd.AddCommand(a.newCopyCommand())
	cmd.AddCommand(a.newRemoveCommand())
	cmd.AddCommand(a.newMkdirCommand())
	cmd.AddCommand(a.newCatCommand())
	cmd.AddCommand(a.newGitignoreCommand())
	cmd.AddCommand(a.newStatCommand())

	return cmd
}

func (a *App) bindFlags(fs *pflag.FlagSet) {
	f := a.flags
	fs.StringVar(&a.configPath, "config", "", "Configuration file path (default ./"+config.FileName+")")

	fs.BoolVarP(&f.Verbose, "verbose", "v", f.Verbose, "Enable verbose logging")
	fs.BoolVarP(&f.Quiet, "quiet", "q", f.Quiet, "Suppress INFO messages (only show WARN, ERROR)")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "Set the logging level (DEBUG, INFO, WARN, ERROR)")
	fs.BoolVar(&f.NoColor, "no-color", f.NoColor, "Disable color output")
	fs.StringVarP(&f.OutputFile, "output", "o", f.OutputFile, "Output to file instead of stdout")

	fs.BoolVarP(&f.Recursive, "recursive", "r", f.Recursive, "Descend into subdirectories")
	fs.BoolVar(&f.LeavesOnly, "leaves-only", f.LeavesOnly, "Report only leaves when listing recursively")
	fs.BoolVar(&f.Absolute, "absolute", f.Absolute, "Report absolute paths")
	fs.StringVar(&f.Rebase, "rebase", f.Rebase, "Report paths under this prefix instead of the listed directory")

	fs.BoolVar(&f.IgnoreHidden, "hidden", f.IgnoreHidden, "Ignore hidden files/directories (starting with '.')")
	fs.BoolVar(&f.IgnoreGit, "git", f.IgnoreGit, "Ignore .git directories")
	fs.StringSliceVar(&f.Ignore, "ignore", f.Ignore, "Ignore patterns (gitignore syntax)")
	fs.StringSliceVar(&f.Filter, "filter", f.Filter, "Filter patterns; only matching entries are reported")
	fs.StringSliceVar(&f.Extensions, "ext", f.Extensions, "Only include files with these extensions (e.g. 'go,md')")
	fs.StringVar(&f.Gitignore, "gitignore", f.Gitignore, "Load ignore rules from a .gitignore file ('auto' for <dir>/.gitignore)")
	fs.BoolVar(&f.StrictGitignore, "strict-gitignore", f.StrictGitignore, "Apply full gitignore semantics, negation included")

	fs.BoolVar(&f.Async, "async", f.Async, "Run filesystem primitives on a bounded goroutine pool")
	fs.Int64Var(&f.MaxInFlight, "max-in-flight", f.MaxInFlight, "Max concurrent filesystem primitives with --async")
	fs.DurationVar(&f.Timeout, "timeout", f.Timeout, "Maximum execution time (e.g., '30s', '5m')")

	fs.StringVar(&f.Format, "format", f.Format, "Output format (plain, json, markdown)")
	fs.BoolVar(&a.jsonOut, "json", false, "Output results in JSON format")
	fs.BoolVar(&a.markdown, "markdown", false, "Output results in Markdown format")
}

// applyFlags copies explicitly set flags over the loaded config.
func (a *App) applyFlags(fs *pflag.FlagSet, cfg *config.Config) {
	f := a.flags
	overrides := map[string]func(){
		"verbose":          func() { cfg.Verbose = f.Verbose },
		"quiet":            func() { cfg.Quiet = f.Quiet },
		"log-level":        func() { cfg.LogLevel = f.LogLevel },
		"no-color":         func() { cfg.NoColor = f.NoColor },
		"output":           func() { cfg.OutputFile = f.OutputFile },
		"recursive":        func() { cfg.Recursive = f.Recursive },
		"leaves-only":      func() { cfg.LeavesOnly = f.LeavesOnly },
		"absolute":         func() { cfg.Absolute = f.Absolute },
		"rebase":           func() { cfg.Rebase = f.Rebase },
		"hidden":           func() { cfg.IgnoreHidden = f.IgnoreHidden },
		"git":              func() { cfg.IgnoreGit = f.IgnoreGit },
		"ignore":           func() { cfg.Ignore = f.Ignore },
		"filter":           func() { cfg.Filter = f.Filter },
		"ext":              func() { cfg.Extensions = f.Extensions },
		"gitignore":        func() { cfg.Gitignore = f.Gitignore },
		"strict-gitignore": func() { cfg.StrictGitignore = f.StrictGitignore },
		"async":            func() { cfg.Async = f.Async },
		"max-in-flight":    func() { cfg.MaxInFlight = f.MaxInFlight },
		"timeout":          func() { cfg.Timeout = f.Timeout },
		"format":           func() { cfg.Format = f.Format },
	}
	for name, apply := range overrides {
		if fs.Changed(name) {
			apply()
		}
	}
	if a.jsonOut {
		cfg.Format = config.FormatJSON
	} else if a.markdown {
		cfg.Format = config.FormatMarkdown
	}
}

func (a *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.applyFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		cfg.DetectColors(f)
	}
	a.cfg = cfg

	// Configure color globally
	color.NoColor = !cfg.UseColors

	a.log = logger.New(cmd.ErrOrStderr(), cfg.Level(), cfg.UseColors)
	if cfg.Path() != "" {
		a.log.Debug("Loaded settings from %s", cfg.Path())
	}

	a.Output = cmd.OutOrStdout()
	if cfg.OutputFile != "" {
		file, err := os.Create(cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		a.outFile = file
		a.Output = file
	}

	opts := []filekit.Option{filekit.WithFS(a.fs), filekit.WithLogger(a.log)}
	a.client = filekit.New(opts...)
	a.promises = nil
	if cfg.Async {
		a.log.Debug("Async mode with %d primitives in flight", cfg.MaxInFlight)
		a.promises = filekit.NewPromises(append(opts, filekit.WithMaxInFlight(cfg.MaxInFlight))...)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		a.ctx, a.cancel = context.WithTimeout(ctx, cfg.Timeout)
	} else {
		a.ctx, a.cancel = context.WithCancel(ctx)
	}
	return nil
}

func (a *App) close() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.outFile != nil {
		err := a.outFile.Close()
		a.outFile = nil
		return err
	}
	return nil
}

// infoLog logs status updates suppressed by the quiet flag
func (a *App) infoLog(format string, args ...interface{}) {
	if !a.cfg.Quiet {
		a.log.Info(format, args...)
	}
}

func (a *App) printer() *printer.Printer {
	p := printer.New().WithOutput(a.Output).WithColors(a.cfg.UseColors)
	switch a.cfg.Format {
	case config.FormatJSON:
		p.WithJSON(true).WithColors(false)
	case config.FormatMarkdown:
		p.WithMarkdown(true).WithColors(false)
	}
	return p
}
