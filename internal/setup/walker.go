// Package setup turns command settings into rule sets and listing options
package setup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bethropolis/filekit/internal/config"
	"github.com/bethropolis/filekit/internal/copier"
	"github.com/bethropolis/filekit/internal/fsys"
	"github.com/bethropolis/filekit/internal/ignore"
	"github.com/bethropolis/filekit/internal/logger"
	"github.com/bethropolis/filekit/internal/walker"
)

// AutoGitignore as a gitignore setting loads RootDir/.gitignore when it
// exists.
const AutoGitignore = "auto"

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// WalkerConfig holds all parameters needed to configure a listing or copy
type WalkerConfig struct {
	RootDir    string
	FS         fsys.FS
	Recursive  bool
	LeavesOnly bool
	Absolute   bool
	Rebase     string

	IgnoreHidden    bool
	IgnoreGit       bool
	CustomIgnore    []string
	Filter          []string
	Extensions      []string
	Gitignore       string
	StrictGitignore bool

	Logger logger.Logger
}

// FromConfig copies the relevant settings of c for a run rooted at root.
func FromConfig(c *config.Config, root string, f fsys.FS, log logger.Logger) WalkerConfig {
	return WalkerConfig{
		RootDir:         root,
		FS:              f,
		Recursive:       c.Recursive,
		LeavesOnly:      c.LeavesOnly,
		Absolute:        c.Absolute,
		Rebase:          c.Rebase,
		IgnoreHidden:    c.IgnoreHidden,
		IgnoreGit:       c.IgnoreGit,
		CustomIgnore:    c.Ignore,
		Filter:          c.Filter,
		Extensions:      c.Extensions,
		Gitignore:       c.Gitignore,
		StrictGitignore: c.StrictGitignore,
		Logger:          log,
	}
}

// Rules is the compiled filter and ignore pair. Either may be nil.
type Rules struct {
	Filter *ignore.RuleSet
	Ignore *ignore.RuleSet
}

// CopyOptions returns the rules as copier options.
func (r Rules) CopyOptions() []copier.Option {
	return []copier.Option{copier.WithFilter(r.Filter), copier.WithIgnore(r.Ignore)}
}

// BuildRules compiles the ignore and filter settings of cfg.
func BuildRules(ctx context.Context, cfg WalkerConfig, infoLog InfoLogger) (Rules, error) {
	log := logger.OrNop(cfg.Logger)
	var ignores []*ignore.RuleSet

	if cfg.IgnoreHidden {
		infoLog("Ignoring hidden files/directories (starting with '.').")
		ignores = append(ignores, ignore.Hidden())
	}
	if cfg.IgnoreGit {
		log.Debug("Ignoring .git directories")
		ignores = append(ignores, ignore.GitDir())
	}

	custom := cleanList(cfg.CustomIgnore)
	if len(custom) > 0 {
		infoLog("Using custom ignore patterns: %v", custom)
		ignores = append(ignores, ignore.Patterns(custom...))
	}

	gitRules, err := loadGitignore(ctx, cfg, log)
	if err != nil {
		return Rules{}, err
	}
	if gitRules != nil {
		ignores = append(ignores, gitRules)
	}

	var filters []string
	filters = append(filters, cleanList(cfg.Filter)...)
	for _, ext := range cleanList(cfg.Extensions) {
		filters = append(filters, walker.SearchPattern(strings.TrimPrefix(strings.ToLower(ext), ".")))
	}

	rules := Rules{Ignore: ignore.Any(ignores...)}
	if len(filters) > 0 {
		infoLog("Filtering enabled. Only including: %s", strings.Join(filters, ", "))
		rules.Filter = ignore.Patterns(filters...)
	}
	return rules, nil
}

// ConfigureWalker builds the rules of cfg and the listing options applying
// them.
func ConfigureWalker(ctx context.Context, cfg WalkerConfig, infoLog InfoLogger) (Rules, []walker.Option, error) {
	rules, err := BuildRules(ctx, cfg, infoLog)
	if err != nil {
		return Rules{}, nil, err
	}

	options := []walker.Option{
		walker.WithLogger(cfg.Logger),
		walker.WithRecursive(cfg.Recursive),
		walker.WithLeavesOnly(cfg.LeavesOnly),
		walker.WithAbsolute(cfg.Absolute),
		walker.WithIgnore(rules.Ignore),
	}
	if cfg.Rebase != "" {
		options = append(options, walker.WithRebase(cfg.Rebase))
	}
	if rules.Filter != nil {
		options = append(options, walker.WithFilter(rules.Filter))
	}
	return rules, options, nil
}

func loadGitignore(ctx context.Context, cfg WalkerConfig, log logger.Logger) (*ignore.RuleSet, error) {
	path := cfg.Gitignore
	if path == "" {
		return nil, nil
	}
	auto := path == AutoGitignore
	if auto {
		path = filepath.Join(cfg.RootDir, ".gitignore")
	}

	opts := []ignore.Option{ignore.WithLogger(log), ignore.WithBase(cfg.RootDir)}
	var set *ignore.RuleSet
	var err error
	if cfg.StrictGitignore {
		set, err = ignore.Strict(ctx, cfg.FS, path, opts...)
	} else {
		set, err = ignore.LoadFile(ctx, cfg.FS, path, opts...)
	}
	if err != nil {
		if auto && errors.Is(err, fs.ErrNotExist) {
			log.Debug("No .gitignore found at %s", path)
			return nil, nil
		}
		return nil, fmt.Errorf("error loading gitignore rules: %w", err)
	}
	log.Debug("Loaded gitignore rules from %s (strict: %v)", path, cfg.StrictGitignore)
	return set, nil
}

// cleanList trims entries and drops empty ones. Comma-separated entries are
// split so that values from a single flag and from YAML lists mix freely.
func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
