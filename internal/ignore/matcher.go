package ignore

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bethropolis/filekit/internal/fsys"
	gitignore "github.com/denormal/go-gitignore"
)

// Strict loads a .gitignore file with full gitignore semantics, including
// negation and directory-only rules, and exposes it as a predicate RuleSet.
// Use it where the simplified Lines/Patterns dialect is not enough.
func Strict(ctx context.Context, fs fsys.FS, path string, opts ...Option) (*RuleSet, error) {
	cfg := newLoadConfig(opts)
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to read %s: %w", path, err)
	}

	base := cfg.base
	if base == "" {
		base = filepath.Dir(path)
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to get absolute path for base '%s': %w", base, err)
	}

	cfg.logger.Debug("ignore.Strict: Loading %s relative to %s", path, absBase)
	repo := gitignore.New(bytes.NewReader(data), absBase, func(e gitignore.Error) bool {
		cfg.logger.Warn("ignore.Strict: Skipping invalid rule in %s: %v", path, e)
		return true
	})
	return fromGitIgnore(repo, cfg), nil
}

func fromGitIgnore(repo gitignore.GitIgnore, cfg loadConfig) *RuleSet {
	return Func(func(tagged string) (ignored bool) {
		isDir := strings.HasSuffix(tagged, "/")
		rel := strings.Trim(tagged, "/")
		if rel == "" {
			return false // Never ignore the root itself
		}

		defer func() {
			if r := recover(); r != nil {
				cfg.logger.Error("PANIC recovered in gitignore library for path %q: %v", tagged, r)
				ignored = false
			}
		}()

		match := repo.Relative(rel, isDir)
		if match == nil {
			return false
		}
		return match.Ignore()
	})
}
