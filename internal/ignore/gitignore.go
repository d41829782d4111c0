package ignore

import (
	"context"
	"fmt"
	"strings"

	"github.com/bethropolis/filekit/internal/fsys"
	"github.com/bethropolis/filekit/internal/pattern"
)

// Lines splits gitignore text into trimmed rules, dropping blank lines and
// lines starting with '#' or ':'. Negations are kept verbatim.
func Lines(data string) []string {
	var rules []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' || line[0] == ':' {
			continue
		}
		rules = append(rules, line)
	}
	return rules
}

// ParseFile reads a gitignore-formatted file and returns its raw rules.
func ParseFile(ctx context.Context, fs fsys.FS, path string, opts ...Option) ([]string, error) {
	cfg := newLoadConfig(opts)
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to read %s: %w", path, err)
	}
	rules := Lines(string(data))
	cfg.logger.Debug("ignore.ParseFile: %d rules loaded from %s", len(rules), path)
	return rules, nil
}

// CompileFile reads a gitignore-formatted file and compiles each rule. Rules
// that fit no supported syntax are kept as nil matchers.
func CompileFile(ctx context.Context, fs fsys.FS, path string, opts ...Option) ([]pattern.Matcher, error) {
	rules, err := ParseFile(ctx, fs, path, opts...)
	if err != nil {
		return nil, err
	}
	return pattern.CompileAll(rules), nil
}

// LoadFile reads a gitignore-formatted file into a RuleSet.
func LoadFile(ctx context.Context, fs fsys.FS, path string, opts ...Option) (*RuleSet, error) {
	rules, err := ParseFile(ctx, fs, path, opts...)
	if err != nil {
		return nil, err
	}
	return Patterns(rules...), nil
}
