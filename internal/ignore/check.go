package ignore

import (
	"strings"
)

// Matches reports whether taggedPath matches the set. A predicate set defers
// to its callback; otherwise the first matching matcher wins. Nil matchers,
// from patterns that did not compile, never match. A nil set matches nothing.
func (r *RuleSet) Matches(taggedPath string) bool {
	if r == nil {
		return false
	}
	if r.predicate != nil {
		return r.predicate(taggedPath)
	}
	for _, m := range r.matchers {
		if m != nil && m.MatchString(taggedPath) {
			return true
		}
	}
	return false
}

// Hidden matches any tagged path with a segment starting with a dot.
func Hidden() *RuleSet {
	return Func(func(tagged string) bool {
		for _, part := range strings.Split(tagged, "/") {
			if strings.HasPrefix(part, ".") {
				return true
			}
		}
		return false
	})
}

// GitDir matches .git directories and anything below them. A plain file named
// .git (as in worktrees) is left alone.
func GitDir() *RuleSet {
	return Func(isPathInGitDir)
}

func isPathInGitDir(tagged string) bool {
	isDir := strings.HasSuffix(tagged, "/")
	parts := strings.Split(strings.Trim(tagged, "/"), "/")
	for i, part := range parts {
		if part == ".git" && (isDir || i < len(parts)-1) {
			return true
		}
	}
	return false
}
