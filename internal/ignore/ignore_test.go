package ignore

import (
	"context"
	"regexp"
	"testing"

	"github.com/bethropolis/filekit/internal/fsys"
	"github.com/bethropolis/filekit/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNormalizes(t *testing.T) {
	set, err := Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, set)

	set, err = Parse("")
	require.NoError(t, err)
	assert.Nil(t, set)

	compiled := Patterns("*.go")
	set, err = Parse(compiled)
	require.NoError(t, err)
	assert.Same(t, compiled, set, "compiled sets pass through")

	set, err = Parse("node_modules")
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, []string{"node_modules"}, set.Sources())

	set, err = Parse([]string{"*.go", "vendor/"})
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	set, err = Parse(regexp.MustCompile(`\.md$`))
	require.NoError(t, err)
	assert.True(t, set.Matches("/docs/a.md"))

	set, err = Parse([]pattern.Matcher{regexp.MustCompile(`^/a`)})
	require.NoError(t, err)
	assert.True(t, set.Matches("/a/b"))

	_, err = Parse([]any{"*.go", 7})
	assert.ErrorIs(t, err, ErrUnsupportedRule)

	_, err = Parse(struct{}{})
	assert.ErrorIs(t, err, ErrUnsupportedRule)
}

func TestMatchesIsOrderedOr(t *testing.T) {
	var calls []string
	first := Func(func(p string) bool { calls = append(calls, "first"); return true })
	second := Func(func(p string) bool { calls = append(calls, "second"); return true })

	assert.True(t, Any(first, nil, second).Matches("/x"))
	assert.Equal(t, []string{"first"}, calls, "short-circuits on first match")

	set := Patterns("*.go", "***", "vendor")
	assert.True(t, set.Matches("/main.go"))
	assert.True(t, set.Matches("/vendor/"))
	assert.False(t, set.Matches("/README"))
	assert.Equal(t, 3, set.Len())
}

func TestNilSetMatchesNothing(t *testing.T) {
	var set *RuleSet
	assert.False(t, set.Matches("/anything"))
	assert.Zero(t, set.Len())
	assert.Nil(t, Any(nil, nil))
	assert.Nil(t, Func(nil))
}

func TestPredicateCoercion(t *testing.T) {
	set, err := Parse(func(p string) bool { return p == "/node_modules/" })
	require.NoError(t, err)
	assert.True(t, set.Matches("/node_modules/"))
	assert.False(t, set.Matches("/src/"))
	assert.Equal(t, 1, set.Len())
}

func TestHiddenAndGitDir(t *testing.T) {
	hidden := Hidden()
	assert.True(t, hidden.Matches("/.env"))
	assert.True(t, hidden.Matches("/src/.cache/"))
	assert.False(t, hidden.Matches("/src/main.go"))
	assert.False(t, hidden.Matches("/"))

	git := GitDir()
	assert.True(t, git.Matches("/.git/"))
	assert.True(t, git.Matches("/sub/.git/config"))
	assert.False(t, git.Matches("/.git"), "a .git file is a worktree pointer")
	assert.False(t, git.Matches("/.github/"))
}

func TestLines(t *testing.T) {
	got := Lines("\n# comment\n.*\n\n!keep.txt\n:meta\n")
	assert.Equal(t, []string{".*", "!keep.txt"}, got)

	got = Lines("  dist/ \r\n\t*.log\r\n")
	assert.Equal(t, []string{"dist/", "*.log"}, got)
}

func gitignoreFS(t *testing.T, body string) *fsys.Memory {
	m := fsys.NewMemory()
	require.NoError(t, m.WriteFile(context.Background(), ".gitignore", []byte(body), 0o644))
	return m
}

func TestParseFile(t *testing.T) {
	ctx := context.Background()
	m := gitignoreFS(t, ".*\n!.gitignore\n/node_modules/\n*lock.json\n")

	rules, err := ParseFile(ctx, m, ".gitignore")
	require.NoError(t, err)
	assert.Equal(t, []string{".*", "!.gitignore", "/node_modules/", "*lock.json"}, rules)

	matchers, err := CompileFile(ctx, m, ".gitignore")
	require.NoError(t, err)
	require.Len(t, matchers, 4)
	var sources []string
	for _, mt := range matchers {
		sources = append(sources, mt.(*regexp.Regexp).String())
	}
	assert.Equal(t, []string{
		`(?i)\.[^/*]+`,
		`(?i)(/!\.gitignore/)|(/!\.gitignore$)`,
		`(?i)^/node_modules/$`,
		`(?i)[^/*]+lock\.json`,
	}, sources)

	set, err := LoadFile(ctx, m, ".gitignore")
	require.NoError(t, err)
	assert.True(t, set.Matches("/node_modules/"))
	assert.True(t, set.Matches("/package-lock.json"))
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(context.Background(), fsys.NewMemory(), ".gitignore")
	assert.Error(t, err)
}

func TestStrictHonorsNegation(t *testing.T) {
	m := gitignoreFS(t, "*.log\n!keep.log\nbuild/\n")

	set, err := Strict(context.Background(), m, ".gitignore")
	require.NoError(t, err)

	assert.True(t, set.Matches("/debug.log"))
	assert.False(t, set.Matches("/keep.log"))
	assert.True(t, set.Matches("/build/"))
	assert.False(t, set.Matches("/src/main.go"))
	assert.False(t, set.Matches("/"))
}
