package filekit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memClient(t *testing.T) (*Client, *MemoryFS) {
	t.Helper()
	m := NewMemoryFS()
	return New(WithFS(m)), m
}

func TestSaveCreatesParents(t *testing.T) {
	ctx := context.Background()
	c, _ := memClient(t)

	require.NoError(t, c.SaveText(ctx, "docs/guide/intro.md", "# Intro"))
	assert.True(t, c.IsDirectory(ctx, "docs/guide"))

	text, err := c.ReadText(ctx, "docs/guide/intro.md")
	require.NoError(t, err)
	assert.Equal(t, "# Intro", text)
}

func TestSaveRoundTripsBinary(t *testing.T) {
	ctx := context.Background()
	c, _ := memClient(t)
	data := []byte{0x00, 0xff, 0x10, '\n', 0x00}

	require.NoError(t, c.Save(ctx, "bin/blob", data))
	got, err := c.Read(ctx, "bin/blob")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, c.Save(ctx, "bin/blob", []byte("x")))
	got, err = c.Read(ctx, "bin/blob")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got, "save replaces")
}

func TestSaveAtomicAndLocked(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := New()

	target := filepath.Join(dir, "out", "state.json")
	require.NoError(t, c.SaveText(ctx, target, `{"v":1}`, WithAtomic()))
	require.NoError(t, c.SaveText(ctx, target, `{"v":2}`, WithLock(), WithPerm(0o600)))

	text, err := c.ReadText(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, text)

	entries, err := c.Readdir(ctx, filepath.Join(dir, "out"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name, ".tmp", "no temp files left behind")
	}
}

func TestReadMissing(t *testing.T) {
	c, _ := memClient(t)
	_, err := c.Read(context.Background(), "nope.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMkdirIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c, _ := memClient(t)

	require.NoError(t, c.Mkdir(ctx, "a/b/c"))
	require.NoError(t, c.Mkdir(ctx, "a/b/c"))
	require.NoError(t, c.MkdirMode(ctx, "a/b", 0o755))
	assert.True(t, c.IsDirectory(ctx, "a/b/c"))
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c, _ := memClient(t)

	require.NoError(t, c.SaveText(ctx, "a/b/c.txt", "c"))
	require.NoError(t, c.Remove(ctx, "a"))
	require.NoError(t, c.Remove(ctx, "a"))
	assert.False(t, c.IsDirectory(ctx, "a"))
	assert.False(t, c.IsFile(ctx, "a/b/c.txt"))
}

func TestClassification(t *testing.T) {
	ctx := context.Background()
	c, m := memClient(t)

	require.NoError(t, c.SaveText(ctx, "a/file.txt", "x"))
	require.NoError(t, m.Symlink(ctx, "file.txt", "a/link"))

	assert.True(t, c.IsDirectory(ctx, "a"))
	assert.False(t, c.IsFile(ctx, "a"))
	assert.True(t, c.IsFile(ctx, "a/file.txt"))
	assert.True(t, c.IsFile(ctx, "a/link"), "IsFile follows links")
	assert.True(t, c.IsSymbolicLink(ctx, "a/link"))
	assert.False(t, c.IsSymbolicLink(ctx, "a/file.txt"))
	assert.False(t, c.IsDirectory(ctx, "missing"))
}

func TestReaddirAndSearch(t *testing.T) {
	ctx := context.Background()
	c, _ := memClient(t)
	for _, p := range []string{"src/a.js", "src/lib/b.js", "src/lib/c.ts", "src/node_modules/x/d.js"} {
		require.NoError(t, c.SaveText(ctx, p, p))
	}

	entries, err := c.Readdir(ctx, "src")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js", "src/lib", "src/node_modules"}, Paths(entries))

	entries, err = c.Readdir(ctx, "src", Recursive(true), Ignore("node_modules/"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js", "src/lib/b.js", "src/lib/c.ts"}, Paths(entries))

	entries, err = c.Search(ctx, "src", "js", Recursive(true), Ignore("node_modules/"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js", "src/lib/b.js"}, Paths(entries))

	entries, err = c.Search(ctx, "src/a.js", "js")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCopyOnClient(t *testing.T) {
	ctx := context.Background()
	c, _ := memClient(t)
	require.NoError(t, c.SaveText(ctx, "a/1.txt", "a_1"))
	require.NoError(t, c.SaveText(ctx, "a/sub/2.txt", "a_2"))

	report, err := c.Copy(ctx, "a", "b/")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Files)

	text, err := c.ReadText(ctx, "b/a/sub/2.txt")
	require.NoError(t, err)
	assert.Equal(t, "a_2", text)

	_, err = c.Copy(ctx, "missing", "b")
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestGitignoreOnClient(t *testing.T) {
	ctx := context.Background()
	c, _ := memClient(t)
	require.NoError(t, c.SaveText(ctx, ".gitignore", "# deps\nnode_modules/\n\n*.log\n"))

	rules, err := c.ParseGitignore(ctx, ".gitignore")
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules/", "*.log"}, rules)

	matchers, err := c.CompileGitignore(ctx, ".gitignore")
	require.NoError(t, err)
	require.Len(t, matchers, 2)
	assert.True(t, matchers[1].MatchString("/debug.log"))

	set, err := c.StrictGitignore(ctx, ".gitignore")
	require.NoError(t, err)
	assert.True(t, set.Matches("/node_modules/"))
}

func TestPackageLevelFunctions(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, SaveText("a/1.txt", "a_1"))
	require.NoError(t, Mkdir("a/empty"))
	assert.True(t, IsFile("a/1.txt"))
	assert.True(t, IsDirectory("a/empty"))

	_, err := Copy("a", "b")
	require.NoError(t, err)
	text, err := ReadText("b/1.txt")
	require.NoError(t, err)
	assert.Equal(t, "a_1", text)

	entries, err := Readdir("b", Recursive(true))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b/1.txt", "b/empty"}, Paths(entries))

	require.NoError(t, Remove("b"))
	assert.False(t, IsDirectory("b"))
}
