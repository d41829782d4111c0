package fsys

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(entries []fs.DirEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name()
	}
	return out
}

func TestMemoryListsInCreationOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.MkdirAll(ctx, "a/z", 0o755))
	require.NoError(t, m.WriteFile(ctx, "a/b.txt", []byte("b"), 0o644))
	require.NoError(t, m.MkdirAll(ctx, "a/c", 0o755))

	entries, err := m.ReadDir(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "b.txt", "c"}, names(entries))
	assert.True(t, entries[0].IsDir())
	assert.False(t, entries[1].IsDir())
	assert.Equal(t, []string{"a"}, m.Listed())
}

func TestMemorySymlinks(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.MkdirAll(ctx, "a/dir", 0o755))
	require.NoError(t, m.Symlink(ctx, "dir", "a/link"))

	assert.True(t, IsDir(ctx, m, "a/link"))
	assert.True(t, IsSymlink(ctx, m, "a/link"))
	assert.False(t, IsSymlink(ctx, m, "a/dir"))

	entries, err := m.ReadDir(ctx, "a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[1].IsDir())
	assert.NotZero(t, entries[1].Type()&fs.ModeSymlink)

	target, err := m.Readlink(ctx, "a/link")
	require.NoError(t, err)
	assert.Equal(t, "dir", target)
}

func TestMemoryRemoveAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.WriteFile(ctx, "x.txt", []byte("x"), 0o644))
	require.NoError(t, m.MkdirAll(ctx, "d/e/f", 0o755))

	require.NoError(t, m.RemoveAll(ctx, "d"))
	require.NoError(t, m.RemoveAll(ctx, "d"))

	_, err := m.Stat(ctx, "d/e")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	entries, err := m.ReadDir(ctx, ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"x.txt"}, names(entries))
}

func TestMemoryWriteNeedsParent(t *testing.T) {
	err := NewMemory().WriteFile(context.Background(), "missing/x.txt", nil, 0o644)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestAtomicWriteReplaces(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.WriteFile(ctx, "cfg.json", []byte("old"), 0o644))

	require.NoError(t, AtomicWrite(ctx, m, "cfg.json", []byte("new"), 0o644))

	data, err := m.ReadFile(ctx, "cfg.json")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := m.ReadDir(ctx, ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"cfg.json"}, names(entries), "temp file left behind")
}

func TestLockedWriteOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.txt")

	require.NoError(t, LockedWrite(ctx, OS{}, path, []byte("one"), 0o644))
	require.NoError(t, LockedWrite(ctx, OS{}, path, []byte("two"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
	assert.FileExists(t, LockPath(path))
}

func TestDispatcherForwards(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	d := NewDispatcher(m, 2)

	require.NoError(t, d.MkdirAll(ctx, "a/b", 0o755))
	require.NoError(t, d.WriteFile(ctx, "a/b/c.txt", []byte("c"), 0o644))

	data, err := d.ReadFile(ctx, "a/b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "c", string(data))

	assert.True(t, IsDir(ctx, d, "a/b"))
	assert.True(t, IsRegular(ctx, d, "a/b/c.txt"))
	assert.Same(t, m, d.Unwrap())
}

func TestDispatcherHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDispatcher(NewMemory(), 1).Stat(ctx, ".")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDispatcherWithoutTreeCopier(t *testing.T) {
	err := NewDispatcher(NewMemory(), 1).CopyTree(context.Background(), "a", "b", nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestOSReadDirUnsortedButComplete(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"c", "a", "b"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	entries, err := OS{}.ReadDir(context.Background(), dir)
	require.NoError(t, err)
	got := names(entries)
	sort.Strings(got)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestOSCopyTreeKeep(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "node_modules", "x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "node_modules", "x", "i.js"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "lib", "a.go"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "lib", "a.tmp"), []byte("t"), 0o644))
	require.NoError(t, os.Symlink("lib/a.go", filepath.Join(src, "alias.go")))

	var seen []string
	keep := func(rel string, isDir bool) bool {
		seen = append(seen, rel)
		return rel != "node_modules" && filepath.Ext(rel) != ".tmp"
	}
	require.NoError(t, OS{}.CopyTree(ctx, src, dst, keep))

	assert.FileExists(t, filepath.Join(dst, "lib", "a.go"))
	assert.NoFileExists(t, filepath.Join(dst, "lib", "a.tmp"))
	assert.NoDirExists(t, filepath.Join(dst, "node_modules"))
	assert.NotContains(t, seen, "node_modules/x", "rejected directory was descended")

	link, err := os.Readlink(filepath.Join(dst, "alias.go"))
	require.NoError(t, err)
	assert.Equal(t, "lib/a.go", link)
}
