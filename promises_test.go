package filekit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromisesMirrorClient(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryFS()
	p := NewPromises(WithFS(m), WithMaxInFlight(2))

	_, err := p.SaveText(ctx, "www/index.html", "<h1>hi</h1>").Await(ctx)
	require.NoError(t, err)
	_, err = p.SaveText(ctx, "www/js/app.js", "run()").Await(ctx)
	require.NoError(t, err)

	text, err := p.ReadText(ctx, "www/index.html").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi</h1>", text)

	entries, err := p.Readdir(ctx, "www", Recursive(true), Rebase("/")).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/index.html", "/js/app.js"}, Paths(entries))

	entries, err = p.Search(ctx, "www", "js", Recursive(true)).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"www/js/app.js"}, Paths(entries))

	report, err := p.Copy(ctx, "www/", "dist").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Files)

	isDir, err := p.IsDirectory(ctx, "dist/js").Await(ctx)
	require.NoError(t, err)
	assert.True(t, isDir)

	isFile, err := p.IsFile(ctx, "dist/index.html").Await(ctx)
	require.NoError(t, err)
	assert.True(t, isFile)

	isLink, err := p.IsSymbolicLink(ctx, "dist/index.html").Await(ctx)
	require.NoError(t, err)
	assert.False(t, isLink)

	_, err = p.Remove(ctx, "dist").Await(ctx)
	require.NoError(t, err)
	assert.False(t, p.Sync().IsDirectory(ctx, "dist"))
}

func TestPromisesSameResultsAsBlocking(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryFS()
	c := New(WithFS(m))
	for _, path := range []string{"a/1.txt", "a/b/2.txt", "a/b/c/3.txt", "a/d/4.md"} {
		require.NoError(t, c.SaveText(ctx, path, path))
	}
	p := NewPromises(WithFS(m))

	opts := []ListOption{Recursive(true), Filter([]string{"*.txt", "/d/"})}
	want, err := c.Readdir(ctx, "a", opts...)
	require.NoError(t, err)
	got, err := p.Readdir(ctx, "a", opts...).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPromisesGitignore(t *testing.T) {
	ctx := context.Background()
	p := NewPromises(WithFS(NewMemoryFS()))
	_, err := p.SaveText(ctx, ".gitignore", "dist/\n#x\n").Await(ctx)
	require.NoError(t, err)

	rules, err := p.ParseGitignore(ctx, ".gitignore").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"dist/"}, rules)

	matchers, err := p.CompileGitignore(ctx, ".gitignore").Await(ctx)
	require.NoError(t, err)
	require.Len(t, matchers, 1)
	assert.True(t, matchers[0].MatchString("/dist/"))
}

func TestPromisesMkdir(t *testing.T) {
	ctx := context.Background()
	p := NewPromises(WithFS(NewMemoryFS()))

	f := p.Mkdir(ctx, "x/y")
	<-f.Done()
	_, err := f.Await(ctx)
	require.NoError(t, err)
	_, err = p.MkdirMode(ctx, "x/y", 0o700).Await(ctx)
	require.NoError(t, err)
}

func TestFutureAwaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	f := start(context.Background(), func(context.Context) (int, error) {
		<-release
		return 7, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
