package filekit

import (
	"context"
	"io/fs"

	"github.com/bethropolis/filekit/internal/fsys"
)

// Future is the pending result of a Promises operation.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func start[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn(ctx)
	}()
	return f
}

func startErr(ctx context.Context, fn func(context.Context) error) *Future[struct{}] {
	return start(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await parks until the operation finishes or ctx is done. Cancelling ctx
// only stops the wait; the operation stops with the context it was started
// with.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Promises is the suspending form of Client. Every method returns at once;
// filesystem primitives run on their own goroutines, bounded by
// WithMaxInFlight, while the caller parks in Await.
type Promises struct {
	client *Client
}

// NewPromises creates a Promises on the configured FS wrapped in a
// dispatcher.
func NewPromises(opts ...Option) *Promises {
	cfg := newConfig(opts)
	return &Promises{client: &Client{
		fs:  fsys.NewDispatcher(cfg.fs, cfg.maxInFlight),
		log: cfg.logger,
	}}
}

// Sync returns the blocking Client sharing this Promises' dispatcher.
func (p *Promises) Sync() *Client { return p.client }

func (p *Promises) Save(ctx context.Context, path string, data []byte, opts ...SaveOption) *Future[struct{}] {
	return startErr(ctx, func(ctx context.Context) error {
		return p.client.Save(ctx, path, data, opts...)
	})
}

func (p *Promises) SaveText(ctx context.Context, path, text string, opts ...SaveOption) *Future[struct{}] {
	return p.Save(ctx, path, []byte(text), opts...)
}

func (p *Promises) Read(ctx context.Context, path string) *Future[[]byte] {
	return start(ctx, func(ctx context.Context) ([]byte, error) {
		return p.client.Read(ctx, path)
	})
}

func (p *Promises) ReadText(ctx context.Context, path string) *Future[string] {
	return start(ctx, func(ctx context.Context) (string, error) {
		return p.client.ReadText(ctx, path)
	})
}

func (p *Promises) Mkdir(ctx context.Context, path string) *Future[struct{}] {
	return p.MkdirMode(ctx, path, DefaultDirMode)
}

func (p *Promises) MkdirMode(ctx context.Context, path string, mode fs.FileMode) *Future[struct{}] {
	return startErr(ctx, func(ctx context.Context) error {
		return p.client.MkdirMode(ctx, path, mode)
	})
}

func (p *Promises) Remove(ctx context.Context, path string) *Future[struct{}] {
	return startErr(ctx, func(ctx context.Context) error {
		return p.client.Remove(ctx, path)
	})
}

func (p *Promises) Copy(ctx context.Context, source, dest string, opts ...CopyOption) *Future[Report] {
	return start(ctx, func(ctx context.Context) (Report, error) {
		return p.client.Copy(ctx, source, dest, opts...)
	})
}

func (p *Promises) Readdir(ctx context.Context, path string, opts ...ListOption) *Future[[]Entry] {
	return start(ctx, func(ctx context.Context) ([]Entry, error) {
		return p.client.Readdir(ctx, path, opts...)
	})
}

func (p *Promises) Search(ctx context.Context, dir, match string, opts ...ListOption) *Future[[]Entry] {
	return start(ctx, func(ctx context.Context) ([]Entry, error) {
		return p.client.Search(ctx, dir, match, opts...)
	})
}

func (p *Promises) IsDirectory(ctx context.Context, path string) *Future[bool] {
	return start(ctx, func(ctx context.Context) (bool, error) {
		return p.client.IsDirectory(ctx, path), nil
	})
}

func (p *Promises) IsFile(ctx context.Context, path string) *Future[bool] {
	return start(ctx, func(ctx context.Context) (bool, error) {
		return p.client.IsFile(ctx, path), nil
	})
}

func (p *Promises) IsSymbolicLink(ctx context.Context, path string) *Future[bool] {
	return start(ctx, func(ctx context.Context) (bool, error) {
		return p.client.IsSymbolicLink(ctx, path), nil
	})
}

func (p *Promises) ParseGitignore(ctx context.Context, path string) *Future[[]string] {
	return start(ctx, func(ctx context.Context) ([]string, error) {
		return p.client.ParseGitignore(ctx, path)
	})
}

func (p *Promises) CompileGitignore(ctx context.Context, path string) *Future[[]Matcher] {
	return start(ctx, func(ctx context.Context) ([]Matcher, error) {
		return p.client.CompileGitignore(ctx, path)
	})
}
