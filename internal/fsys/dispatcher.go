package fsys

import (
	"context"
	"io/fs"

	"golang.org/x/sync/semaphore"
)

// Dispatcher is the suspending I/O mode. Each primitive runs on its own
// goroutine while the caller parks until it completes or ctx is done; at most
// maxInFlight primitives run at once across all callers sharing the
// Dispatcher. A caller that gives up early does not cancel the primitive
// already running, it only stops waiting for it.
type Dispatcher struct {
	inner FS
	sem   *semaphore.Weighted
}

var (
	_ FS         = (*Dispatcher)(nil)
	_ TreeCopier = (*Dispatcher)(nil)
)

// NewDispatcher wraps inner. maxInFlight below 1 means 1.
func NewDispatcher(inner FS, maxInFlight int64) *Dispatcher {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Dispatcher{inner: inner, sem: semaphore.NewWeighted(maxInFlight)}
}

// Unwrap returns the wrapped FS.
func (d *Dispatcher) Unwrap() FS { return d.inner }

type outcome[T any] struct {
	val T
	err error
}

func await[T any](ctx context.Context, d *Dispatcher, op func() (T, error)) (T, error) {
	var zero T
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}
	done := make(chan outcome[T], 1)
	go func() {
		defer d.sem.Release(1)
		v, err := op()
		done <- outcome[T]{v, err}
	}()
	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func awaitErr(ctx context.Context, d *Dispatcher, op func() error) error {
	_, err := await(ctx, d, func() (struct{}, error) { return struct{}{}, op() })
	return err
}

func (d *Dispatcher) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	return await(ctx, d, func() (fs.FileInfo, error) { return d.inner.Stat(ctx, name) })
}

func (d *Dispatcher) Lstat(ctx context.Context, name string) (fs.FileInfo, error) {
	return await(ctx, d, func() (fs.FileInfo, error) { return d.inner.Lstat(ctx, name) })
}

func (d *Dispatcher) ReadDir(ctx context.Context, name string) ([]fs.DirEntry, error) {
	return await(ctx, d, func() ([]fs.DirEntry, error) { return d.inner.ReadDir(ctx, name) })
}

func (d *Dispatcher) ReadFile(ctx context.Context, name string) ([]byte, error) {
	return await(ctx, d, func() ([]byte, error) { return d.inner.ReadFile(ctx, name) })
}

func (d *Dispatcher) WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) error {
	return awaitErr(ctx, d, func() error { return d.inner.WriteFile(ctx, name, data, perm) })
}

func (d *Dispatcher) MkdirAll(ctx context.Context, name string, perm fs.FileMode) error {
	return awaitErr(ctx, d, func() error { return d.inner.MkdirAll(ctx, name, perm) })
}

func (d *Dispatcher) RemoveAll(ctx context.Context, name string) error {
	return awaitErr(ctx, d, func() error { return d.inner.RemoveAll(ctx, name) })
}

func (d *Dispatcher) Rename(ctx context.Context, oldname, newname string) error {
	return awaitErr(ctx, d, func() error { return d.inner.Rename(ctx, oldname, newname) })
}

func (d *Dispatcher) CopyFile(ctx context.Context, src, dst string) error {
	return awaitErr(ctx, d, func() error { return d.inner.CopyFile(ctx, src, dst) })
}

func (d *Dispatcher) Readlink(ctx context.Context, name string) (string, error) {
	return await(ctx, d, func() (string, error) { return d.inner.Readlink(ctx, name) })
}

func (d *Dispatcher) Symlink(ctx context.Context, oldname, newname string) error {
	return awaitErr(ctx, d, func() error { return d.inner.Symlink(ctx, oldname, newname) })
}

// CopyTree forwards to the wrapped FS, or returns ErrUnsupported when it has
// no accelerated tree copy.
func (d *Dispatcher) CopyTree(ctx context.Context, src, dst string, keep KeepFunc) error {
	tc, ok := d.inner.(TreeCopier)
	if !ok {
		return ErrUnsupported
	}
	return awaitErr(ctx, d, func() error { return tc.CopyTree(ctx, src, dst, keep) })
}
