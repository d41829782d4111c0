// Package fsys defines the filesystem primitives the traversal and copy
// algorithms run on, with blocking (OS), suspending (Dispatcher) and
// in-memory (Memory) implementations.
package fsys

import (
	"context"
	"errors"
	"io/fs"
)

// ErrUnsupported is returned by optional operations an implementation lacks.
var ErrUnsupported = errors.New("fsys: operation not supported")

// FS is the I/O capability. Every method may block; implementations decide
// whether the calling goroutine runs the primitive itself or parks while
// another goroutine does.
type FS interface {
	// Stat follows symlinks.
	Stat(ctx context.Context, name string) (fs.FileInfo, error)
	// Lstat does not follow symlinks.
	Lstat(ctx context.Context, name string) (fs.FileInfo, error)
	// ReadDir lists a directory in the underlying order, unsorted.
	ReadDir(ctx context.Context, name string) ([]fs.DirEntry, error)
	ReadFile(ctx context.Context, name string) ([]byte, error)
	WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) error
	// MkdirAll succeeds when the directory already exists.
	MkdirAll(ctx context.Context, name string, perm fs.FileMode) error
	// RemoveAll succeeds when name does not exist.
	RemoveAll(ctx context.Context, name string) error
	Rename(ctx context.Context, oldname, newname string) error
	// CopyFile duplicates a regular file's contents and permission bits.
	CopyFile(ctx context.Context, src, dst string) error
	Readlink(ctx context.Context, name string) (string, error)
	Symlink(ctx context.Context, oldname, newname string) error
}

// KeepFunc decides whether CopyTree copies a path. rel is slash-separated and
// relative to the copy source; isDir is true for real directories.
type KeepFunc func(rel string, isDir bool) bool

// TreeCopier is the optional accelerated whole-tree copy. A rejected
// directory is skipped together with everything below it.
type TreeCopier interface {
	CopyTree(ctx context.Context, src, dst string, keep KeepFunc) error
}

// IsDir reports whether name is a directory, following symlinks. Any error
// yields false.
func IsDir(ctx context.Context, f FS, name string) bool {
	info, err := f.Stat(ctx, name)
	return err == nil && info.IsDir()
}

// IsRegular reports whether name is a regular file, following symlinks. Any
// error yields false.
func IsRegular(ctx context.Context, f FS, name string) bool {
	info, err := f.Stat(ctx, name)
	return err == nil && info.Mode().IsRegular()
}

// IsSymlink reports whether name itself is a symlink. Any error yields false.
func IsSymlink(ctx context.Context, f FS, name string) bool {
	info, err := f.Lstat(ctx, name)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}
