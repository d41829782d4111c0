package fsys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// OS runs every primitive directly on the host filesystem in the calling
// goroutine. The context is only checked between entries of CopyTree.
type OS struct{}

var (
	_ FS         = OS{}
	_ TreeCopier = OS{}
)

func (OS) Stat(_ context.Context, name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OS) Lstat(_ context.Context, name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

// ReadDir reads entries in directory order; unlike os.ReadDir it does not sort.
func (OS) ReadDir(_ context.Context, name string) ([]fs.DirEntry, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}

func (OS) ReadFile(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OS) WriteFile(_ context.Context, name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (OS) MkdirAll(_ context.Context, name string, perm fs.FileMode) error {
	return os.MkdirAll(name, perm)
}

func (OS) RemoveAll(_ context.Context, name string) error {
	return os.RemoveAll(name)
}

func (OS) Rename(_ context.Context, oldname, newname string) error {
	return os.Rename(oldname, newname)
}

func (OS) Readlink(_ context.Context, name string) (string, error) {
	return os.Readlink(name)
}

func (OS) Symlink(_ context.Context, oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

// CopyFile copies src to dst, truncating dst and keeping src's permission bits.
func (OS) CopyFile(_ context.Context, src, dst string) error {
	return copyFile(src, dst)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// CopyTree copies src to dst recursively, overwriting existing files and
// recreating symlinks as links. When src is not a directory it is copied to
// dst as a single file.
func (OS) CopyTree(ctx context.Context, src, dst string, keep KeepFunc) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("fsys: failed to relativize %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)
		isDir := d.IsDir()

		if rel != "." && keep != nil && !keep(filepath.ToSlash(rel), isDir) {
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case isDir:
			return os.MkdirAll(target, 0o777)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o777); err != nil {
				return err
			}
			if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return os.Symlink(link, target)
		default:
			if err := os.MkdirAll(filepath.Dir(target), 0o777); err != nil {
				return err
			}
			return copyFile(path, target)
		}
	})
}
