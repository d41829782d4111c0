package fsys

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// AtomicWrite writes data to a sibling temp file and renames it over path, so
// readers never observe a partial write. Parent directories must exist.
func AtomicWrite(ctx context.Context, f FS, path string, data []byte, perm fs.FileMode) error {
	dir, base := filepath.Split(path)
	temp := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")

	if err := f.WriteFile(ctx, temp, data, perm); err != nil {
		return fmt.Errorf("fsys: failed to write temp file for %s: %w", path, err)
	}
	if err := f.Rename(ctx, temp, path); err != nil {
		_ = f.RemoveAll(ctx, temp)
		return fmt.Errorf("fsys: failed to rename temp file to %s: %w", path, err)
	}
	return nil
}

const lockRetryDelay = 50 * time.Millisecond

// LockPath returns the lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// LockedWrite holds an exclusive OS-level lock on LockPath(path) while it
// atomically writes data through f. The lock file lives on the host
// filesystem even when f does not.
func LockedWrite(ctx context.Context, f FS, path string, data []byte, perm fs.FileMode) error {
	lock := flock.New(LockPath(path))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("fsys: failed to acquire lock on %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("fsys: failed to acquire lock on %s", path)
	}
	defer lock.Unlock()

	return AtomicWrite(ctx, f, path, data, perm)
}
