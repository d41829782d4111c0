// Package copier copies files and directory trees using the walker for
// enumeration and fsys primitives for materialization.
package copier

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/filekit/internal/fsys"
	"github.com/bethropolis/filekit/internal/ignore"
	"github.com/bethropolis/filekit/internal/logger"
	"github.com/bethropolis/filekit/internal/walker"
)

var (
	// ErrNoSource is returned when the copy source does not exist.
	ErrNoSource = errors.New("copier: source does not exist")
	// ErrSamePath is returned when source and dest name the same object.
	ErrSamePath = errors.New("copier: source and destination are the same")
)

// Report counts what a copy materialized. Accelerated tree copies do not
// count individual objects and set Accelerated instead.
type Report struct {
	Source      string
	Dest        string
	Files       int
	Dirs        int
	Links       int
	Accelerated bool
}

// Options configures Copy.
type Options struct {
	Filter any
	Ignore any
	Logger logger.Logger
	// NoAccelerate forces per-entry replication even when the FS offers an
	// accelerated tree copy.
	NoAccelerate bool
}

// Option is a functional option for configuring Options
type Option func(*Options)

// WithFilter restricts the copy to entries matching rule.
func WithFilter(rule any) Option { return func(o *Options) { o.Filter = rule } }

// WithIgnore skips entries matching rule, pruning ignored directories.
func WithIgnore(rule any) Option { return func(o *Options) { o.Ignore = rule } }

// WithLogger sets the logger for copy progress. A nil logger is ignored.
func WithLogger(l logger.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithoutAcceleration disables the accelerated tree copy.
func WithoutAcceleration() Option { return func(o *Options) { o.NoAccelerate = true } }

// Destination derives the effective destination. A dest ending in a path
// separator names a directory to copy into, keeping the source's base name,
// unless the source itself ends in a separator (copy its contents).
func Destination(source, dest string) string {
	if hasTrailingSep(dest) && !hasTrailingSep(source) {
		return filepath.Join(dest, filepath.Base(source))
	}
	return dest
}

func hasTrailingSep(p string) bool {
	return strings.HasSuffix(p, string(os.PathSeparator)) || strings.HasSuffix(p, "/")
}

// Inside reports whether dest is source itself or lies below it.
func Inside(source, dest string) bool {
	rel, err := relative(source, dest)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)))
}

// relative resolves both paths before relating them, so relative and
// absolute spellings of the same location compare equal.
func relative(base, target string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	return filepath.Rel(absBase, absTarget)
}

// samePath reports whether dest resolves to source, either as the same
// cleaned absolute path or as the same file on disk.
func samePath(ctx context.Context, f fsys.FS, source string, srcInfo os.FileInfo, dest string) bool {
	if rel, err := relative(source, dest); err == nil && rel == "." {
		return true
	}
	destInfo, err := f.Stat(ctx, dest)
	return err == nil && os.SameFile(srcInfo, destInfo)
}

// Copy copies source to dest. Copying a path onto itself fails with
// ErrSamePath before anything is written.
//
// A directory source is copied recursively. Ignore and filter rules apply to
// tagged paths relative to source. When dest lies inside source the tree is
// enumerated completely before anything is written and dest itself is never
// enumerated, so the copy cannot recurse into its own output. A failed copy
// may leave a partially populated destination.
func Copy(ctx context.Context, f fsys.FS, source, dest string, opts ...Option) (Report, error) {
	options := Options{Logger: logger.Nop}
	for _, opt := range opts {
		opt(&options)
	}
	log := options.Logger

	filter, err := ignore.Parse(options.Filter)
	if err != nil {
		return Report{}, fmt.Errorf("copier: invalid filter: %w", err)
	}
	ign, err := ignore.Parse(options.Ignore)
	if err != nil {
		return Report{}, fmt.Errorf("copier: invalid ignore: %w", err)
	}

	srcInfo, err := f.Stat(ctx, source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Report{}, fmt.Errorf("%w: %s", ErrNoSource, source)
		}
		return Report{}, fmt.Errorf("copier: failed to stat %s: %w", source, err)
	}

	dest = Destination(source, dest)
	if !srcInfo.IsDir() && fsys.IsDir(ctx, f, dest) {
		dest = filepath.Join(dest, filepath.Base(source))
	}
	report := Report{Source: source, Dest: dest}
	if samePath(ctx, f, source, srcInfo, dest) {
		return report, fmt.Errorf("%w: %s", ErrSamePath, source)
	}

	if !srcInfo.IsDir() {
		log.Debug("copier: Copying file %s -> %s", source, dest)
		if err := f.MkdirAll(ctx, filepath.Dir(dest), 0o777); err != nil {
			return report, fmt.Errorf("copier: failed to create %s: %w", filepath.Dir(dest), err)
		}
		if err := f.CopyFile(ctx, source, dest); err != nil {
			return report, fmt.Errorf("copier: failed to copy %s: %w", source, err)
		}
		report.Files = 1
		return report, nil
	}

	inside := Inside(source, dest)
	if tc, ok := f.(fsys.TreeCopier); ok && !inside && !options.NoAccelerate {
		log.Debug("copier: Accelerated tree copy %s -> %s", source, dest)
		err := tc.CopyTree(ctx, source, dest, keepFunc(filter, ign))
		if err == nil {
			report.Accelerated = true
			return report, nil
		}
		if !errors.Is(err, fsys.ErrUnsupported) {
			return report, fmt.Errorf("copier: failed to copy %s: %w", source, err)
		}
		log.Debug("copier: Accelerated copy unavailable, replicating entries")
	}

	if inside {
		ign = ignore.Any(ign, excludeSubtree(source, dest))
	}
	return replicate(ctx, f, source, dest, filter, ign, report, log)
}

// replicate enumerates source leaves and materializes each under dest.
func replicate(ctx context.Context, f fsys.FS, source, dest string, filter, ign *ignore.RuleSet,
	report Report, log logger.Logger) (Report, error) {

	walkOpts := []walker.Option{
		walker.WithRecursive(true),
		walker.WithLeavesOnly(true),
		walker.WithoutRebase(),
		walker.WithLogger(log),
		walker.WithIgnore(ign),
	}
	if filter != nil {
		walkOpts = append(walkOpts, walker.WithFilter(filter))
	}

	entries, err := walker.List(ctx, f, source, walkOpts...)
	if err != nil {
		return report, fmt.Errorf("copier: failed to enumerate %s: %w", source, err)
	}
	log.Debug("copier: Replicating %d entries from %s -> %s", len(entries), source, dest)

	if err := f.MkdirAll(ctx, dest, 0o777); err != nil {
		return report, fmt.Errorf("copier: failed to create %s: %w", dest, err)
	}

	for _, entry := range entries {
		target := filepath.Join(dest, entry.Path)
		switch entry.Kind {
		case walker.KindDirectory:
			if err := f.MkdirAll(ctx, target, 0o777); err != nil {
				return report, fmt.Errorf("copier: failed to create %s: %w", target, err)
			}
			report.Dirs++
		case walker.KindSymlink:
			if err := copyLink(ctx, f, entry.PhysicalPath, target); err != nil {
				return report, err
			}
			report.Links++
		default:
			if err := f.MkdirAll(ctx, filepath.Dir(target), 0o777); err != nil {
				return report, fmt.Errorf("copier: failed to create %s: %w", filepath.Dir(target), err)
			}
			if err := f.CopyFile(ctx, entry.PhysicalPath, target); err != nil {
				return report, fmt.Errorf("copier: failed to copy %s: %w", entry.PhysicalPath, err)
			}
			report.Files++
		}
	}
	return report, nil
}

func copyLink(ctx context.Context, f fsys.FS, src, dst string) error {
	link, err := f.Readlink(ctx, src)
	if err != nil {
		return fmt.Errorf("copier: failed to read link %s: %w", src, err)
	}
	if err := f.MkdirAll(ctx, filepath.Dir(dst), 0o777); err != nil {
		return fmt.Errorf("copier: failed to create %s: %w", filepath.Dir(dst), err)
	}
	if err := f.RemoveAll(ctx, dst); err != nil {
		return fmt.Errorf("copier: failed to replace %s: %w", dst, err)
	}
	if err := f.Symlink(ctx, link, dst); err != nil {
		return fmt.Errorf("copier: failed to link %s: %w", dst, err)
	}
	return nil
}

// keepFunc translates rule sets into the accelerated copy's predicate. Tagged
// paths get a trailing "/" for directories, as during traversal; the filter
// only constrains non-directories so that directories stay reachable.
func keepFunc(filter, ign *ignore.RuleSet) fsys.KeepFunc {
	if filter == nil && ign == nil {
		return nil
	}
	return func(rel string, isDir bool) bool {
		tagged := "/" + rel
		if isDir {
			tagged += "/"
		}
		if ign.Matches(tagged) {
			return false
		}
		if filter != nil && !isDir {
			return filter.Matches(tagged)
		}
		return true
	}
}

// excludeSubtree matches the tagged path of dest inside source.
func excludeSubtree(source, dest string) *ignore.RuleSet {
	rel, err := relative(source, dest)
	if err != nil || rel == "." {
		return nil
	}
	tagged := "/" + filepath.ToSlash(rel) + "/"
	return ignore.Func(func(p string) bool {
		return p == tagged
	})
}
