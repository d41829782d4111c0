// Package walker handles directory traversal and file processing
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/bethropolis/filekit/internal/fsys"
	"github.com/bethropolis/filekit/internal/ignore"
)

// traversal is the state of one top-level List call. matched is the filter
// accumulator; it is created here and never outlives the call.
type traversal struct {
	ctx     context.Context
	fs      fsys.FS
	options WalkOptions
	filter  *ignore.RuleSet
	ignore  *ignore.RuleSet
	matched []Entry
	visited int
}

// List returns the entries under root.
//
// When root is not a directory a single entry describing it is returned.
// Otherwise its children are listed in directory order; with recursion each
// expanded directory's results follow it in place (depth first). With a
// filter only entries whose tagged path matches are returned, in discovery
// order. Ignored paths are dropped before their contents are ever read.
// Symlinks are never followed while descending.
func List(ctx context.Context, f fsys.FS, root string, opts ...Option) ([]Entry, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filter, err := ignore.Parse(options.Filter)
	if err != nil {
		return nil, fmt.Errorf("walker: invalid filter: %w", err)
	}
	ign, err := ignore.Parse(options.Ignore)
	if err != nil {
		return nil, fmt.Errorf("walker: invalid ignore: %w", err)
	}

	physical := root
	if options.Absolute {
		if physical, err = filepath.Abs(root); err != nil {
			return nil, fmt.Errorf("walker: failed to get absolute path for '%s': %w", root, err)
		}
	}

	if !fsys.IsDir(ctx, f, physical) {
		return single(ctx, f, root, physical, options)
	}

	t := &traversal{
		ctx:     ctx,
		fs:      f,
		options: options,
		filter:  filter,
		ignore:  ign,
	}

	options.Logger.Debug("walker.List started. Root: %s, Recursive: %v, LeavesOnly: %v",
		physical, options.Recursive, options.LeavesOnly)

	entries, err := t.walk(physical, "/", rebaseRoot(root, options))
	if err != nil {
		return nil, err
	}

	options.Logger.Debug("walker.List finished. Root: %s, visited: %d, matched: %d",
		physical, t.visited, len(t.matched))

	if filter != nil {
		if t.matched == nil {
			return []Entry{}, nil
		}
		return t.matched, nil
	}
	return entries, nil
}

// walk lists dir and returns its contribution to the result. tagBase is the
// tagged path of dir and base the reported path its children are joined to.
func (t *traversal) walk(dir, tagBase, base string) ([]Entry, error) {
	children, err := t.fs.ReadDir(t.ctx, dir)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(children))
	for _, d := range children {
		if err := t.ctx.Err(); err != nil {
			return nil, err
		}
		t.visited++

		name := d.Name()
		kind := KindOf(d.Type())
		isDir := kind == KindDirectory
		physical := filepath.Join(dir, name)

		tagged := tagBase + name
		if isDir {
			tagged += "/"
		}

		if t.ignore.Matches(tagged) {
			t.options.Logger.Debug("walker: Ignored %q by rule", tagged)
			continue
		}

		entry := Entry{
			Name:         name,
			Path:         t.report(physical, base, name),
			PhysicalPath: physical,
			Kind:         kind,
		}

		// Entries matched below this one are inserted after it.
		mark := len(t.matched)

		var expanded []Entry
		if isDir && t.options.Recursive {
			t.options.Logger.Debug("walker: Descending into directory %q", tagged)
			expanded, err = t.walk(physical, tagged, entry.Path)
			if errors.Is(err, fs.ErrNotExist) {
				t.options.Logger.Debug("walker: Directory %q vanished before listing", tagged)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("walker: failed to list %s: %w", physical, err)
			}
		}

		if t.options.LeavesOnly && isDir && len(expanded) > 0 {
			out = append(out, expanded...)
			continue
		}

		out = append(out, entry)
		out = append(out, expanded...)

		if t.filter != nil && t.filter.Matches(tagged) {
			t.options.Logger.Debug("walker: Filter matched %q", tagged)
			t.matched = slices.Insert(t.matched, mark, entry)
		}
	}
	return out, nil
}

func (t *traversal) report(physical, base, name string) string {
	if t.options.Absolute {
		return physical
	}
	return filepath.Join(base, name)
}

// rebaseRoot returns the prefix children of root are reported under.
func rebaseRoot(root string, options WalkOptions) string {
	switch options.Rebase {
	case RebaseNone:
		return ""
	case RebasePrefix:
		return options.RebaseTo
	default:
		return root
	}
}

// single describes a root that is not a directory.
func single(ctx context.Context, f fsys.FS, root, physical string, options WalkOptions) ([]Entry, error) {
	info, err := f.Lstat(ctx, physical)
	if err != nil {
		return nil, fmt.Errorf("walker: failed to stat %s: %w", root, err)
	}

	name := filepath.Base(root)
	reported := physical
	if !options.Absolute {
		switch options.Rebase {
		case RebaseNone:
			reported = name
		case RebasePrefix:
			reported = filepath.Join(options.RebaseTo, name)
		default:
			reported = root
		}
	}

	return []Entry{{
		Name:         name,
		Path:         reported,
		PhysicalPath: physical,
		Kind:         KindOf(info.Mode()),
	}}, nil
}
