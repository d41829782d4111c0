// Package walker implements the filtered, prune-aware directory traversal
package walker

import (
	"github.com/bethropolis/filekit/internal/logger"
)

// RebaseMode selects how reported paths are prefixed.
type RebaseMode int

const (
	// RebaseSelf prefixes reported paths with the listed root as given.
	RebaseSelf RebaseMode = iota
	// RebaseNone reports paths relative to the listed root.
	RebaseNone
	// RebasePrefix prefixes reported paths with WalkOptions.RebaseTo.
	RebasePrefix
)

// WalkOptions configures List and Search. Options are immutable for the
// duration of a call.
type WalkOptions struct {
	Logger logger.Logger
	// Recursive descends into subdirectories.
	Recursive bool
	// LeavesOnly drops a directory from the result when its expansion
	// produced at least one entry. Defaults to true.
	LeavesOnly bool
	// Absolute reports absolute paths and overrides rebasing.
	Absolute bool
	Rebase   RebaseMode
	RebaseTo string
	// Filter and Ignore accept anything ignore.Parse does.
	Filter any
	Ignore any
}

// defaultOptions returns the default walk options
func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:     logger.Nop,
		Recursive:  false,
		LeavesOnly: true,
		Rebase:     RebaseSelf,
	}
}

// Option is a functional option for configuring WalkOptions
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker
func WithLogger(l logger.Logger) Option {
	return func(opts *WalkOptions) {
		if l != nil {
			opts.Logger = l
		}
	}
}

// WithRecursive enables or disables descending into subdirectories
func WithRecursive(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.Recursive = enabled
	}
}

// WithLeavesOnly controls whether expanded, non-empty directories are
// collapsed away in favour of their contents
func WithLeavesOnly(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.LeavesOnly = enabled
	}
}

// WithAbsolute reports absolute paths
func WithAbsolute(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.Absolute = enabled
	}
}

// WithRebase reports paths under prefix instead of the listed root
func WithRebase(prefix string) Option {
	return func(opts *WalkOptions) {
		opts.Rebase = RebasePrefix
		opts.RebaseTo = prefix
	}
}

// WithoutRebase reports paths relative to the listed root
func WithoutRebase() Option {
	return func(opts *WalkOptions) {
		opts.Rebase = RebaseNone
		opts.RebaseTo = ""
	}
}

// WithFilter keeps only entries whose tagged path matches rule
func WithFilter(rule any) Option {
	return func(opts *WalkOptions) {
		opts.Filter = rule
	}
}

// WithIgnore drops entries, and whole subtrees, whose tagged path matches rule
func WithIgnore(rule any) Option {
	return func(opts *WalkOptions) {
		opts.Ignore = rule
	}
}

// WithOptions replaces all settings with o.
func WithOptions(o WalkOptions) Option {
	return func(opts *WalkOptions) {
		prev := opts.Logger
		*opts = o
		if opts.Logger == nil {
			opts.Logger = prev
		}
	}
}
