package filekit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bethropolis/filekit/internal/copier"
	"github.com/bethropolis/filekit/internal/fsys"
	"github.com/bethropolis/filekit/internal/ignore"
	"github.com/bethropolis/filekit/internal/logger"
	"github.com/bethropolis/filekit/internal/walker"
)

// DefaultDirMode is used by Mkdir and by Save for parent directories.
const DefaultDirMode fs.FileMode = 0o777

// DefaultFileMode is used by Save unless WithPerm is given.
const DefaultFileMode fs.FileMode = 0o666

// Client runs filekit operations on an FS. The zero value is not usable;
// create one with New.
type Client struct {
	fs  fsys.FS
	log logger.Logger
}

// Option configures a Client or Promises.
type Option func(*clientConfig)

type clientConfig struct {
	fs          fsys.FS
	logger      logger.Logger
	maxInFlight int64
}

// WithFS sets the filesystem. The default is the host filesystem.
func WithFS(f FS) Option {
	return func(c *clientConfig) {
		if f != nil {
			c.fs = f
		}
	}
}

// WithLogger sets the logger passed down to every component.
func WithLogger(l Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxInFlight bounds how many primitives Promises runs at once.
func WithMaxInFlight(n int64) Option {
	return func(c *clientConfig) {
		c.maxInFlight = n
	}
}

func newConfig(opts []Option) clientConfig {
	cfg := clientConfig{fs: fsys.OS{}, logger: logger.Nop, maxInFlight: 16}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// New creates a blocking Client.
func New(opts ...Option) *Client {
	cfg := newConfig(opts)
	return &Client{fs: cfg.fs, log: cfg.logger}
}

// Default is the blocking Client on the host filesystem used by the
// package-level functions.
var Default = New()

// FS returns the filesystem the client runs on.
func (c *Client) FS() FS { return c.fs }

// SaveOption configures Save.
type SaveOption func(*saveConfig)

type saveConfig struct {
	perm   fs.FileMode
	atomic bool
	lock   bool
}

// WithPerm sets the permission bits of a newly created file.
func WithPerm(perm fs.FileMode) SaveOption {
	return func(c *saveConfig) { c.perm = perm }
}

// WithAtomic writes through a temp file renamed into place.
func WithAtomic() SaveOption {
	return func(c *saveConfig) { c.atomic = true }
}

// WithLock serializes writers through an OS lock on "<path>.lock" and
// implies WithAtomic.
func WithLock() SaveOption {
	return func(c *saveConfig) { c.lock = true }
}

// Save writes data to path, creating missing parent directories.
func (c *Client) Save(ctx context.Context, path string, data []byte, opts ...SaveOption) error {
	cfg := saveConfig{perm: DefaultFileMode}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := c.Mkdir(ctx, filepath.Dir(path)); err != nil {
		return err
	}

	var err error
	switch {
	case cfg.lock:
		err = fsys.LockedWrite(ctx, c.fs, path, data, cfg.perm)
	case cfg.atomic:
		err = fsys.AtomicWrite(ctx, c.fs, path, data, cfg.perm)
	default:
		err = c.fs.WriteFile(ctx, path, data, cfg.perm)
	}
	if err != nil {
		return fmt.Errorf("filekit: failed to save %s: %w", path, err)
	}
	c.log.Debug("filekit.Save: Wrote %d bytes to %s", len(data), path)
	return nil
}

// SaveText is Save for string data.
func (c *Client) SaveText(ctx context.Context, path, text string, opts ...SaveOption) error {
	return c.Save(ctx, path, []byte(text), opts...)
}

// Read returns the contents of path.
func (c *Client) Read(ctx context.Context, path string) ([]byte, error) {
	return c.fs.ReadFile(ctx, path)
}

// ReadText returns the contents of path as a string.
func (c *Client) ReadText(ctx context.Context, path string) (string, error) {
	data, err := c.fs.ReadFile(ctx, path)
	return string(data), err
}

// Mkdir creates path and missing parents with DefaultDirMode.
func (c *Client) Mkdir(ctx context.Context, path string) error {
	return c.MkdirMode(ctx, path, DefaultDirMode)
}

// MkdirMode creates path and missing parents. An already existing path is
// not an error; anything else is returned unchanged.
func (c *Client) MkdirMode(ctx context.Context, path string, mode fs.FileMode) error {
	err := c.fs.MkdirAll(ctx, path, mode)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	return nil
}

// Remove deletes path recursively. A missing path is not an error.
func (c *Client) Remove(ctx context.Context, path string) error {
	return c.fs.RemoveAll(ctx, path)
}

// Copy copies source to dest; see the dest trailing-separator rules on
// copier.Destination.
func (c *Client) Copy(ctx context.Context, source, dest string, opts ...CopyOption) (Report, error) {
	opts = append([]CopyOption{copier.WithLogger(c.log)}, opts...)
	return copier.Copy(ctx, c.fs, source, dest, opts...)
}

// Readdir lists path. Without options it returns the direct children,
// reported under path; see the listing options for recursion and rules.
func (c *Client) Readdir(ctx context.Context, path string, opts ...ListOption) ([]Entry, error) {
	opts = append([]ListOption{walker.WithLogger(c.log)}, opts...)
	return walker.List(ctx, c.fs, path, opts...)
}

// Search lists entries under dir matching an extension such as "js". A match
// starting with "." is used as a pattern verbatim. A dir that is not a
// directory yields no entries.
func (c *Client) Search(ctx context.Context, dir, match string, opts ...ListOption) ([]Entry, error) {
	opts = append([]ListOption{walker.WithLogger(c.log)}, opts...)
	return walker.Search(ctx, c.fs, dir, match, opts...)
}

// IsDirectory reports whether path is a directory, following symlinks.
func (c *Client) IsDirectory(ctx context.Context, path string) bool {
	return fsys.IsDir(ctx, c.fs, path)
}

// IsFile reports whether path is a regular file, following symlinks.
func (c *Client) IsFile(ctx context.Context, path string) bool {
	return fsys.IsRegular(ctx, c.fs, path)
}

// IsSymbolicLink reports whether path itself is a symlink.
func (c *Client) IsSymbolicLink(ctx context.Context, path string) bool {
	return fsys.IsSymlink(ctx, c.fs, path)
}

// ParseGitignore returns the rules of a .gitignore-formatted file, without
// blank lines and lines starting with '#' or ':'.
func (c *Client) ParseGitignore(ctx context.Context, path string) ([]string, error) {
	return ignore.ParseFile(ctx, c.fs, path, ignore.WithLogger(c.log))
}

// CompileGitignore is ParseGitignore with every rule compiled. Rules that fit
// no supported syntax are nil and never match.
func (c *Client) CompileGitignore(ctx context.Context, path string) ([]Matcher, error) {
	return ignore.CompileFile(ctx, c.fs, path, ignore.WithLogger(c.log))
}

// StrictGitignore loads a .gitignore file with full gitignore semantics,
// negation included.
func (c *Client) StrictGitignore(ctx context.Context, path string) (*RuleSet, error) {
	return ignore.Strict(ctx, c.fs, path, ignore.WithLogger(c.log))
}
