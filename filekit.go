// Package filekit is a filesystem convenience library: read and write with
// automatic directory creation, recursive copy and listing with
// gitignore-style filter and ignore rules, recursive delete and path
// classification.
//
// Every operation has a blocking form on Client (and as package-level
// functions using Default) and a suspending form on Promises, which returns
// futures and runs filesystem primitives on a bounded set of goroutines.
//
// Filter and ignore rules accept a gitignore-style pattern string, a slice of
// them, a *regexp.Regexp, a func(string) bool, or a *RuleSet. Rules are
// matched against tagged paths: relative to the listed root, starting with
// "/", and ending with "/" for directories:
//
//	entries, err := filekit.Readdir("./dist", filekit.Recursive(true),
//		filekit.Ignore([]string{"node_modules/", "*.map"}))
package filekit

import (
	"github.com/bethropolis/filekit/internal/copier"
	"github.com/bethropolis/filekit/internal/fsys"
	"github.com/bethropolis/filekit/internal/ignore"
	"github.com/bethropolis/filekit/internal/logger"
	"github.com/bethropolis/filekit/internal/pattern"
	"github.com/bethropolis/filekit/internal/walker"
)

type (
	// FS is the filesystem capability a Client runs on.
	FS = fsys.FS
	// OSFS is the host filesystem.
	OSFS = fsys.OS
	// MemoryFS is an in-memory FS with deterministic listing order.
	MemoryFS = fsys.Memory

	Entry  = walker.Entry
	Kind   = walker.Kind
	Report = copier.Report

	RuleSet   = ignore.RuleSet
	Predicate = ignore.Predicate
	Matcher   = pattern.Matcher

	// Logger receives debug output from every component.
	Logger = logger.Logger

	ListOption = walker.Option
	CopyOption = copier.Option
)

const (
	KindUnknown     = walker.KindUnknown
	KindFile        = walker.KindFile
	KindDirectory   = walker.KindDirectory
	KindSymlink     = walker.KindSymlink
	KindFIFO        = walker.KindFIFO
	KindSocket      = walker.KindSocket
	KindCharDevice  = walker.KindCharDevice
	KindBlockDevice = walker.KindBlockDevice
)

var (
	ErrUnsupportedRule = ignore.ErrUnsupportedRule
	ErrNoSource        = copier.ErrNoSource
	ErrSamePath        = copier.ErrSamePath
)

// Listing options.
var (
	Recursive  = walker.WithRecursive
	LeavesOnly = walker.WithLeavesOnly
	Absolute   = walker.WithAbsolute
	Rebase     = walker.WithRebase
	NoRebase   = walker.WithoutRebase
	Filter     = walker.WithFilter
	Ignore     = walker.WithIgnore
)

// Copy options.
var (
	CopyFilter          = copier.WithFilter
	CopyIgnore          = copier.WithIgnore
	WithoutAcceleration = copier.WithoutAcceleration
)

// Rule constructors.
var (
	Patterns     = ignore.Patterns
	Func         = ignore.Func
	Compile      = pattern.Compile
	ParseRule    = ignore.Parse
	Hidden       = ignore.Hidden
	GitDir       = ignore.GitDir
	NewMemoryFS  = fsys.NewMemory
	SearchFilter = walker.SearchPattern
)

// Paths projects entries to their reported paths.
func Paths(entries []Entry) []string {
	return walker.Paths(entries)
}
