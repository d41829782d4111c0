// Package walker implements the filtered, prune-aware directory traversal
package walker

import (
	"io/fs"
)

// Kind classifies a filesystem object. The numeric values are stable and
// appear as "type" in JSON output.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindDirectory
	KindSymlink
	KindFIFO
	KindSocket
	KindCharDevice
	KindBlockDevice
)

var kindNames = [...]string{
	KindUnknown:     "unknown",
	KindFile:        "file",
	KindDirectory:   "directory",
	KindSymlink:     "symlink",
	KindFIFO:        "fifo",
	KindSocket:      "socket",
	KindCharDevice:  "char-device",
	KindBlockDevice: "block-device",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// KindOf maps file mode type bits to a Kind. A symlink is KindSymlink
// whatever it points to.
func KindOf(mode fs.FileMode) Kind {
	switch t := mode.Type(); {
	case t == 0:
		return KindFile
	case t&fs.ModeSymlink != 0:
		return KindSymlink
	case t&fs.ModeDir != 0:
		return KindDirectory
	case t&fs.ModeNamedPipe != 0:
		return KindFIFO
	case t&fs.ModeSocket != 0:
		return KindSocket
	case t&fs.ModeCharDevice != 0:
		return KindCharDevice
	case t&fs.ModeDevice != 0:
		return KindBlockDevice
	default:
		return KindUnknown
	}
}

// Entry is one object found by a traversal.
type Entry struct {
	// Name is the base name.
	Name string `json:"name"`
	// Path is the reported path, after rebase or absolute rules.
	Path string `json:"path"`
	// PhysicalPath can be passed back to filesystem calls.
	PhysicalPath string `json:"physical_path"`
	Kind         Kind   `json:"type"`
}

func (e Entry) IsFile() bool         { return e.Kind == KindFile }
func (e Entry) IsDirectory() bool    { return e.Kind == KindDirectory }
func (e Entry) IsSymbolicLink() bool { return e.Kind == KindSymlink }

// Paths projects entries to their reported paths.
func Paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}
