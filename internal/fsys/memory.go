package fsys

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory FS. Directories list their children in creation
// order, which keeps traversal order deterministic in tests.
type Memory struct {
	mu    sync.Mutex
	nodes map[string]*memNode

	// BeforeReadDir, when set, runs before every ReadDir with the cleaned
	// name. Tests use it to mutate the tree mid-traversal.
	BeforeReadDir func(name string)

	listed []string
}

type memNode struct {
	mode     fs.FileMode
	data     []byte
	target   string
	children []string
	modTime  time.Time
}

var _ FS = (*Memory)(nil)

// NewMemory returns an empty Memory with "." and "/" as existing roots.
func NewMemory() *Memory {
	now := time.Now()
	return &Memory{nodes: map[string]*memNode{
		".": {mode: fs.ModeDir | 0o777, modTime: now},
		"/": {mode: fs.ModeDir | 0o777, modTime: now},
	}}
}

// Listed returns every directory ReadDir was called on, in call order.
func (m *Memory) Listed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.listed...)
}

func clean(name string) string {
	return path.Clean(filepath.ToSlash(name))
}

func pathErr(op, name string, err error) error {
	return &fs.PathError{Op: op, Path: name, Err: err}
}

// resolve follows symlinks in the final element. Callers hold m.mu.
func (m *Memory) resolve(name string) (string, *memNode, error) {
	for hops := 0; hops < 40; hops++ {
		n, ok := m.nodes[name]
		if !ok {
			return name, nil, fs.ErrNotExist
		}
		if n.mode&fs.ModeSymlink == 0 {
			return name, n, nil
		}
		target := n.target
		if !path.IsAbs(target) {
			target = path.Join(path.Dir(name), target)
		}
		name = clean(target)
	}
	return name, nil, fs.ErrInvalid
}

func (m *Memory) Stat(_ context.Context, name string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := clean(name)
	_, n, err := m.resolve(key)
	if err != nil {
		return nil, pathErr("stat", name, err)
	}
	return memInfo{name: path.Base(key), node: n}, nil
}

func (m *Memory) Lstat(_ context.Context, name string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := clean(name)
	n, ok := m.nodes[key]
	if !ok {
		return nil, pathErr("lstat", name, fs.ErrNotExist)
	}
	return memInfo{name: path.Base(key), node: n}, nil
}

func (m *Memory) ReadDir(_ context.Context, name string) ([]fs.DirEntry, error) {
	key := clean(name)
	if m.BeforeReadDir != nil {
		m.BeforeReadDir(key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.listed = append(m.listed, key)
	dir, n, err := m.resolve(key)
	if err != nil {
		return nil, pathErr("readdir", name, err)
	}
	if !n.mode.IsDir() {
		return nil, pathErr("readdir", name, fs.ErrInvalid)
	}
	entries := make([]fs.DirEntry, 0, len(n.children))
	for _, child := range n.children {
		cn := m.nodes[path.Join(dir, child)]
		entries = append(entries, fs.FileInfoToDirEntry(memInfo{name: child, node: cn}))
	}
	return entries, nil
}

func (m *Memory) ReadFile(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, n, err := m.resolve(clean(name))
	if err != nil {
		return nil, pathErr("open", name, err)
	}
	if n.mode.IsDir() {
		return nil, pathErr("read", name, fs.ErrInvalid)
	}
	return append([]byte(nil), n.data...), nil
}

func (m *Memory) WriteFile(_ context.Context, name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := clean(name)
	if n, ok := m.nodes[key]; ok {
		if n.mode.IsDir() {
			return pathErr("open", name, fs.ErrInvalid)
		}
		n.data = append([]byte(nil), data...)
		n.modTime = time.Now()
		return nil
	}
	if err := m.requireDir(path.Dir(key), name); err != nil {
		return err
	}
	m.insert(key, &memNode{mode: perm.Perm(), data: append([]byte(nil), data...)})
	return nil
}

func (m *Memory) MkdirAll(_ context.Context, name string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mkdirAll(clean(name), name, perm)
}

func (m *Memory) mkdirAll(key, name string, perm fs.FileMode) error {
	if n, ok := m.nodes[key]; ok {
		if n.mode.IsDir() {
			return nil
		}
		return pathErr("mkdir", name, fs.ErrExist)
	}
	if err := m.mkdirAll(path.Dir(key), name, perm); err != nil {
		return err
	}
	m.insert(key, &memNode{mode: fs.ModeDir | perm.Perm()})
	return nil
}

func (m *Memory) RemoveAll(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := clean(name)
	if _, ok := m.nodes[key]; !ok {
		return nil
	}
	m.detach(key)
	prefix := key + "/"
	for k := range m.nodes {
		if k == key || strings.HasPrefix(k, prefix) {
			delete(m.nodes, k)
		}
	}
	return nil
}

func (m *Memory) Rename(_ context.Context, oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	from, to := clean(oldname), clean(newname)
	n, ok := m.nodes[from]
	if !ok {
		return pathErr("rename", oldname, fs.ErrNotExist)
	}
	if n.mode.IsDir() {
		return pathErr("rename", oldname, ErrUnsupported)
	}
	if err := m.requireDir(path.Dir(to), newname); err != nil {
		return err
	}
	m.detach(from)
	delete(m.nodes, from)
	if _, exists := m.nodes[to]; exists {
		m.detach(to)
	}
	m.insert(to, n)
	return nil
}

func (m *Memory) CopyFile(ctx context.Context, src, dst string) error {
	m.mu.Lock()
	_, n, err := m.resolve(clean(src))
	if err != nil {
		m.mu.Unlock()
		return pathErr("open", src, err)
	}
	data, perm := append([]byte(nil), n.data...), n.mode.Perm()
	m.mu.Unlock()
	return m.WriteFile(ctx, dst, data, perm)
}

func (m *Memory) Readlink(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[clean(name)]
	if !ok {
		return "", pathErr("readlink", name, fs.ErrNotExist)
	}
	if n.mode&fs.ModeSymlink == 0 {
		return "", pathErr("readlink", name, fs.ErrInvalid)
	}
	return n.target, nil
}

func (m *Memory) Symlink(_ context.Context, oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := clean(newname)
	if _, ok := m.nodes[key]; ok {
		return pathErr("symlink", newname, fs.ErrExist)
	}
	if err := m.requireDir(path.Dir(key), newname); err != nil {
		return err
	}
	m.insert(key, &memNode{mode: fs.ModeSymlink | 0o777, target: oldname})
	return nil
}

// Special adds a non-regular node such as a named pipe or socket.
func (m *Memory) Special(name string, mode fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := clean(name)
	if err := m.requireDir(path.Dir(key), name); err != nil {
		return err
	}
	m.insert(key, &memNode{mode: mode | 0o666})
	return nil
}

func (m *Memory) requireDir(dir, name string) error {
	n, ok := m.nodes[dir]
	if !ok {
		return pathErr("open", name, fs.ErrNotExist)
	}
	if !n.mode.IsDir() {
		return pathErr("open", name, fs.ErrInvalid)
	}
	return nil
}

func (m *Memory) insert(key string, n *memNode) {
	if n.modTime.IsZero() {
		n.modTime = time.Now()
	}
	m.nodes[key] = n
	parent := m.nodes[path.Dir(key)]
	parent.children = append(parent.children, path.Base(key))
}

func (m *Memory) detach(key string) {
	parent, ok := m.nodes[path.Dir(key)]
	if !ok {
		return
	}
	base := path.Base(key)
	for i, c := range parent.children {
		if c == base {
			parent.children = append(parent.children[:i:i], parent.children[i+1:]...)
			return
		}
	}
}

type memInfo struct {
	name string
	node *memNode
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return int64(len(i.node.data)) }
func (i memInfo) Mode() fs.FileMode  { return i.node.mode }
func (i memInfo) ModTime() time.Time { return i.node.modTime }
func (i memInfo) IsDir() bool        { return i.node.mode.IsDir() }
func (i memInfo) Sys() any           { return nil }
