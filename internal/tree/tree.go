// Package tree is the workspace tree capability.
//
// Ownership boundary:
// - existence checks, reads, and writes of workspace files
//
// Paths are workspace-relative, slash-separated. The tree never decides
// what a file means; manifest semantics live with the callers.
package tree

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Tree exposes the file operations reference sync needs. Implementations
// must treat paths as workspace-relative slash paths.
type Tree interface {
	Exists(path string) bool
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

// OS is a filesystem tree rooted at a workspace directory.
type OS struct {
	root string
}

// NewOS constructs a filesystem tree rooted at root (cwd when blank).
func NewOS(root string) OS {
	resolved := strings.TrimSpace(root)
	if resolved == "" {
		resolved = "."
	}
	return OS{root: resolved}
}

func (t OS) Exists(path string) bool {
	p, err := t.resolvePath(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func (t OS) Read(path string) ([]byte, error) {
	p, err := t.resolvePath(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (t OS) Write(path string, data []byte) error {
	p, err := t.resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func (t OS) resolvePath(path string) (string, error) {
	rel := strings.TrimSpace(path)
	if rel == "" {
		return "", fmt.Errorf("tree: missing path")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("tree: absolute path not allowed")
	}
	root, err := filepath.Abs(t.root)
	if err != nil {
		return "", err
	}
	p := filepath.Clean(filepath.Join(root, filepath.FromSlash(rel)))
	if !isWithin(p, root) {
		return "", fmt.Errorf("tree: path escapes workspace root")
	}
	return p, nil
}

func isWithin(path string, root string) bool {
	p := filepath.Clean(path)
	r := filepath.Clean(root)
	if p == r {
		return true
	}
	return strings.HasPrefix(p, r+string(os.PathSeparator))
}

// Mem is an in-memory tree used as a pure test double.
type Mem struct {
	files map[string][]byte
	// Writes records write order, useful when asserting which
	// manifests a run touched.
	Writes []string
}

func NewMem() *Mem {
	return &Mem{files: make(map[string][]byte)}
}

func (t *Mem) Exists(path string) bool {
	_, ok := t.files[clean(path)]
	return ok
}

func (t *Mem) Read(path string) ([]byte, error) {
	data, ok := t.files[clean(path)]
	if !ok {
		return nil, fmt.Errorf("tree: %s: %w", path, os.ErrNotExist)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (t *Mem) Write(path string, data []byte) error {
	p := clean(path)
	stored := make([]byte, len(data))
	copy(stored, data)
	t.files[p] = stored
	t.Writes = append(t.Writes, p)
	return nil
}

// Paths returns every stored path, sorted.
func (t *Mem) Paths() []string {
	out := make([]string, 0, len(t.files))
	for p := range t.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func clean(p string) string {
	return path.Clean(p)
}
