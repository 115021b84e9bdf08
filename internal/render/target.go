package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Target receives rendered fragments by name.
type Target interface {
	Write(name string, fn func(io.Writer) error) error
}

// DirTarget writes each fragment to <Dir>/<name>.html. Files are replaced
// atomically so a reader never sees a partial fragment.
type DirTarget struct {
	Dir string
}

// Path returns the file a fragment is written to.
func (d DirTarget) Path(name string) string {
	return filepath.Join(d.Dir, name+".html")
}

// Write renders into a temporary file and renames it into place.
func (d DirTarget) Write(name string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := fn(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, d.Path(name)); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// MemoryTarget keeps fragments in memory.
type MemoryTarget struct {
	mu    sync.Mutex
	files map[string]string
}

// NewMemoryTarget creates an empty MemoryTarget.
func NewMemoryTarget() *MemoryTarget {
	return &MemoryTarget{files: make(map[string]string)}
}

// Write renders into memory. A failed render leaves the previous fragment.
func (m *MemoryTarget) Write(name string, fn func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = buf.String()
	return nil
}

// Get returns a fragment and whether it exists.
func (m *MemoryTarget) Get(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.files[name]
	return s, ok
}

// Names returns the written fragment names, sorted.
func (m *MemoryTarget) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
