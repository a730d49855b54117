package fsource

import (
	"io/fs"
	"sort"
	"sync"
)

// Memory is a map-backed FileSource for tests and dry runs.
type Memory struct {
	mu     sync.RWMutex
	files  map[string][]byte
	writes int
}

// NewMemory returns a source holding a copy of files.
func NewMemory(files map[string]string) *Memory {
	m := &Memory{files: make(map[string][]byte, len(files))}
	for p, c := range files {
		m.files[p] = []byte(c)
	}
	return m
}

// Read returns a copy of the stored content.
func (m *Memory) Read(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	if !ok {
		return nil, ioErr("read", path, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// WriteAtomic stores a copy of content.
func (m *Memory) WriteAtomic(path string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[path] = append([]byte(nil), content...)
	m.writes++
	return nil
}

// Content returns the stored text of path.
func (m *Memory) Content(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return string(m.files[path])
}

// Writes returns how many writes happened.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Paths lists stored paths in sorted order.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
