package archive

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"traki/internal/fleet"
)

// MemoryArchive is an in-memory implementation of the Archive interface,
// useful for testing. This implementation is safe for concurrent use.
type MemoryArchive struct {
	mu      sync.RWMutex
	reports map[string][]byte
}

// NewMemoryArchive creates a new in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{reports: make(map[string][]byte)}
}

// Put stores a named report. Storing the same name twice overwrites.
func (m *MemoryArchive) Put(name string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[name] = data
	return nil
}

// Get retrieves a named report and writes it to w.
func (m *MemoryArchive) Get(name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.reports[name]
	if !ok {
		return fmt.Errorf("report not found: %s", name)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// List returns the names of all archived reports, sorted.
func (m *MemoryArchive) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.reports))
	for name := range m.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ValidateSetup always succeeds for the in-memory archive.
func (m *MemoryArchive) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryArchive implements the Archive interface
var _ fleet.Archive = (*MemoryArchive)(nil)
