// mock_filestore.go - In-memory file store implementation for testing
package testutil

import (
	"path/filepath"
	"sync"
)

// MemoryFileStore implements storage.Store in memory for tests.
type MemoryFileStore struct {
	mu    sync.RWMutex
	files map[string][]byte

	FailWrite error
}

// NewMemoryFileStore creates an empty in-memory file store.
func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{
		files: make(map[string][]byte),
	}
}

func (m *MemoryFileStore) Write(subjectKey, name string, data []byte) (int64, error) {
	if m.FailWrite != nil {
		return 0, m.FailWrite
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[m.Path(subjectKey, name)] = data
	return int64(len(data)), nil
}

func (m *MemoryFileStore) Path(subjectKey, name string) string {
	return filepath.Join("mem", subjectKey, name)
}

func (m *MemoryFileStore) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[path]
	return ok
}

// Bytes returns the stored content at path.
func (m *MemoryFileStore) Bytes(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[path]
	return data, ok
}

// Delete removes the stored content at path.
func (m *MemoryFileStore) Delete(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.files, path)
}
