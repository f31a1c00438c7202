// mock_catalog.go - In-memory catalog implementation for testing
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/study-notes/backend/internal/models"
)

// MemoryCatalog implements notes.Catalog in memory for tests. Individual
// operations can be forced to fail through the Fail* fields.
type MemoryCatalog struct {
	mu     sync.RWMutex
	nextID int64
	notes  []models.Note

	FailInsert error
	FailQuery  error
}

// NewMemoryCatalog creates an empty in-memory catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{nextID: 1}
}

func (m *MemoryCatalog) Insert(_ context.Context, note *models.Note) (int64, error) {
	if m.FailInsert != nil {
		return 0, m.FailInsert
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *note
	stored.ID = m.nextID
	m.nextID++
	m.notes = append(m.notes, stored)
	return stored.ID, nil
}

func (m *MemoryCatalog) ListBySubject(_ context.Context, subjectKey string) ([]models.Note, error) {
	if m.FailQuery != nil {
		return nil, m.FailQuery
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	list := []models.Note{}
	for _, note := range m.notes {
		if note.Subject == subjectKey {
			list = append(list, note)
		}
	}
	sortNewestFirst(list)
	return list, nil
}

func (m *MemoryCatalog) ListAll(_ context.Context) ([]models.Note, error) {
	if m.FailQuery != nil {
		return nil, m.FailQuery
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]models.Note, len(m.notes))
	copy(list, m.notes)
	sortNewestFirst(list)
	return list, nil
}

func (m *MemoryCatalog) GetByID(_ context.Context, id int64) (*models.Note, error) {
	if m.FailQuery != nil {
		return nil, m.FailQuery
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, note := range m.notes {
		if note.ID == id {
			found := note
			return &found, nil
		}
	}
	return nil, errors.New("note not found")
}

func (m *MemoryCatalog) CountBySubject(_ context.Context, subjectKey string) (int, error) {
	if m.FailQuery != nil {
		return 0, m.FailQuery
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, note := range m.notes {
		if note.Subject == subjectKey {
			count++
		}
	}
	return count, nil
}

func (m *MemoryCatalog) CountTotal(_ context.Context) (int, error) {
	if m.FailQuery != nil {
		return 0, m.FailQuery
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.notes), nil
}

// Len returns the number of stored notes.
func (m *MemoryCatalog) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notes)
}

func sortNewestFirst(list []models.Note) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].UploadedAt.Equal(list[j].UploadedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})
}
