// Package notes holds the upload orchestration and read-side queries that
// tie the normalizer, file storage and catalog together.
package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/study-notes/backend/internal/models"
	"github.com/study-notes/backend/internal/normalize"
	"github.com/study-notes/backend/internal/storage"
	"github.com/study-notes/backend/internal/subject"
)

// Catalog defines the metadata store operations the service needs. The
// concrete implementation lives in internal/catalog; tests substitute an
// in-memory fake.
type Catalog interface {
	Insert(ctx context.Context, note *models.Note) (int64, error)
	ListBySubject(ctx context.Context, subjectKey string) ([]models.Note, error)
	ListAll(ctx context.Context) ([]models.Note, error)
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	CountBySubject(ctx context.Context, subjectKey string) (int, error)
	CountTotal(ctx context.Context) (int, error)
}

// Stats holds aggregate note counts.
type Stats struct {
	TotalNotes   int            `json:"total_notes"`
	SubjectStats map[string]int `json:"subject_stats"`
}

// Service composes the upload pipeline and the gallery/download/stats reads.
type Service struct {
	registry   *subject.Registry
	allocator  *storage.Allocator
	normalizer *normalize.Normalizer
	files      storage.Store
	catalog    Catalog
	now        func() time.Time
}

// NewService wires a Service from its collaborators.
func NewService(registry *subject.Registry, allocator *storage.Allocator, normalizer *normalize.Normalizer, files storage.Store, catalog Catalog) *Service {
	return &Service{
		registry:   registry,
		allocator:  allocator,
		normalizer: normalizer,
		files:      files,
		catalog:    catalog,
		now:        time.Now,
	}
}

// Upload runs the full pipeline: validate, allocate a storage name,
// normalize, write to disk, then record in the catalog. The file is written
// before the catalog row so a Note is never observable without its backing
// file; the converse (file without row, after a late failure) is an accepted
// benign orphan.
func (s *Service) Upload(ctx context.Context, raw []byte, originalName, subjectKey string) (*models.Note, error) {
	if len(raw) == 0 || originalName == "" {
		return nil, ErrMissingFile
	}
	if subjectKey == "" {
		return nil, ErrMissingSubject
	}
	if !s.registry.Valid(subjectKey) {
		return nil, ErrInvalidSubject
	}

	storageName, sanitized, err := s.allocator.Allocate(originalName, subjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidSubject) {
			return nil, ErrInvalidSubject
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, originalName)
	}

	normalized, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	size, err := s.files.Write(subjectKey, storageName, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	note := &models.Note{
		StorageFilename:  storageName,
		OriginalFilename: sanitized,
		Subject:          subjectKey,
		UploadedAt:       s.now().UTC(),
		ByteSize:         size,
	}

	id, err := s.catalog.Insert(ctx, note)
	if err != nil {
		// The written file stays behind as an orphan; no row references it.
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	note.ID = id

	return note, nil
}

// ListGallery returns a subject's notes, newest first.
func (s *Service) ListGallery(ctx context.Context, subjectKey string) ([]models.Note, error) {
	if !s.registry.Valid(subjectKey) {
		return nil, ErrInvalidSubject
	}

	return s.catalog.ListBySubject(ctx, subjectKey)
}

// ResolveDownload looks up a note and verifies its backing file still
// exists, returning the note and its on-disk path.
func (s *Service) ResolveDownload(ctx context.Context, id int64) (*models.Note, string, error) {
	note, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, "", ErrNotFound
	}

	path := s.files.Path(note.Subject, note.StorageFilename)
	if !s.files.Exists(path) {
		return nil, "", ErrFileMissing
	}

	return note, path, nil
}

// Stats returns the total note count and a per-subject breakdown over the
// full registry, including zero-count subjects.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.catalog.CountTotal(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalNotes:   total,
		SubjectStats: make(map[string]int, s.registry.Len()),
	}
	for _, key := range s.registry.Keys() {
		count, err := s.catalog.CountBySubject(ctx, key)
		if err != nil {
			return nil, err
		}
		stats.SubjectStats[key] = count
	}

	return stats, nil
}

// Export returns every note in the catalog, newest first.
func (s *Service) Export(ctx context.Context) ([]models.Note, error) {
	return s.catalog.ListAll(ctx)
}
