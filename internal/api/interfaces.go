// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/study-notes/backend/internal/models"
	"github.com/study-notes/backend/internal/notes"
)

// NotesHandler handles subject browsing, uploads and downloads
type NotesHandler interface {
	HandleIndex(c echo.Context) error
	HandleSubjectGallery(c echo.Context) error
	HandleUploadForm(c echo.Context) error
	HandleUpload(c echo.Context) error
	HandleDownload(c echo.Context) error
}

// StatsHandler handles aggregate count and export operations
type StatsHandler interface {
	HandleStats(c echo.Context) error
	HandleExport(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// NoteService defines the service operations the handlers depend on.
// This allows mocking in tests.
type NoteService interface {
	Upload(ctx context.Context, raw []byte, originalName, subjectKey string) (*models.Note, error)
	ListGallery(ctx context.Context, subjectKey string) ([]models.Note, error)
	ResolveDownload(ctx context.Context, id int64) (*models.Note, string, error)
	Stats(ctx context.Context) (*notes.Stats, error)
	Export(ctx context.Context) ([]models.Note, error)
}
