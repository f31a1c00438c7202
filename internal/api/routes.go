// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/study-notes/backend/internal/subject"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Service  NoteService
	Registry *subject.Registry
	Version  string
}

// Handlers holds all handler instances
type Handlers struct {
	Notes  NotesHandler
	Stats  StatsHandler
	Health HealthHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Notes:  NewNotesHandler(deps.Service, deps.Registry),
		Stats:  NewStatsHandler(deps.Service),
		Health: NewHealthHandler(deps.Version),
	}
}

// RegisterRoutes registers all routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/", handlers.Notes.HandleIndex)
	e.GET("/subject/:subject", handlers.Notes.HandleSubjectGallery)
	e.GET("/upload", handlers.Notes.HandleUploadForm)
	e.POST("/upload", handlers.Notes.HandleUpload)
	e.GET("/download/:id", handlers.Notes.HandleDownload)

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.GET("/stats", handlers.Stats.HandleStats)
	apiGroup.GET("/notes/export", handlers.Stats.HandleExport)
}
