// handlers.go - Subject browsing handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/study-notes/backend/internal/subject"
)

// NotesHandlerImpl implements the NotesHandler interface
type NotesHandlerImpl struct {
	service  NoteService
	registry *subject.Registry
}

// NewNotesHandler creates a new notes handler instance
func NewNotesHandler(service NoteService, registry *subject.Registry) NotesHandler {
	return &NotesHandlerImpl{
		service:  service,
		registry: registry,
	}
}

// HandleIndex returns the subject registry contents
func (h *NotesHandlerImpl) HandleIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subjects": h.registry.All(),
		"order":    h.registry.Keys(),
	})
}

// HandleSubjectGallery returns all notes for a subject, newest first.
// Unknown subjects redirect home rather than erroring.
func (h *NotesHandlerImpl) HandleSubjectGallery(c echo.Context) error {
	key := c.Param("subject")

	name, ok := h.registry.DisplayName(key)
	if !ok {
		return c.Redirect(http.StatusFound, "/")
	}

	list, err := h.service.ListGallery(c.Request().Context(), key)
	if err != nil {
		c.Logger().Errorf("gallery listing failed for %s: %v", key, err)
		return NewInternalError("Failed to list notes")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"subject":      key,
		"subject_name": name,
		"notes":        list,
	})
}

// HandleUploadForm describes the upload form: subjects plus upload limits
func (h *NotesHandlerImpl) HandleUploadForm(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subjects":      h.registry.All(),
		"order":         h.registry.Keys(),
		"allowed_types": []string{"PNG", "JPG", "JPEG", "GIF", "BMP"},
		"max_size":      MaxUploadBytes,
	})
}
