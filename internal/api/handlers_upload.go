// handlers_upload.go - Note upload and download handlers
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/study-notes/backend/internal/notes"
)

// MaxUploadBytes is the request size cap, enforced at the transport
// boundary before any handler runs.
const MaxUploadBytes = 16 * 1024 * 1024

// User-facing upload error messages.
const (
	msgNoFile         = "No file provided"
	msgNoFileSelected = "No file selected"
	msgNoSubject      = "No subject provided"
	msgInvalidSubject = "Invalid subject"
	msgInvalidType    = "Invalid file type. Allowed: PNG, JPG, JPEG, GIF, BMP"
	msgProcessFailed  = "Failed to process image"
	msgStorageFailed  = "Failed to save file"
)

// HandleUpload accepts a multipart form with "file" and "subject" fields,
// runs the upload pipeline and returns a success payload with a redirect
// target for the subject gallery.
func (h *NotesHandlerImpl) HandleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError(msgNoFile)
	}
	if fileHeader.Filename == "" {
		return NewBadRequestError(msgNoFileSelected)
	}

	subjectKey := c.FormValue("subject")

	src, err := fileHeader.Open()
	if err != nil {
		c.Logger().Errorf("opening uploaded file: %v", err)
		return NewInternalError(msgStorageFailed)
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		c.Logger().Errorf("reading uploaded file: %v", err)
		return NewInternalError(msgStorageFailed)
	}

	note, err := h.service.Upload(c.Request().Context(), raw, fileHeader.Filename, subjectKey)
	if err != nil {
		return uploadError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "File uploaded successfully",
		"redirect": "/subject/" + note.Subject,
	})
}

// uploadError maps service failure kinds onto the HTTP error contract.
func uploadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, notes.ErrMissingFile):
		return NewBadRequestError(msgNoFileSelected)
	case errors.Is(err, notes.ErrMissingSubject):
		return NewBadRequestError(msgNoSubject)
	case errors.Is(err, notes.ErrInvalidSubject):
		return NewBadRequestError(msgInvalidSubject)
	case errors.Is(err, notes.ErrInvalidType):
		return NewBadRequestError(msgInvalidType)
	case errors.Is(err, notes.ErrProcessing):
		c.Logger().Errorf("upload processing failed: %v", err)
		return NewInternalError(msgProcessFailed)
	default:
		c.Logger().Errorf("upload failed: %v", err)
		return NewInternalError(msgStorageFailed)
	}
}

// HandleDownload streams a stored note as an attachment named after the
// original filename. A missing note or missing file redirects home.
func (h *NotesHandlerImpl) HandleDownload(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusFound, "/")
	}

	note, path, err := h.service.ResolveDownload(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, notes.ErrFileMissing) {
			c.Logger().Warnf("note %d present in catalog but file missing", id)
		}
		return c.Redirect(http.StatusFound, "/")
	}

	return c.Attachment(path, note.OriginalFilename)
}
