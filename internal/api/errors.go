// errors.go - Structured error handling for API responses
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response. The wire shape is a
// single {"error": <message>} object.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Message: message,
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Message: message,
	}
}

// ErrorHandler maps every error onto the JSON error contract.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Message: http.StatusText(e.Code),
		}
	default:
		// Internal detail is logged, never returned to the caller.
		c.Logger().Errorf("unhandled error: %v", err)
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Message: "Internal server error",
		}
	}

	if err := c.JSON(apiErr.Status, apiErr); err != nil {
		c.Logger().Errorf("failed to write error response: %v", err)
	}
}
