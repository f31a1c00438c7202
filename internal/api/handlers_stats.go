// handlers_stats.go - Aggregate stats and export handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// StatsHandlerImpl implements the StatsHandler interface
type StatsHandlerImpl struct {
	service NoteService
}

// NewStatsHandler creates a new stats handler instance
func NewStatsHandler(service NoteService) StatsHandler {
	return &StatsHandlerImpl{
		service: service,
	}
}

// HandleStats returns the total note count and a per-subject breakdown
func (h *StatsHandlerImpl) HandleStats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("stats query failed: %v", err)
		return NewInternalError("Failed to compute stats")
	}

	return c.JSON(http.StatusOK, stats)
}

// HandleExport returns the full catalog as a msgpack-encoded note list,
// which keeps bulk transfers compact for large catalogs.
func (h *StatsHandlerImpl) HandleExport(c echo.Context) error {
	list, err := h.service.Export(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("export query failed: %v", err)
		return NewInternalError("Failed to export notes")
	}

	encoded, err := msgpack.Marshal(list)
	if err != nil {
		c.Logger().Errorf("export encoding failed: %v", err)
		return NewInternalError("Failed to export notes")
	}

	return c.Blob(http.StatusOK, "application/x-msgpack", encoded)
}
