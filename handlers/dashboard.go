package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DashboardStatsHandler returns the query counters shown on the dashboard
func (h *Handler) DashboardStatsHandler(c echo.Context) error {
	stats, err := h.queries.Stats(c.Request().Context(), h.now())
	if err != nil {
		return respondError(c, err, "Failed to fetch stats")
	}
	return c.JSON(http.StatusOK, stats)
}
