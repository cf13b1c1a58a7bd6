package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"support_desk_go/services"

	"github.com/labstack/echo/v4"
)

func queryFilterFromRequest(c echo.Context) services.QueryFilter {
	param := func(name string) string {
		value := strings.TrimSpace(c.QueryParam(name))
		if value == "all" {
			return ""
		}
		return value
	}
	return services.QueryFilter{
		Status:   param("status"),
		Category: param("category"),
		Priority: param("priority"),
		Search:   strings.TrimSpace(c.QueryParam("search")),
	}
}

// ListQueriesHandler returns queries matching the status, category, priority and search filters
func (h *Handler) ListQueriesHandler(c echo.Context) error {
	queries, err := h.queries.List(c.Request().Context(), queryFilterFromRequest(c))
	if err != nil {
		return respondError(c, err, "Failed to fetch queries")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"queries": queries,
		"total":   len(queries),
	})
}

// GetQueryHandler returns a single query
func (h *Handler) GetQueryHandler(c echo.Context) error {
	query, err := h.queries.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Failed to fetch query")
	}
	return c.JSON(http.StatusOK, query)
}

// CreateQueryHandler stores a new query and sends the acknowledgment
func (h *Handler) CreateQueryHandler(c echo.Context) error {
	var input services.CreateQueryInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	query, _, err := h.queries.Submit(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err, "Failed to create query")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":          "Query submitted successfully",
		"query":            query,
		"autoResponseSent": query.AutoResponseSent,
	})
}

type updateQueryRequest struct {
	ID string `json:"id"`
	services.UpdateQueryInput
}

// UpdateQueryHandler applies a partial update to the query named in the body
func (h *Handler) UpdateQueryHandler(c echo.Context) error {
	var req updateQueryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.ID) == "" {
		return badRequest(c, "Query ID is required")
	}

	query, err := h.queries.Update(c.Request().Context(), req.ID, req.UpdateQueryInput)
	if err != nil {
		return respondError(c, err, "Failed to update query")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Query updated successfully",
		"query":   query,
	})
}

// DeleteQueryHandler removes the query given by the id query parameter
func (h *Handler) DeleteQueryHandler(c echo.Context) error {
	id := strings.TrimSpace(c.QueryParam("id"))
	if id == "" {
		return badRequest(c, "Query ID is required")
	}

	if err := h.queries.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Failed to delete query")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Query deleted successfully"})
}

// DraftReplyHandler asks the AI drafter for a suggested reply to a query
func (h *Handler) DraftReplyHandler(c echo.Context) error {
	var req struct {
		Tone string `json:"tone"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx := c.Request().Context()
	query, err := h.queries.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err, "Failed to fetch query")
	}

	draft, err := h.drafter.Draft(ctx, *query, req.Tone)
	if err != nil {
		return respondError(c, err, "Failed to generate response")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"draft":   draft,
		"tone":    services.NormalizeTone(req.Tone),
	})
}

// ExportQueriesHandler downloads the filtered queries as a spreadsheet
func (h *Handler) ExportQueriesHandler(c echo.Context) error {
	buf, err := h.queries.ExportXLSX(c.Request().Context(), queryFilterFromRequest(c))
	if err != nil {
		return respondError(c, err, "Failed to export queries")
	}

	filename := fmt.Sprintf("queries_%s.xlsx", h.now().Format("20060102_150405"))
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+filename)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
