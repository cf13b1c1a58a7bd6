package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"support_desk_go/services"

	"github.com/labstack/echo/v4"
)

// ListTemplatesHandler returns templates filtered by type, category, active flag and search
func (h *Handler) ListTemplatesHandler(c echo.Context) error {
	filter := services.TemplateFilter{
		Type:     strings.TrimSpace(c.QueryParam("type")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Search:   strings.TrimSpace(c.QueryParam("search")),
	}
	if active := c.QueryParam("active"); active != "" {
		value, err := strconv.ParseBool(active)
		if err != nil {
			return badRequest(c, "active must be true or false")
		}
		// active=false lists everything
		if value {
			filter.Active = &value
		}
	}

	templates, err := h.templates.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Failed to fetch templates")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    templates,
		"count":   len(templates),
	})
}

// CreateTemplateHandler stores a new template
func (h *Handler) CreateTemplateHandler(c echo.Context) error {
	var input services.TemplateInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	template, err := h.templates.Create(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err, "Failed to create template")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    template,
		"message": "Template created successfully",
	})
}

type updateTemplateRequest struct {
	ID string `json:"id"`
	services.TemplateInput
}

// UpdateTemplateHandler merges the provided fields into the template named in the body
func (h *Handler) UpdateTemplateHandler(c echo.Context) error {
	var req updateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.ID) == "" {
		return badRequest(c, "Template ID is required")
	}

	template, err := h.templates.Update(c.Request().Context(), req.ID, req.TemplateInput)
	if err != nil {
		return respondError(c, err, "Failed to update template")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    template,
		"message": "Template updated successfully",
	})
}

// DeleteTemplateHandler removes the template given by the id query parameter
func (h *Handler) DeleteTemplateHandler(c echo.Context) error {
	id := strings.TrimSpace(c.QueryParam("id"))
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	if err := h.templates.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Failed to delete template")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Template deleted successfully",
	})
}

// PreviewTemplateHandler resolves a subject and body against sample variables
func (h *Handler) PreviewTemplateHandler(c echo.Context) error {
	var req struct {
		Subject   string            `json:"subject"`
		Content   string            `json:"content"`
		Variables map[string]string `json:"variables"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Subject == "" && req.Content == "" {
		return badRequest(c, "subject or content is required")
	}

	preview := h.templates.Preview(req.Subject, req.Content, req.Variables)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    preview,
	})
}
