package handlers

import (
	"net/http"
	"strings"
	"time"

	"support_desk_go/models"
	"support_desk_go/services"

	"github.com/labstack/echo/v4"
)

// notifyQueryData is the query snapshot of a notify request. Clients may carry
// the resolution text inside it.
type notifyQueryData struct {
	models.Query
	Resolution string `json:"resolution"`
}

type notifyRequest struct {
	Type           string           `json:"type"`
	QueryData      *notifyQueryData `json:"queryData"`
	CustomTemplate *models.Template `json:"customTemplate"`
	// ScheduleDelay is in milliseconds
	ScheduleDelay int64  `json:"scheduleDelay"`
	Resolution    string `json:"resolution"`
}

func (r *notifyRequest) query() *models.Query {
	if r.QueryData == nil {
		return nil
	}
	return &r.QueryData.Query
}

// resolution prefers the top-level field over the one inside queryData
func (r *notifyRequest) resolution() string {
	if strings.TrimSpace(r.Resolution) != "" {
		return r.Resolution
	}
	if r.QueryData != nil {
		return r.QueryData.Resolution
	}
	return ""
}

// NotifyHandler sends or schedules one notification for the query in the body
func (h *Handler) NotifyHandler(c echo.Context) error {
	var req notifyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ScheduleDelay < 0 {
		return badRequest(c, "scheduleDelay must not be negative")
	}

	result, err := h.dispatcher.Dispatch(c.Request().Context(), services.DispatchRequest{
		Type:          req.Type,
		Query:         req.query(),
		Template:      req.CustomTemplate,
		ScheduleDelay: time.Duration(req.ScheduleDelay) * time.Millisecond,
		Resolution:    req.resolution(),
	})
	if err != nil {
		return respondError(c, err, "Failed to send notification")
	}
	return c.JSON(http.StatusOK, result)
}

// NotifyInfoHandler answers the introspection actions of the notification API
func (h *Handler) NotifyInfoHandler(c echo.Context) error {
	ctx := c.Request().Context()

	switch strings.TrimSpace(c.QueryParam("action")) {
	case "templates":
		templates, err := h.dispatcher.Templates(ctx)
		if err != nil {
			return respondError(c, err, "Failed to fetch templates")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":   true,
			"templates": templates,
			"config":    h.dispatcher.Config(),
		})

	case "config":
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"config":  h.dispatcher.Config(),
		})

	case "categories":
		categories, types, err := h.dispatcher.Categories(ctx)
		if err != nil {
			return respondError(c, err, "Failed to fetch categories")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":    true,
			"categories": categories,
			"types":      types,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Notification API",
		"endpoints": map[string]string{
			"POST /api/notify":                       "Send or schedule a notification",
			"GET /api/notify?action=templates":       "List active notification templates",
			"GET /api/notify?action=config":          "Show automation configuration",
			"GET /api/notify?action=categories":      "List template categories and types",
			"GET /api/notify/scheduled?queryId=<id>": "List scheduled notifications",
		},
		"types": models.DispatchTypes,
	})
}

// ScheduledNotificationsHandler lists scheduled notifications, optionally for one query
func (h *Handler) ScheduledNotificationsHandler(c echo.Context) error {
	scheduled, err := h.dispatcher.Scheduled(c.Request().Context(), strings.TrimSpace(c.QueryParam("queryId")))
	if err != nil {
		return respondError(c, err, "Failed to fetch scheduled notifications")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    scheduled,
		"count":   len(scheduled),
	})
}
