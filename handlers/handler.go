package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"support_desk_go/middleware"
	"support_desk_go/services"

	"github.com/labstack/echo/v4"
)

// Handler serves the JSON API over the support desk services
type Handler struct {
	queries    *services.QueryService
	templates  *services.TemplateService
	dispatcher *services.Dispatcher
	drafter    *services.Drafter
	now        func() time.Time
}

// NewHandler creates a handler. drafter may be nil when AI drafting is not configured.
func NewHandler(queries *services.QueryService, templates *services.TemplateService, dispatcher *services.Dispatcher, drafter *services.Drafter) *Handler {
	return &Handler{
		queries:    queries,
		templates:  templates,
		dispatcher: dispatcher,
		drafter:    drafter,
		now:        time.Now,
	}
}

// Limiters are the rate limiters applied to public write endpoints
type Limiters struct {
	Submissions *middleware.RateLimiter
	Notify      *middleware.RateLimiter
}

// RegisterRoutes mounts every API route on e
func (h *Handler) RegisterRoutes(e *echo.Echo, limiters Limiters) {
	e.GET("/health", HealthHandler)

	api := e.Group("/api")

	api.GET("/queries", h.ListQueriesHandler)
	api.GET("/queries/export", h.ExportQueriesHandler)
	api.GET("/queries/:id", h.GetQueryHandler)
	api.POST("/queries", h.CreateQueryHandler, limit(limiters.Submissions)...)
	api.PUT("/queries", h.UpdateQueryHandler)
	api.DELETE("/queries", h.DeleteQueryHandler)
	api.POST("/queries/:id/draft", h.DraftReplyHandler)

	api.GET("/templates", h.ListTemplatesHandler)
	api.POST("/templates", h.CreateTemplateHandler)
	api.PUT("/templates", h.UpdateTemplateHandler)
	api.DELETE("/templates", h.DeleteTemplateHandler)
	api.POST("/templates/preview", h.PreviewTemplateHandler)

	api.GET("/notify", h.NotifyInfoHandler)
	api.POST("/notify", h.NotifyHandler, limit(limiters.Notify)...)
	api.GET("/notify/scheduled", h.ScheduledNotificationsHandler)

	api.GET("/dashboard/stats", h.DashboardStatsHandler)
}

func limit(rl *middleware.RateLimiter) []echo.MiddlewareFunc {
	if rl == nil {
		return nil
	}
	return []echo.MiddlewareFunc{rl.Middleware()}
}

// HealthHandler reports liveness
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// respondError maps service errors onto status codes. message is used for
// unexpected failures, whose cause goes into details.
func respondError(c echo.Context, err error, message string) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrQueryNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Query not found"})
	case errors.Is(err, services.ErrTemplateNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Template not found"})
	case errors.Is(err, services.ErrDrafterUnavailable):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}

	log.Printf("[WARNING] %s %s: %s: %v", c.Request().Method, c.Path(), message, err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: message, Details: err.Error()})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: message})
}
