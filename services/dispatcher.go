package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"support_desk_go/config"
	"support_desk_go/models"
	"support_desk_go/store"
)

// ErrDelivery wraps failures reported by the delivery channel
var ErrDelivery = errors.New("delivery failed")

// responseTimes maps priority to the promised response time
var responseTimes = map[string]string{
	models.QueryPriorityUrgent: "2 hours",
	models.QueryPriorityHigh:   "4 hours",
	models.QueryPriorityMedium: "24 hours",
	models.QueryPriorityLow:    "48 hours",
}

// ResponseTime returns the response time promised for a priority
func ResponseTime(priority string) string {
	if rt, ok := responseTimes[priority]; ok {
		return rt
	}
	return "24 hours"
}

// configuredTemplateIDs maps notification types to their built-in template
var configuredTemplateIDs = map[string]string{
	models.TemplateTypeAcknowledgment: models.TemplateIDAcknowledgment,
	models.TemplateTypeResolved:       models.TemplateIDResolved,
	models.TemplateTypeFollowUp:       models.TemplateIDFollowUp,
}

const defaultResolution = "Your issue has been addressed by our team."

// DispatchRequest asks for one notification about a query
type DispatchRequest struct {
	Type  string
	Query *models.Query
	// Template overrides template selection when set
	Template *models.Template
	// ScheduleDelay overrides the configured delay for the type when positive
	ScheduleDelay time.Duration
	Resolution    string
}

// TemplateRef identifies the template a notification was rendered from
type TemplateRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Subject  string `json:"subject"`
}

// DispatchResult describes a sent or scheduled notification
type DispatchResult struct {
	Success   bool        `json:"success"`
	Type      string      `json:"type"`
	TicketID  string      `json:"ticketId"`
	To        string      `json:"to"`
	Subject   string      `json:"subject"`
	Template  TemplateRef `json:"template"`
	MessageID string      `json:"messageId,omitempty"`
	SentAt    *time.Time  `json:"sentAt,omitempty"`
	Error     string      `json:"error,omitempty"`

	Scheduled    bool       `json:"scheduled,omitempty"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	ScheduleID   string     `json:"scheduleId,omitempty"`

	// FollowUpScheduledFor is set when a successful acknowledgment queued a follow-up
	FollowUpScheduledFor *time.Time `json:"followUpScheduledFor,omitempty"`

	// Rendered bodies, kept out of API responses
	HTMLBody string `json:"-"`
	TextBody string `json:"-"`
}

// AutomationConfig is the introspectable automation setup
type AutomationConfig struct {
	Enabled bool `json:"enabled"`
	Delays  struct {
		Acknowledgment int64 `json:"acknowledgment"`
		FollowUp       int64 `json:"followUp"`
	} `json:"delays"`
	Templates map[string]string `json:"templates"`
}

// Dispatcher renders templates for queries and hands them to a Sender, either
// immediately or through the persisted schedule.
type Dispatcher struct {
	repo   *store.Repository
	sender Sender
	cfg    *config.Config
	now    func() time.Time
}

// NewDispatcher creates a dispatcher
func NewDispatcher(repo *store.Repository, sender Sender, cfg *config.Config) *Dispatcher {
	return &Dispatcher{repo: repo, sender: sender, cfg: cfg, now: time.Now}
}

// Config returns the automation configuration
func (d *Dispatcher) Config() AutomationConfig {
	ac := AutomationConfig{Enabled: d.cfg.AutomationEnabled, Templates: make(map[string]string)}
	ac.Delays.Acknowledgment = d.cfg.AckDelay.Milliseconds()
	ac.Delays.FollowUp = d.cfg.FollowUpDelay.Milliseconds()
	for k, v := range configuredTemplateIDs {
		ac.Templates[k] = v
	}
	return ac
}

// Templates returns the active templates a dispatch can select from
func (d *Dispatcher) Templates(ctx context.Context) ([]models.Template, error) {
	templates, err := d.repo.Templates(ctx)
	if err != nil {
		return nil, err
	}
	active := []models.Template{}
	for _, t := range templates {
		if t.IsActive && models.IsDispatchType(t.Type) {
			active = append(active, t)
		}
	}
	return active, nil
}

// Categories lists the distinct categories and types of stored templates
func (d *Dispatcher) Categories(ctx context.Context) (categories []string, types []string, err error) {
	templates, err := d.repo.Templates(ctx)
	if err != nil {
		return nil, nil, err
	}
	seenCategory := make(map[string]bool)
	seenType := make(map[string]bool)
	categories, types = []string{}, []string{}
	for _, t := range templates {
		if t.Category != "" && !seenCategory[t.Category] {
			seenCategory[t.Category] = true
			categories = append(categories, t.Category)
		}
		if t.Type != "" && !seenType[t.Type] {
			seenType[t.Type] = true
			types = append(types, t.Type)
		}
	}
	sort.Strings(categories)
	sort.Strings(types)
	return categories, types, nil
}

// Dispatch validates the request, then sends the notification now or schedules it
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error) {
	notifType := models.NormalizeTemplateType(req.Type)
	if notifType == "" {
		return nil, fmt.Errorf("%w: type is required", ErrValidation)
	}
	if !models.IsDispatchType(notifType) {
		return nil, fmt.Errorf("%w: unsupported notification type %q", ErrValidation, req.Type)
	}
	if req.Query == nil {
		return nil, fmt.Errorf("%w: queryData is required", ErrValidation)
	}
	if strings.TrimSpace(req.Query.CustomerEmail) == "" {
		return nil, fmt.Errorf("%w: queryData.customerEmail is required", ErrValidation)
	}

	snapshot := *req.Query
	storedID := snapshot.ID
	if snapshot.ID == "" {
		snapshot.ID = generateTicketID()
	}

	delay := req.ScheduleDelay
	if delay <= 0 {
		delay = d.typeDelay(notifType)
	}

	if delay > 0 {
		fireAt := d.now().UTC().Add(delay)
		scheduled, err := d.enqueue(ctx, models.ScheduledNotification{
			QueryID:    storedID,
			Type:       notifType,
			FireAt:     fireAt,
			Query:      snapshot,
			Template:   req.Template,
			Resolution: req.Resolution,
		})
		if err != nil {
			return nil, err
		}

		rendered := d.render(ctx, notifType, snapshot, req.Resolution, req.Template)
		rendered.Success = true
		rendered.Scheduled = true
		rendered.ScheduledFor = &fireAt
		rendered.ScheduleID = scheduled.ID
		log.Printf("[INFO] %s notification for %s scheduled at %s", notifType, snapshot.CustomerEmail, fireAt.Format(time.RFC3339))
		return rendered, nil
	}

	result, err := d.deliver(ctx, notifType, snapshot, req.Resolution, req.Template)
	if err != nil {
		return result, err
	}

	if notifType == models.TemplateTypeAcknowledgment {
		result.FollowUpScheduledFor = d.scheduleAutomaticFollowUp(ctx, storedID, snapshot)
	}
	return result, nil
}

func (d *Dispatcher) typeDelay(notifType string) time.Duration {
	switch notifType {
	case models.TemplateTypeAcknowledgment:
		return d.cfg.AckDelay
	case models.TemplateTypeFollowUp:
		return d.cfg.FollowUpDelay
	}
	return 0
}

// scheduleAutomaticFollowUp queues the follow-up that trails a delivered acknowledgment
func (d *Dispatcher) scheduleAutomaticFollowUp(ctx context.Context, queryID string, snapshot models.Query) *time.Time {
	if !d.cfg.AutomationEnabled {
		return nil
	}
	fireAt := d.now().UTC().Add(d.cfg.FollowUpDelay)
	if _, err := d.enqueue(ctx, models.ScheduledNotification{
		QueryID: queryID,
		Type:    models.TemplateTypeFollowUp,
		FireAt:  fireAt,
		Query:   snapshot,
	}); err != nil {
		log.Printf("[WARNING] Failed to schedule follow-up for %s: %v", snapshot.ID, err)
		return nil
	}
	return &fireAt
}

// deliver renders and sends a notification immediately
func (d *Dispatcher) deliver(ctx context.Context, notifType string, q models.Query, resolution string, override *models.Template) (*DispatchResult, error) {
	result := d.render(ctx, notifType, q, resolution, override)

	messageID, err := d.sender.Send(ctx, &Email{
		To:       []string{q.CustomerEmail},
		Subject:  result.Subject,
		HTMLBody: result.HTMLBody,
		TextBody: result.TextBody,
	})
	if err != nil {
		result.Error = err.Error()
		log.Printf("[WARNING] Failed to deliver %s notification for ticket %s: %v", notifType, result.TicketID, err)
		return result, fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	sentAt := d.now().UTC()
	result.Success = true
	result.MessageID = messageID
	result.SentAt = &sentAt
	return result, nil
}

// render selects a template and resolves it against the query
func (d *Dispatcher) render(ctx context.Context, notifType string, q models.Query, resolution string, override *models.Template) *DispatchResult {
	var templates []models.Template
	if override == nil {
		loaded, err := d.repo.Templates(ctx)
		if err != nil {
			log.Printf("[WARNING] Failed to load templates, using built-in defaults: %v", err)
		}
		templates = loaded
	}

	tmpl := SelectTemplate(templates, notifType, q.Category, override)
	vars := d.variables(q, resolution)

	html, text := tmpl.Content, tmpl.TextContent
	if text == "" && !strings.Contains(html, "<") {
		// Plain text template
		html, text = "", tmpl.Content
	}

	return &DispatchResult{
		Type:     notifType,
		TicketID: vars["ticketId"],
		To:       q.CustomerEmail,
		Subject:  Resolve(tmpl.Subject, vars),
		HTMLBody: Resolve(html, vars),
		TextBody: Resolve(text, vars),
		Template: TemplateRef{
			ID:       tmpl.ID,
			Name:     tmpl.Name,
			Category: tmpl.Category,
			Subject:  tmpl.Subject,
		},
	}
}

// SelectTemplate picks the template for a notification: the override, then an
// active template of the type for the category, then the configured template id,
// then the built-in default. Templates without a body fall back to an inline message.
func SelectTemplate(templates []models.Template, notifType, category string, override *models.Template) models.Template {
	selected := func() models.Template {
		if override != nil {
			return *override
		}
		if category != "" {
			for _, t := range templates {
				if t.IsActive && t.Type == notifType && t.Category == category {
					return t
				}
			}
		}
		if id, ok := configuredTemplateIDs[notifType]; ok {
			for _, t := range templates {
				if t.IsActive && t.ID == id {
					return t
				}
			}
		}
		return models.DefaultDispatchTemplate(notifType)
	}()

	if strings.TrimSpace(selected.Content) == "" && strings.TrimSpace(selected.TextContent) == "" {
		return inlineFallbackTemplate(selected)
	}
	if strings.TrimSpace(selected.Subject) == "" {
		selected.Subject = "Re: {subject} - Ticket #{ticketId}"
	}
	return selected
}

func inlineFallbackTemplate(t models.Template) models.Template {
	subject := t.Subject
	if strings.TrimSpace(subject) == "" {
		subject = "Re: {subject} - Ticket #{ticketId}"
	}
	return models.Template{
		ID:      t.ID,
		Name:    "Inline fallback",
		Subject: subject,
		TextContent: "Dear {customerName},\n\nThank you for contacting us regarding \"{subject}\". " +
			"Your ticket number is #{ticketId}.\n\nBest regards,\nCustomer Support Team",
	}
}

// variables builds the placeholder values for a query
func (d *Dispatcher) variables(q models.Query, resolution string) map[string]string {
	now := d.now()
	ticketID := q.ID
	if ticketID == "" {
		ticketID = generateTicketID()
	}

	customerName := orDefault(q.CustomerName, "Valued Customer")
	subject := orDefault(q.Subject, "General Inquiry")
	priority := orDefault(q.Priority, models.QueryPriorityMedium)
	agent := orDefault(q.AssignedTo, "Customer Support Team")

	submissionDate := now.Format("1/2/2006")
	if !q.CreatedAt.IsZero() {
		submissionDate = q.CreatedAt.Format("1/2/2006")
	}

	return map[string]string{
		"customerName":     customerName,
		"customerEmail":    q.CustomerEmail,
		"ticketId":         ticketID,
		"queryId":          ticketID,
		"subject":          subject,
		"querySubject":     subject,
		"message":          q.Message,
		"category":         q.Category,
		"queryCategory":    q.Category,
		"priority":         priority,
		"responseTime":     ResponseTime(priority),
		"resolution":       orDefault(resolution, defaultResolution),
		"feedbackUrl":      strings.TrimRight(d.cfg.AppURL, "/") + "/feedback/" + ticketID,
		"currentDate":      now.Format("1/2/2006"),
		"submissionDate":   submissionDate,
		"currentStatus":    orDefault(q.Status, models.QueryStatusNew),
		"assignedTo":       agent,
		"supportAgentName": agent,
		"supportEmail":     d.cfg.SupportEmail,
		"supportPhone":     d.cfg.SupportPhone,
		"companyName":      d.cfg.CompanyName,
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
