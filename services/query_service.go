package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"sort"
	"strings"
	"time"

	"support_desk_go/models"
	"support_desk_go/store"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrQueryNotFound     = errors.New("query not found")
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrValidation)
)

// followUpDelays maps priority to the follow-up delay
var followUpDelays = map[string]time.Duration{
	models.QueryPriorityLow:    7 * 24 * time.Hour,
	models.QueryPriorityMedium: 3 * 24 * time.Hour,
	models.QueryPriorityHigh:   24 * time.Hour,
	models.QueryPriorityUrgent: 2 * time.Hour,
}

// FollowUpDelay returns the follow-up delay for a priority; unknown priorities use medium
func FollowUpDelay(priority string) time.Duration {
	if d, ok := followUpDelays[priority]; ok {
		return d
	}
	return followUpDelays[models.QueryPriorityMedium]
}

// allowedTransitions lists forward moves; in-progress is reachable from anywhere
var allowedTransitions = map[string][]string{
	models.QueryStatusNew:          {models.QueryStatusAcknowledged, models.QueryStatusInProgress, models.QueryStatusResolved},
	models.QueryStatusAcknowledged: {models.QueryStatusInProgress, models.QueryStatusResolved},
	models.QueryStatusInProgress:   {models.QueryStatusResolved},
	models.QueryStatusResolved:     {models.QueryStatusClosed, models.QueryStatusInProgress},
	models.QueryStatusClosed:       {models.QueryStatusInProgress},
}

// CanTransition reports whether a query may move from one status to another
func CanTransition(from, to string) bool {
	if from == to || to == models.QueryStatusInProgress {
		return true
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CreateQueryInput holds the fields a customer submits
type CreateQueryInput struct {
	CustomerName  string   `json:"customerName"`
	CustomerEmail string   `json:"customerEmail"`
	Subject       string   `json:"subject"`
	Message       string   `json:"message"`
	Category      string   `json:"category"`
	Priority      string   `json:"priority"`
	CustomerPhone string   `json:"customerPhone"`
	Tags          []string `json:"tags"`
}

// UpdateQueryInput holds the mutable fields; nil means not provided
type UpdateQueryInput struct {
	Status           *string  `json:"status"`
	AssignedTo       *string  `json:"assignedTo"`
	ResponseTemplate *string  `json:"responseTemplate"`
	CustomerPhone    *string  `json:"customerPhone"`
	Tags             []string `json:"tags"`
}

// QueryFilter selects queries; empty fields match everything
type QueryFilter struct {
	Status   string
	Category string
	Priority string
	// Search is a case-insensitive substring match on name, email, subject and message
	Search string
}

// QueryService owns the query lifecycle
type QueryService struct {
	repo       *store.Repository
	dispatcher *Dispatcher
	now        func() time.Time
}

// NewQueryService creates a query service
func NewQueryService(repo *store.Repository, dispatcher *Dispatcher) *QueryService {
	return &QueryService{repo: repo, dispatcher: dispatcher, now: time.Now}
}

func validateCreateInput(input *CreateQueryInput) error {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerEmail = strings.TrimSpace(input.CustomerEmail)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Category = strings.TrimSpace(input.Category)
	input.Priority = strings.TrimSpace(input.Priority)

	var missing []string
	if input.CustomerName == "" {
		missing = append(missing, "customerName")
	}
	if input.CustomerEmail == "" {
		missing = append(missing, "customerEmail")
	}
	if input.Subject == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(input.Message) == "" {
		missing = append(missing, "message")
	}
	if input.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	if _, err := mail.ParseAddress(input.CustomerEmail); err != nil {
		return fmt.Errorf("%w: invalid customerEmail", ErrValidation)
	}
	if !models.IsValidQueryCategory(input.Category) {
		return fmt.Errorf("%w: invalid category %q", ErrValidation, input.Category)
	}
	if input.Priority == "" {
		input.Priority = models.QueryPriorityMedium
	}
	if !models.IsValidQueryPriority(input.Priority) {
		return fmt.Errorf("%w: invalid priority %q", ErrValidation, input.Priority)
	}
	return nil
}

// Create validates the input and stores a new query with status new
func (s *QueryService) Create(ctx context.Context, input CreateQueryInput) (*models.Query, error) {
	if err := validateCreateInput(&input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	query := models.Query{
		ID:            generateQueryID(now),
		CreatedAt:     now,
		UpdatedAt:     now,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		Subject:       input.Subject,
		Message:       input.Message,
		Category:      input.Category,
		Priority:      input.Priority,
		Status:        models.QueryStatusNew,
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Tags:          input.Tags,
	}

	err := s.repo.UpdateQueries(ctx, func(queries []models.Query) ([]models.Query, error) {
		for _, q := range queries {
			if q.ID == query.ID {
				return nil, fmt.Errorf("%w: duplicate query id %s", store.ErrStorage, query.ID)
			}
		}
		return append(queries, query), nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Query %s created (%s, %s)", query.ID, query.Category, query.Priority)
	return &query, nil
}

// Submit runs the full intake flow: create, acknowledge, schedule the follow-up and persist
func (s *QueryService) Submit(ctx context.Context, input CreateQueryInput) (*models.Query, *DispatchResult, error) {
	query, err := s.Create(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	result, dispatchErr := s.dispatcher.Dispatch(ctx, DispatchRequest{
		Type:  models.TemplateTypeAcknowledgment,
		Query: query,
	})
	if dispatchErr != nil {
		log.Printf("[WARNING] Acknowledgment for query %s failed: %v", query.ID, dispatchErr)
	}

	now := s.now().UTC()
	err = s.mutate(ctx, query.ID, func(q *models.Query) error {
		if dispatchErr == nil {
			q.AutoResponseSent = true
			q.ResponseTemplate = result.Template.ID
		}
		s.ScheduleFollowUp(q, now)
		q.UpdatedAt = now
		*query = *q
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return query, result, nil
}

// ScheduleFollowUp sets followUpScheduled from the priority delay table
func (s *QueryService) ScheduleFollowUp(q *models.Query, now time.Time) {
	followUp := now.Add(FollowUpDelay(q.Priority))
	q.FollowUpScheduled = &followUp
	log.Printf("[INFO] Follow-up for %s planned at %s", q.CustomerEmail, followUp.Format(time.RFC3339))
}

// Get returns one query
func (s *QueryService) Get(ctx context.Context, id string) (*models.Query, error) {
	queries, err := s.repo.Queries(ctx)
	if err != nil {
		return nil, err
	}
	for _, q := range queries {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, ErrQueryNotFound
}

// List returns the queries matching every filter, newest first
func (s *QueryService) List(ctx context.Context, filter QueryFilter) ([]models.Query, error) {
	queries, err := s.repo.Queries(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := []models.Query{}
	for _, q := range queries {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if filter.Category != "" && q.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && q.Priority != filter.Priority {
			continue
		}
		if search != "" && !matchesSearch(q, search) {
			continue
		}
		result = append(result, q)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func matchesSearch(q models.Query, search string) bool {
	for _, field := range []string{q.CustomerName, q.CustomerEmail, q.Subject, q.Message} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// Update applies the provided fields. Moving to resolved or closed cancels pending
// scheduled notifications for the query.
func (s *QueryService) Update(ctx context.Context, id string, input UpdateQueryInput) (*models.Query, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: query id is required", ErrValidation)
	}

	status := ""
	if input.Status != nil {
		status = strings.TrimSpace(*input.Status)
		if status != "" && !models.IsValidQueryStatus(status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
		}
	}

	var updated models.Query
	err := s.mutate(ctx, id, func(q *models.Query) error {
		if status != "" {
			if !CanTransition(q.Status, status) {
				return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, q.Status, status)
			}
			q.Status = status
		}
		if input.AssignedTo != nil {
			q.AssignedTo = strings.TrimSpace(*input.AssignedTo)
		}
		if input.ResponseTemplate != nil {
			q.ResponseTemplate = strings.TrimSpace(*input.ResponseTemplate)
		}
		if input.CustomerPhone != nil {
			q.CustomerPhone = strings.TrimSpace(*input.CustomerPhone)
		}
		if input.Tags != nil {
			q.Tags = input.Tags
		}
		q.UpdatedAt = s.now().UTC()
		if q.UpdatedAt.Before(q.CreatedAt) {
			q.UpdatedAt = q.CreatedAt
		}
		updated = *q
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !updated.IsOpen() {
		s.cancelScheduled(ctx, updated.ID)
	}
	return &updated, nil
}

// Delete removes a query and cancels its pending notifications
func (s *QueryService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: query id is required", ErrValidation)
	}

	err := s.repo.UpdateQueries(ctx, func(queries []models.Query) ([]models.Query, error) {
		for i, q := range queries {
			if q.ID == id {
				return append(queries[:i], queries[i+1:]...), nil
			}
		}
		return nil, ErrQueryNotFound
	})
	if err != nil {
		return err
	}

	s.cancelScheduled(ctx, id)
	return nil
}

// mutate applies fn to one stored query and persists the collection
func (s *QueryService) mutate(ctx context.Context, id string, fn func(q *models.Query) error) error {
	return s.repo.UpdateQueries(ctx, func(queries []models.Query) ([]models.Query, error) {
		for i := range queries {
			if queries[i].ID == id {
				if err := fn(&queries[i]); err != nil {
					return nil, err
				}
				return queries, nil
			}
		}
		return nil, ErrQueryNotFound
	})
}

func (s *QueryService) cancelScheduled(ctx context.Context, id string) {
	if s.dispatcher == nil {
		return
	}
	if _, err := s.dispatcher.Cancel(ctx, id); err != nil {
		log.Printf("[WARNING] Failed to cancel scheduled notifications for %s: %v", id, err)
	}
}
