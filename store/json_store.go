package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"support_desk_go/models"
)

// Document names
const (
	QueriesDocument   = "queries.json"
	TemplatesDocument = "response-templates.json"
	ScheduleDocument  = "scheduled-notifications.json"
)

// JSONStore keeps each collection as one pretty-printed JSON document on a Backend
type JSONStore struct {
	backend Backend
	now     func() time.Time
}

// NewJSONStore creates a JSON document store on the given backend
func NewJSONStore(backend Backend) *JSONStore {
	return &JSONStore{backend: backend, now: time.Now}
}

type documentState int

const (
	documentMissing documentState = iota
	documentLoaded
	documentCorrupt
	documentUnavailable
)

// readDocument decodes a collection; failures degrade to an empty slice
func readDocument[T any](ctx context.Context, backend Backend, name string) ([]T, documentState) {
	data, err := backend.Read(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return []T{}, documentMissing
		}
		log.Printf("[WARNING] Failed to read %s, treating as empty: %v", name, err)
		return []T{}, documentUnavailable
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[WARNING] Failed to parse %s, treating as empty: %v", name, err)
		return []T{}, documentCorrupt
	}
	if items == nil {
		items = []T{}
	}
	return items, documentLoaded
}

func unavailable(name string) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, name)
}

func writeDocument[T any](ctx context.Context, backend Backend, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrStorage, name, err)
	}
	if err := backend.Write(ctx, name, data); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// LoadQueries returns stored queries, or an empty slice
func (s *JSONStore) LoadQueries(ctx context.Context) ([]models.Query, error) {
	queries, state := readDocument[models.Query](ctx, s.backend, QueriesDocument)
	if state == documentUnavailable {
		return queries, unavailable(QueriesDocument)
	}
	return queries, nil
}

// SaveQueries overwrites the query document
func (s *JSONStore) SaveQueries(ctx context.Context, queries []models.Query) error {
	return writeDocument(ctx, s.backend, QueriesDocument, queries)
}

// LoadTemplates returns stored templates. When the document has never been written
// the default set is persisted and returned. A corrupt or unreadable document
// yields the defaults without overwriting it.
func (s *JSONStore) LoadTemplates(ctx context.Context) ([]models.Template, error) {
	templates, state := readDocument[models.Template](ctx, s.backend, TemplatesDocument)
	switch state {
	case documentLoaded:
		return templates, nil
	case documentCorrupt:
		return models.DefaultTemplates(s.now().UTC()), nil
	case documentUnavailable:
		return models.DefaultTemplates(s.now().UTC()), unavailable(TemplatesDocument)
	}

	defaults := models.DefaultTemplates(s.now().UTC())
	if err := writeDocument(ctx, s.backend, TemplatesDocument, defaults); err != nil {
		log.Printf("[WARNING] Failed to persist default templates: %v", err)
	} else {
		log.Printf("[INFO] Created default template set (%d templates)", len(defaults))
	}
	return defaults, nil
}

// SaveTemplates overwrites the template document
func (s *JSONStore) SaveTemplates(ctx context.Context, templates []models.Template) error {
	return writeDocument(ctx, s.backend, TemplatesDocument, templates)
}

// LoadSchedule returns stored scheduled notifications, or an empty slice
func (s *JSONStore) LoadSchedule(ctx context.Context) ([]models.ScheduledNotification, error) {
	notifications, state := readDocument[models.ScheduledNotification](ctx, s.backend, ScheduleDocument)
	if state == documentUnavailable {
		return notifications, unavailable(ScheduleDocument)
	}
	return notifications, nil
}

// SaveSchedule overwrites the scheduled-notification document
func (s *JSONStore) SaveSchedule(ctx context.Context, notifications []models.ScheduledNotification) error {
	return writeDocument(ctx, s.backend, ScheduleDocument, notifications)
}
