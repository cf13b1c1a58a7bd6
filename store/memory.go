package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"support_desk_go/models"
)

// MemoryStore keeps collections in process memory. Values are deep-copied through
// JSON so callers never share slices with the store.
type MemoryStore struct {
	queries   []byte
	templates []byte
	schedule  []byte
	now       func() time.Time

	// FailWrites makes every save return ErrStorage
	FailWrites bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func decodeCopy[T any](data []byte) []T {
	items := []T{}
	if data != nil {
		_ = json.Unmarshal(data, &items)
	}
	return items
}

func (m *MemoryStore) encode(items any) ([]byte, error) {
	if m.FailWrites {
		return nil, fmt.Errorf("%w: writes disabled", ErrStorage)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return data, nil
}

// LoadQueries returns a copy of the stored queries
func (m *MemoryStore) LoadQueries(ctx context.Context) ([]models.Query, error) {
	return decodeCopy[models.Query](m.queries), nil
}

// SaveQueries replaces the stored queries
func (m *MemoryStore) SaveQueries(ctx context.Context, queries []models.Query) error {
	data, err := m.encode(queries)
	if err != nil {
		return err
	}
	m.queries = data
	return nil
}

// LoadTemplates returns a copy of the stored templates, seeding defaults once
func (m *MemoryStore) LoadTemplates(ctx context.Context) ([]models.Template, error) {
	if m.templates == nil {
		defaults := models.DefaultTemplates(m.now().UTC())
		data, err := json.Marshal(defaults)
		if err != nil {
			return defaults, nil
		}
		m.templates = data
	}
	return decodeCopy[models.Template](m.templates), nil
}

// SaveTemplates replaces the stored templates
func (m *MemoryStore) SaveTemplates(ctx context.Context, templates []models.Template) error {
	data, err := m.encode(templates)
	if err != nil {
		return err
	}
	m.templates = data
	return nil
}

// LoadSchedule returns a copy of the stored scheduled notifications
func (m *MemoryStore) LoadSchedule(ctx context.Context) ([]models.ScheduledNotification, error) {
	return decodeCopy[models.ScheduledNotification](m.schedule), nil
}

// SaveSchedule replaces the stored scheduled notifications
func (m *MemoryStore) SaveSchedule(ctx context.Context, notifications []models.ScheduledNotification) error {
	data, err := m.encode(notifications)
	if err != nil {
		return err
	}
	m.schedule = data
	return nil
}
