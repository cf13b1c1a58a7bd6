package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"support_desk_go/models"
)

// ErrStorage marks a failed write to durable storage
var ErrStorage = errors.New("storage failure")

// ErrUnavailable is returned alongside an empty (or default) collection when the
// backing storage could not be read.
var ErrUnavailable = errors.New("storage unavailable")

// Store loads and persists whole collections. A missing or corrupt collection
// loads as empty, except templates which seed defaults. When the storage itself
// cannot be read the degraded collection comes back with ErrUnavailable.
type Store interface {
	LoadQueries(ctx context.Context) ([]models.Query, error)
	SaveQueries(ctx context.Context, queries []models.Query) error
	LoadTemplates(ctx context.Context) ([]models.Template, error)
	SaveTemplates(ctx context.Context, templates []models.Template) error
	LoadSchedule(ctx context.Context) ([]models.ScheduledNotification, error)
	SaveSchedule(ctx context.Context, notifications []models.ScheduledNotification) error
}

// Repository serializes read-modify-write cycles per collection so concurrent
// requests cannot overwrite each other's changes.
type Repository struct {
	store Store

	queriesMu   sync.RWMutex
	templatesMu sync.Mutex // loading may seed and write defaults
	scheduleMu  sync.RWMutex
}

// NewRepository wraps a Store
func NewRepository(s Store) *Repository {
	return &Repository{store: s}
}

// readable drops ErrUnavailable so readers see the degraded collection
func readable(err error) error {
	if errors.Is(err, ErrUnavailable) {
		return nil
	}
	return err
}

// writable refuses to save over a collection that could not be read
func writable(err error) error {
	if errors.Is(err, ErrUnavailable) {
		return fmt.Errorf("%w: refusing to overwrite unread collection: %w", ErrStorage, err)
	}
	return err
}

// Queries returns a snapshot of the query collection
func (r *Repository) Queries(ctx context.Context) ([]models.Query, error) {
	r.queriesMu.RLock()
	defer r.queriesMu.RUnlock()
	queries, err := r.store.LoadQueries(ctx)
	return queries, readable(err)
}

// UpdateQueries loads the collection, applies fn and saves the result while holding
// the collection lock. Nothing is saved when fn returns an error.
func (r *Repository) UpdateQueries(ctx context.Context, fn func([]models.Query) ([]models.Query, error)) error {
	r.queriesMu.Lock()
	defer r.queriesMu.Unlock()

	queries, err := r.store.LoadQueries(ctx)
	if err != nil {
		return writable(err)
	}
	updated, err := fn(queries)
	if err != nil {
		return err
	}
	return r.store.SaveQueries(ctx, updated)
}

// Templates returns a snapshot of the template collection
func (r *Repository) Templates(ctx context.Context) ([]models.Template, error) {
	r.templatesMu.Lock()
	defer r.templatesMu.Unlock()
	templates, err := r.store.LoadTemplates(ctx)
	return templates, readable(err)
}

// UpdateTemplates is the template counterpart of UpdateQueries
func (r *Repository) UpdateTemplates(ctx context.Context, fn func([]models.Template) ([]models.Template, error)) error {
	r.templatesMu.Lock()
	defer r.templatesMu.Unlock()

	templates, err := r.store.LoadTemplates(ctx)
	if err != nil {
		return writable(err)
	}
	updated, err := fn(templates)
	if err != nil {
		return err
	}
	return r.store.SaveTemplates(ctx, updated)
}

// Schedule returns a snapshot of the scheduled notifications
func (r *Repository) Schedule(ctx context.Context) ([]models.ScheduledNotification, error) {
	r.scheduleMu.RLock()
	defer r.scheduleMu.RUnlock()
	notifications, err := r.store.LoadSchedule(ctx)
	return notifications, readable(err)
}

// UpdateSchedule is the scheduled-notification counterpart of UpdateQueries
func (r *Repository) UpdateSchedule(ctx context.Context, fn func([]models.ScheduledNotification) ([]models.ScheduledNotification, error)) error {
	r.scheduleMu.Lock()
	defer r.scheduleMu.Unlock()

	notifications, err := r.store.LoadSchedule(ctx)
	if err != nil {
		return writable(err)
	}
	updated, err := fn(notifications)
	if err != nil {
		return err
	}
	return r.store.SaveSchedule(ctx, updated)
}
