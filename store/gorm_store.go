package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"support_desk_go/models"

	"gorm.io/gorm"
)

// GormStore keeps each collection in its own table. Saves replace the table
// contents inside a transaction.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a store on an open gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// Migrate creates or updates the tables for every collection
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&models.Query{}, &models.Template{}, &models.ScheduledNotification{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// LoadQueries returns stored queries, or an empty slice
func (s *GormStore) LoadQueries(ctx context.Context) ([]models.Query, error) {
	var queries []models.Query
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&queries).Error; err != nil {
		log.Printf("[WARNING] Failed to load queries, treating as empty: %v", err)
		return []models.Query{}, fmt.Errorf("%w: queries: %w", ErrUnavailable, err)
	}
	return queries, nil
}

// SaveQueries replaces the queries table
func (s *GormStore) SaveQueries(ctx context.Context, queries []models.Query) error {
	return replaceAll(ctx, s.db, &models.Query{}, queries)
}

// LoadTemplates returns stored templates, seeding the defaults into an empty table
func (s *GormStore) LoadTemplates(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	if err := s.db.WithContext(ctx).Order("created_at asc, id asc").Find(&templates).Error; err != nil {
		log.Printf("[WARNING] Failed to load templates, using defaults: %v", err)
		return models.DefaultTemplates(s.now().UTC()), fmt.Errorf("%w: templates: %w", ErrUnavailable, err)
	}
	if len(templates) > 0 {
		return templates, nil
	}

	defaults := models.DefaultTemplates(s.now().UTC())
	if err := s.SaveTemplates(ctx, defaults); err != nil {
		log.Printf("[WARNING] Failed to persist default templates: %v", err)
	} else {
		log.Printf("[INFO] Created default template set (%d templates)", len(defaults))
	}
	return defaults, nil
}

// SaveTemplates replaces the templates table
func (s *GormStore) SaveTemplates(ctx context.Context, templates []models.Template) error {
	return replaceAll(ctx, s.db, &models.Template{}, templates)
}

// LoadSchedule returns stored scheduled notifications, or an empty slice
func (s *GormStore) LoadSchedule(ctx context.Context) ([]models.ScheduledNotification, error) {
	var notifications []models.ScheduledNotification
	if err := s.db.WithContext(ctx).Order("fire_at asc").Find(&notifications).Error; err != nil {
		log.Printf("[WARNING] Failed to load scheduled notifications, treating as empty: %v", err)
		return []models.ScheduledNotification{}, fmt.Errorf("%w: scheduled notifications: %w", ErrUnavailable, err)
	}
	return notifications, nil
}

// SaveSchedule replaces the scheduled notifications table
func (s *GormStore) SaveSchedule(ctx context.Context, notifications []models.ScheduledNotification) error {
	return replaceAll(ctx, s.db, &models.ScheduledNotification{}, notifications)
}

func replaceAll[T any](ctx context.Context, db *gorm.DB, model *T, rows []T) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
