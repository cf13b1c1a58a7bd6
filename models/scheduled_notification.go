package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scheduled notification status constants
const (
	ScheduleStatusPending    = "pending"
	ScheduleStatusProcessing = "processing"
	ScheduleStatusSent       = "sent"
	ScheduleStatusFailed     = "failed"
	ScheduleStatusCancelled  = "cancelled"
)

// ScheduledNotification is a delayed dispatch persisted with the other collections,
// keyed by query, notification type and fire time.
type ScheduledNotification struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// QueryID is empty for ad-hoc notifications about queries that are not stored
	QueryID string    `gorm:"index" json:"queryId,omitempty"`
	Type    string    `gorm:"not null" json:"type"`
	FireAt  time.Time `gorm:"index;not null" json:"fireAt"`
	Status  string    `gorm:"not null;default:pending;index" json:"status"`

	// Query is the snapshot used when the stored query is gone at fire time
	Query    Query     `gorm:"type:text;serializer:json" json:"query"`
	Template *Template `gorm:"type:text;serializer:json" json:"template,omitempty"`
	// Resolution is the resolution text for resolved notifications
	Resolution string `gorm:"type:text" json:"resolution,omitempty"`

	MessageID string     `json:"messageId,omitempty"`
	LastError string     `json:"lastError,omitempty"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
}

// BeforeCreate hook to generate UUID
func (n *ScheduledNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ScheduledNotification model
func (ScheduledNotification) TableName() string {
	return "scheduled_notifications"
}

// IsDue reports whether a pending notification should fire at now
func (n *ScheduledNotification) IsDue(now time.Time) bool {
	return n.Status == ScheduleStatusPending && !n.FireAt.After(now)
}
