package models

import (
	"time"
)

// Query status constants
const (
	QueryStatusNew          = "new"
	QueryStatusAcknowledged = "acknowledged"
	QueryStatusInProgress   = "in-progress"
	QueryStatusResolved     = "resolved"
	QueryStatusClosed       = "closed"
)

// Query category constants
const (
	QueryCategoryGeneral   = "general"
	QueryCategoryTechnical = "technical"
	QueryCategoryBilling   = "billing"
	QueryCategoryProduct   = "product"
	QueryCategoryComplaint = "complaint"
)

// Query priority constants
const (
	QueryPriorityLow    = "low"
	QueryPriorityMedium = "medium"
	QueryPriorityHigh   = "high"
	QueryPriorityUrgent = "urgent"
)

// Query is a customer-submitted support inquiry.
// JSON names match the documents written by earlier versions of the app.
type Query struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CustomerName  string `gorm:"not null" json:"customerName"`
	CustomerEmail string `gorm:"not null;index" json:"customerEmail"`
	Subject       string `gorm:"not null" json:"subject"`
	Message       string `gorm:"type:text;not null" json:"message"`
	Category      string `gorm:"not null;index" json:"category"`
	Priority      string `gorm:"not null;default:medium" json:"priority"`
	Status        string `gorm:"not null;default:new;index" json:"status"`

	AssignedTo        string     `json:"assignedTo,omitempty"`
	ResponseTemplate  string     `json:"responseTemplate,omitempty"` // may reference a deleted template
	AutoResponseSent  bool       `gorm:"not null;default:false" json:"autoResponseSent"`
	FollowUpScheduled *time.Time `json:"followUpScheduled,omitempty"`

	CustomerPhone string   `json:"customerPhone,omitempty"`
	Tags          []string `gorm:"serializer:json" json:"tags,omitempty"`
}

// TableName specifies the table name for Query model
func (Query) TableName() string {
	return "queries"
}

// IsOpen reports whether the query still needs attention
func (q *Query) IsOpen() bool {
	return q.Status != QueryStatusResolved && q.Status != QueryStatusClosed
}

// ValidQueryStatuses lists every status in workflow order
var ValidQueryStatuses = []string{
	QueryStatusNew,
	QueryStatusAcknowledged,
	QueryStatusInProgress,
	QueryStatusResolved,
	QueryStatusClosed,
}

// ValidQueryCategories lists every category
var ValidQueryCategories = []string{
	QueryCategoryGeneral,
	QueryCategoryTechnical,
	QueryCategoryBilling,
	QueryCategoryProduct,
	QueryCategoryComplaint,
}

// ValidQueryPriorities lists every priority from lowest to highest
var ValidQueryPriorities = []string{
	QueryPriorityLow,
	QueryPriorityMedium,
	QueryPriorityHigh,
	QueryPriorityUrgent,
}

// IsValidQueryStatus checks if the status is valid
func IsValidQueryStatus(status string) bool {
	return contains(ValidQueryStatuses, status)
}

// IsValidQueryCategory checks if the category is valid
func IsValidQueryCategory(category string) bool {
	return contains(ValidQueryCategories, category)
}

// IsValidQueryPriority checks if the priority is valid
func IsValidQueryPriority(priority string) bool {
	return contains(ValidQueryPriorities, priority)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
