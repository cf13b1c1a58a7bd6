package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Notification types a template can serve
const (
	TemplateTypeAcknowledgment = "acknowledgment"
	TemplateTypeFollowUp       = "followup"
	TemplateTypeResolved       = "resolved"
	TemplateTypeWelcome        = "welcome"
	TemplateTypeFeedback       = "feedback"
)

// templateTypeAliases maps legacy template type names onto notification types
var templateTypeAliases = map[string]string{
	"customer_query": TemplateTypeAcknowledgment,
	"follow_up":      TemplateTypeFollowUp,
	"follow-up":      TemplateTypeFollowUp,
	"resolution":     TemplateTypeResolved,
}

// Template is a reusable subject and body pair with {{name}} or {name} placeholders
type Template struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name     string `json:"name"`
	Category string `gorm:"index" json:"category,omitempty"`
	Type     string `gorm:"index" json:"type,omitempty"`

	Subject     string `gorm:"not null" json:"subject"`
	Content     string `gorm:"type:text;not null" json:"content"`
	TextContent string `gorm:"type:text" json:"textContent,omitempty"`

	// Variables is informational; resolution never checks it
	Variables []string `gorm:"serializer:json" json:"variables"`
	// Delay in milliseconds, kept from the legacy auto-response set
	Delay    int64 `json:"delay,omitempty"`
	IsActive bool  `gorm:"not null;default:true" json:"isActive"`
}

// TableName specifies the table name for Template model
func (Template) TableName() string {
	return "templates"
}

// UnmarshalJSON accepts the legacy body field names ("template", "htmlContent")
// and treats a missing isActive as active. Legacy auto-response entries carry a
// category but no type; they are acknowledgments.
func (t *Template) UnmarshalJSON(data []byte) error {
	type plain Template
	aux := struct {
		*plain
		Body        string `json:"template"`
		HTMLContent string `json:"htmlContent"`
		IsActive    *bool  `json:"isActive"`
	}{plain: (*plain)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if t.Content == "" {
		if aux.HTMLContent != "" {
			t.Content = aux.HTMLContent
		} else {
			t.Content = aux.Body
		}
	}
	t.IsActive = aux.IsActive == nil || *aux.IsActive
	t.Type = NormalizeTemplateType(t.Type)
	if t.Type == "" && t.Category != "" {
		t.Type = TemplateTypeAcknowledgment
	}
	return nil
}

// NormalizeTemplateType lowercases the type and maps legacy aliases
func NormalizeTemplateType(templateType string) string {
	templateType = strings.ToLower(strings.TrimSpace(templateType))
	if alias, ok := templateTypeAliases[templateType]; ok {
		return alias
	}
	return templateType
}

// ValidTemplateTypes lists the types accepted on template creation
var ValidTemplateTypes = []string{
	TemplateTypeAcknowledgment,
	TemplateTypeFollowUp,
	TemplateTypeResolved,
	TemplateTypeWelcome,
	TemplateTypeFeedback,
}

// IsValidTemplateType checks the type after alias normalization
func IsValidTemplateType(templateType string) bool {
	return contains(ValidTemplateTypes, NormalizeTemplateType(templateType))
}

// DispatchTypes are the notification types the dispatcher can send
var DispatchTypes = []string{
	TemplateTypeAcknowledgment,
	TemplateTypeResolved,
	TemplateTypeFollowUp,
}

// IsDispatchType checks if a notification type can be dispatched
func IsDispatchType(templateType string) bool {
	return contains(DispatchTypes, NormalizeTemplateType(templateType))
}
