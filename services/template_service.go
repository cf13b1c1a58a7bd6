package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"support_desk_go/models"
	"support_desk_go/store"
)

var ErrTemplateNotFound = errors.New("template not found")

// TemplateInput holds template fields from the API. On update, empty strings and
// nil pointers leave the stored value unchanged.
type TemplateInput struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Subject     string   `json:"subject"`
	Content     string   `json:"content"`
	TextContent string   `json:"textContent"`
	Variables   []string `json:"variables"`
	Delay       *int64   `json:"delay"`
	IsActive    *bool    `json:"isActive"`

	// Legacy body field names
	Template    string `json:"template"`
	HTMLContent string `json:"htmlContent"`
}

func (in *TemplateInput) body() string {
	for _, candidate := range []string{in.Content, in.HTMLContent, in.Template} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// TemplateFilter selects templates; empty fields match everything
type TemplateFilter struct {
	Type     string
	Category string
	Active   *bool
	Search   string
}

// TemplatePreview is a template resolved against sample values
type TemplatePreview struct {
	Subject    string   `json:"subject"`
	Content    string   `json:"content"`
	Variables  []string `json:"variables"`
	Unresolved []string `json:"unresolved"`
}

// TemplateService manages the template collection
type TemplateService struct {
	repo *store.Repository
	now  func() time.Time
}

// NewTemplateService creates a template service
func NewTemplateService(repo *store.Repository) *TemplateService {
	return &TemplateService{repo: repo, now: time.Now}
}

// List returns the templates matching every filter in stored order
func (s *TemplateService) List(ctx context.Context, filter TemplateFilter) ([]models.Template, error) {
	templates, err := s.repo.Templates(ctx)
	if err != nil {
		return nil, err
	}

	filterType := models.NormalizeTemplateType(filter.Type)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := []models.Template{}
	for _, t := range templates {
		if filterType != "" && t.Type != filterType {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.Active != nil && t.IsActive != *filter.Active {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.Subject), search) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// Get returns one template
func (s *TemplateService) Get(ctx context.Context, id string) (*models.Template, error) {
	templates, err := s.repo.Templates(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrTemplateNotFound
}

// Create validates and stores a new template
func (s *TemplateService) Create(ctx context.Context, input TemplateInput) (*models.Template, error) {
	content := input.body()
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Subject) == "" {
		missing = append(missing, "subject")
	}
	if content == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(input.Type) == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if !models.IsValidTemplateType(input.Type) {
		return nil, fmt.Errorf("%w: invalid template type %q", ErrValidation, input.Type)
	}
	if input.Category != "" && !models.IsValidQueryCategory(input.Category) {
		return nil, fmt.Errorf("%w: invalid category %q", ErrValidation, input.Category)
	}

	now := s.now().UTC()
	tmpl := models.Template{
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        strings.TrimSpace(input.Name),
		Category:    input.Category,
		Type:        models.NormalizeTemplateType(input.Type),
		Subject:     input.Subject,
		Content:     SanitizeTemplateHTML(content),
		TextContent: input.TextContent,
		Variables:   input.Variables,
		IsActive:    input.IsActive == nil || *input.IsActive,
	}
	if input.Delay != nil {
		tmpl.Delay = *input.Delay
	}
	if len(tmpl.Variables) == 0 {
		tmpl.Variables = ExtractVariables(tmpl.Subject, tmpl.Content, tmpl.TextContent)
	}

	err := s.repo.UpdateTemplates(ctx, func(templates []models.Template) ([]models.Template, error) {
		tmpl.ID = uniqueTemplateID(templates, now)
		return append(templates, tmpl), nil
	})
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// uniqueTemplateID returns the millisecond id, bumped past ids already taken
func uniqueTemplateID(templates []models.Template, now time.Time) string {
	taken := make(map[string]bool, len(templates))
	for _, t := range templates {
		taken[t.ID] = true
	}
	id := generateTemplateID(now)
	for taken[id] {
		now = now.Add(time.Millisecond)
		id = generateTemplateID(now)
	}
	return id
}

// Update merges the provided fields into a stored template
func (s *TemplateService) Update(ctx context.Context, id string, input TemplateInput) (*models.Template, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: template id is required", ErrValidation)
	}
	if input.Type != "" && !models.IsValidTemplateType(input.Type) {
		return nil, fmt.Errorf("%w: invalid template type %q", ErrValidation, input.Type)
	}
	if input.Category != "" && !models.IsValidQueryCategory(input.Category) {
		return nil, fmt.Errorf("%w: invalid category %q", ErrValidation, input.Category)
	}

	var updated models.Template
	err := s.repo.UpdateTemplates(ctx, func(templates []models.Template) ([]models.Template, error) {
		for i := range templates {
			if templates[i].ID != id {
				continue
			}
			t := &templates[i]
			if strings.TrimSpace(input.Name) != "" {
				t.Name = strings.TrimSpace(input.Name)
			}
			if input.Category != "" {
				t.Category = input.Category
			}
			if input.Type != "" {
				t.Type = models.NormalizeTemplateType(input.Type)
			}
			if strings.TrimSpace(input.Subject) != "" {
				t.Subject = input.Subject
			}
			if content := input.body(); content != "" {
				t.Content = SanitizeTemplateHTML(content)
			}
			if input.TextContent != "" {
				t.TextContent = input.TextContent
			}
			if input.Variables != nil {
				t.Variables = input.Variables
			}
			if input.Delay != nil {
				t.Delay = *input.Delay
			}
			if input.IsActive != nil {
				t.IsActive = *input.IsActive
			}
			t.UpdatedAt = s.now().UTC()
			updated = *t
			return templates, nil
		}
		return nil, ErrTemplateNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a template. Queries that reference it keep the dangling id.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: template id is required", ErrValidation)
	}
	return s.repo.UpdateTemplates(ctx, func(templates []models.Template) ([]models.Template, error) {
		for i, t := range templates {
			if t.ID == id {
				return append(templates[:i], templates[i+1:]...), nil
			}
		}
		return nil, ErrTemplateNotFound
	})
}

// Preview resolves a subject and body against sample values
func (s *TemplateService) Preview(subject, content string, vars map[string]string) TemplatePreview {
	resolvedSubject := Resolve(subject, vars)
	resolvedContent := Resolve(content, vars)
	return TemplatePreview{
		Subject:    resolvedSubject,
		Content:    resolvedContent,
		Variables:  ExtractVariables(subject, content),
		Unresolved: ExtractVariables(resolvedSubject, resolvedContent),
	}
}
