package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"support_desk_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateService_List(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	all, err := env.templates.List(ctx, TemplateFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 12)
	assert.Equal(t, "1", all[0].ID)

	tests := []struct {
		name     string
		filter   TemplateFilter
		expected []string
	}{
		{"By category", TemplateFilter{Category: models.QueryCategoryBilling}, []string{"3"}},
		{"By legacy type alias", TemplateFilter{Type: "resolution"}, []string{models.TemplateIDResolved, models.TemplateIDQueryResolution}},
		{"Feedback library template", TemplateFilter{Type: models.TemplateTypeFeedback}, []string{models.TemplateIDFeedback}},
		{"By search on subject", TemplateFilter{Search: "COMPLAINT"}, []string{"5"}},
		{"Type and category", TemplateFilter{Type: models.TemplateTypeFollowUp, Category: models.QueryCategoryBilling}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.templates.List(ctx, tt.filter)
			require.NoError(t, err)
			ids := []string{}
			for _, tmpl := range result {
				ids = append(ids, tmpl.ID)
			}
			if tt.expected == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.expected, ids)
			}
		})
	}
}

func TestTemplateService_ListActive(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	inactive := false
	_, err := env.templates.Update(ctx, "4", TemplateInput{IsActive: &inactive})
	require.NoError(t, err)

	active := true
	result, err := env.templates.List(ctx, TemplateFilter{Active: &active})
	require.NoError(t, err)
	assert.Len(t, result, 11)

	result, err = env.templates.List(ctx, TemplateFilter{Active: &inactive})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "4", result[0].ID)
}

func TestTemplateService_Create(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	tmpl, err := env.templates.Create(ctx, TemplateInput{
		Name:     "  Shipping delay  ",
		Category: models.QueryCategoryProduct,
		Type:     "follow_up",
		Subject:  "About {{subject}}",
		Content:  `<p onclick="steal()">Hi {customerName}</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)

	assert.Equal(t, strconv.FormatInt(env.clock.Now().UnixMilli(), 10), tmpl.ID)
	assert.Equal(t, "Shipping delay", tmpl.Name)
	assert.Equal(t, models.TemplateTypeFollowUp, tmpl.Type)
	assert.True(t, tmpl.IsActive)
	assert.Equal(t, "<p>Hi {customerName}</p>", tmpl.Content)
	assert.Equal(t, []string{"subject", "customerName"}, tmpl.Variables)

	stored, err := env.templates.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tmpl.Content, stored.Content)
}

func TestTemplateService_CreateLegacyBodyAndUniqueID(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, err := env.templates.Create(ctx, TemplateInput{Name: "A", Type: "welcome", Subject: "S", Template: "Hello {name}"})
	require.NoError(t, err)
	second, err := env.templates.Create(ctx, TemplateInput{Name: "B", Type: "welcome", Subject: "S", HTMLContent: "<b>Hi</b>"})
	require.NoError(t, err)

	assert.Equal(t, "Hello {name}", first.Content)
	assert.Equal(t, "<b>Hi</b>", second.Content)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, strconv.FormatInt(env.clock.Now().Add(time.Millisecond).UnixMilli(), 10), second.ID)
}

func TestTemplateService_CreateValidation(t *testing.T) {
	tests := []struct {
		name        string
		input       TemplateInput
		expectedErr string
	}{
		{"Missing fields", TemplateInput{Name: "A"}, "missing required fields: subject, content, type"},
		{"Invalid type", TemplateInput{Name: "A", Subject: "S", Content: "C", Type: "reminder"}, "invalid template type"},
		{"Invalid category", TemplateInput{Name: "A", Subject: "S", Content: "C", Type: "welcome", Category: "legal"}, "invalid category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			_, err := env.templates.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.expectedErr)

			all, err := env.templates.List(context.Background(), TemplateFilter{})
			require.NoError(t, err)
			assert.Len(t, all, 12)
		})
	}
}

func TestTemplateService_Update(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.clock.Advance(time.Hour)

	delay := int64(60000)
	updated, err := env.templates.Update(ctx, "2", TemplateInput{Subject: "New subject", Name: "  ", Delay: &delay})
	require.NoError(t, err)
	assert.Equal(t, "New subject", updated.Subject)
	assert.Equal(t, "Technical Support Acknowledgment", updated.Name)
	assert.Equal(t, delay, updated.Delay)
	assert.Equal(t, env.clock.Now(), updated.UpdatedAt)

	_, err = env.templates.Update(ctx, "missing", TemplateInput{Subject: "x"})
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = env.templates.Update(ctx, "2", TemplateInput{Type: "reminder"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTemplateService_Delete(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	require.NoError(t, env.templates.Delete(ctx, "5"))
	_, err := env.templates.Get(ctx, "5")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	assert.ErrorIs(t, env.templates.Delete(ctx, "5"), ErrTemplateNotFound)
	assert.ErrorIs(t, env.templates.Delete(ctx, ""), ErrValidation)

	all, err := env.templates.List(ctx, TemplateFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 11)
}

func TestTemplateService_Preview(t *testing.T) {
	env := newTestEnv(t, nil)

	preview := env.templates.Preview(
		"Re: {{subject}}",
		"Dear {customerName}, ticket {ticketId}",
		map[string]string{"subject": "Login", "customerName": "Jo"},
	)

	assert.Equal(t, "Re: Login", preview.Subject)
	assert.Equal(t, "Dear Jo, ticket {ticketId}", preview.Content)
	assert.Equal(t, []string{"subject", "customerName", "ticketId"}, preview.Variables)
	assert.Equal(t, []string{"ticketId"}, preview.Unresolved)
}
