package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"support_desk_go/models"
	"support_desk_go/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Auto-response documents written before templates had a type still drive
// acknowledgments by category.
func TestSubmit_UsesAutoResponseDocument(t *testing.T) {
	dir := t.TempDir()
	doc := `[
  {"id":"1","category":"general","subject":"Thanks - {{customerName}}","template":"Dear {{customerName}}, we got it.","delay":0},
  {"id":"2","category":"technical","subject":"Tech - {{customerName}}","template":"Dear {{customerName}}, ticket {{queryId}}.","delay":0}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.TemplatesDocument), []byte(doc), 0644))

	repo := store.NewRepository(store.NewJSONStore(store.NewLocalBackend(dir)))
	sender := &recordingSender{}
	dispatcher := NewDispatcher(repo, sender, testConfig())
	queries := NewQueryService(repo, dispatcher)

	query, result, err := queries.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "2", result.Template.ID)
	assert.Equal(t, "2", query.ResponseTemplate)
	assert.True(t, query.AutoResponseSent)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Tech - Jo", sent[0].Subject)
	assert.Contains(t, sent[0].TextBody, "ticket "+query.ID)
}

func TestSelectTemplate_UntypedCategoryTemplate(t *testing.T) {
	var templates []models.Template
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"4","category":"product","subject":"Product","template":"Hi {{customerName}}","delay":0}]`), &templates))

	tmpl := SelectTemplate(templates, models.TemplateTypeAcknowledgment, models.QueryCategoryProduct, nil)
	assert.Equal(t, "4", tmpl.ID)

	tmpl = SelectTemplate(templates, models.TemplateTypeAcknowledgment, models.QueryCategoryBilling, nil)
	assert.Equal(t, models.TemplateIDAcknowledgment, tmpl.ID)
}
