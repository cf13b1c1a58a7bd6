package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"support_desk_go/config"
	"support_desk_go/services"
	"support_desk_go/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []*services.Email
	err  error
}

func (r *recordingSender) Send(ctx context.Context, email *services.Email) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, email)
	return "msg_handler_test", nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func (r *recordingSender) last() *services.Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return nil
	}
	return r.sent[len(r.sent)-1]
}

func (r *recordingSender) fail(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = errors.New(msg)
}

type testApp struct {
	handler *Handler
	store   *store.MemoryStore
	repo    *store.Repository
	sender  *recordingSender
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	cfg := &config.Config{
		Environment:       "test",
		AutomationEnabled: true,
		FollowUpDelay:     24 * time.Hour,
		AppURL:            "http://support.test",
	}

	memory := store.NewMemoryStore()
	repo := store.NewRepository(memory)
	sender := &recordingSender{}
	dispatcher := services.NewDispatcher(repo, sender, cfg)
	queries := services.NewQueryService(repo, dispatcher)
	templates := services.NewTemplateService(repo)

	h := NewHandler(queries, templates, dispatcher, nil)
	h.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }

	return &testApp{handler: h, store: memory, repo: repo, sender: sender}
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return e, c, rec
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(data))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func validQueryBody() map[string]interface{} {
	return map[string]interface{}{
		"customerName":  "Jo",
		"customerEmail": "jo@x.com",
		"subject":       "Help",
		"message":       "issue",
		"category":      "technical",
	}
}

// createQuery submits a query through the handler and returns its id
func (a *testApp) createQuery(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	_, c, rec := setupEcho("POST", "/api/queries", jsonBody(t, body))
	require.NoError(t, a.handler.CreateQueryHandler(c))
	require.Equal(t, 201, rec.Code)
	query := decode(t, rec)["query"].(map[string]interface{})
	return query["id"].(string)
}
