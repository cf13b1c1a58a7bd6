package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"support_desk_go/config"
	"support_desk_go/models"
	"support_desk_go/store"

	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []*Email
	err  error
}

func (r *recordingSender) Send(ctx context.Context, email *Email) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, email)
	return fmt.Sprintf("msg_test_%d", len(r.sent)), nil
}

func (r *recordingSender) Sent() []*Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Email{}, r.sent...)
}

func (r *recordingSender) Fail(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = errors.New(msg)
}

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testConfig() *config.Config {
	return &config.Config{
		AutomationEnabled: true,
		AckDelay:          0,
		FollowUpDelay:     24 * time.Hour,
		AppURL:            "http://support.test",
		SupportEmail:      "help@support.test",
		SupportPhone:      "(555) 123-4567",
		CompanyName:       "Acme",
	}
}

type testEnv struct {
	repo       *store.Repository
	sender     *recordingSender
	clock      *testClock
	dispatcher *Dispatcher
	queries    *QueryService
	templates  *TemplateService
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	clock := &testClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	repo := store.NewRepository(store.NewMemoryStore())
	sender := &recordingSender{}

	dispatcher := NewDispatcher(repo, sender, cfg)
	dispatcher.now = clock.Now
	queries := NewQueryService(repo, dispatcher)
	queries.now = clock.Now
	templates := NewTemplateService(repo)
	templates.now = clock.Now

	return &testEnv{
		repo:       repo,
		sender:     sender,
		clock:      clock,
		dispatcher: dispatcher,
		queries:    queries,
		templates:  templates,
	}
}

func validInput() CreateQueryInput {
	return CreateQueryInput{
		CustomerName:  "Jo",
		CustomerEmail: "jo@x.com",
		Subject:       "Help",
		Message:       "issue",
		Category:      models.QueryCategoryTechnical,
	}
}

func (e *testEnv) schedule(t *testing.T) []models.ScheduledNotification {
	t.Helper()
	schedule, err := e.repo.Schedule(context.Background())
	require.NoError(t, err)
	return schedule
}

func (e *testEnv) storedQueries(t *testing.T) []models.Query {
	t.Helper()
	queries, err := e.repo.Queries(context.Background())
	require.NoError(t, err)
	return queries
}
