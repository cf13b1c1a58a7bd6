package services

import (
	"context"
	"testing"
	"time"

	"support_desk_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestQueryService_Create(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	q, err := env.queries.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Regexp(t, `^query_\d+_[0-9a-f]{9}$`, q.ID)
	assert.Equal(t, models.QueryStatusNew, q.Status)
	assert.Equal(t, models.QueryPriorityMedium, q.Priority)
	assert.False(t, q.AutoResponseSent)
	assert.Equal(t, env.clock.Now(), q.CreatedAt)
	assert.Equal(t, q.CreatedAt, q.UpdatedAt)
	assert.Len(t, env.storedQueries(t), 1)

	// Create alone does not dispatch
	assert.Empty(t, env.sender.Sent())
}

func TestQueryService_Create_UniqueIDs(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		q, err := env.queries.Create(ctx, validInput())
		require.NoError(t, err)
		assert.False(t, seen[q.ID], "duplicate id %s", q.ID)
		seen[q.ID] = true
	}
	assert.Len(t, env.storedQueries(t), 25)
}

func TestQueryService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *CreateQueryInput)
	}{
		{"Missing name", func(in *CreateQueryInput) { in.CustomerName = "" }},
		{"Blank email", func(in *CreateQueryInput) { in.CustomerEmail = "   " }},
		{"Missing subject", func(in *CreateQueryInput) { in.Subject = "" }},
		{"Missing message", func(in *CreateQueryInput) { in.Message = "" }},
		{"Missing category", func(in *CreateQueryInput) { in.Category = "" }},
		{"Invalid email", func(in *CreateQueryInput) { in.CustomerEmail = "not-an-email" }},
		{"Invalid category", func(in *CreateQueryInput) { in.Category = "shipping" }},
		{"Invalid priority", func(in *CreateQueryInput) { in.Priority = "critical" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			in := validInput()
			tt.mutate(&in)

			_, err := env.queries.Create(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, env.storedQueries(t))
		})
	}
}

func TestQueryService_Submit(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	start := env.clock.Now()

	q, result, err := env.queries.Submit(ctx, validInput())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, models.QueryStatusNew, q.Status)
	assert.Equal(t, models.QueryPriorityMedium, q.Priority)
	assert.True(t, q.AutoResponseSent)
	assert.Equal(t, "2", q.ResponseTemplate)
	require.NotNil(t, q.FollowUpScheduled)
	assert.Equal(t, start.Add(72*time.Hour), *q.FollowUpScheduled)

	// The technical acknowledgment was rendered for Jo
	sent := env.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"jo@x.com"}, sent[0].To)
	assert.Equal(t, "Technical Support - Your request has been received", sent[0].Subject)
	assert.Contains(t, sent[0].TextBody, "Dear Jo,")
	assert.Contains(t, sent[0].TextBody, q.ID)
	assert.NotContains(t, sent[0].TextBody, "{{customerName}}")

	// Persisted state matches the returned query
	stored := env.storedQueries(t)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].AutoResponseSent)
	assert.Equal(t, "2", stored[0].ResponseTemplate)

	// Exactly one follow-up queued
	schedule := env.schedule(t)
	require.Len(t, schedule, 1)
	assert.Equal(t, models.TemplateTypeFollowUp, schedule[0].Type)
	assert.Equal(t, q.ID, schedule[0].QueryID)
	assert.Equal(t, start.Add(24*time.Hour), schedule[0].FireAt)
}

func TestQueryService_Submit_DeliveryFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sender.Fail("smtp down")

	q, _, err := env.queries.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.False(t, q.AutoResponseSent)
	assert.NotNil(t, q.FollowUpScheduled)
	assert.Empty(t, env.schedule(t))
}

func TestQueryService_List(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	create := func(category, priority string) *models.Query {
		in := validInput()
		in.Category = category
		in.Priority = priority
		q, err := env.queries.Create(ctx, in)
		require.NoError(t, err)
		env.clock.Advance(time.Minute)
		return q
	}

	billingLow := create(models.QueryCategoryBilling, models.QueryPriorityLow)
	technical := create(models.QueryCategoryTechnical, models.QueryPriorityHigh)
	billingHigh := create(models.QueryCategoryBilling, models.QueryPriorityHigh)

	_, err := env.queries.Update(ctx, billingHigh.ID, UpdateQueryInput{Status: strPtr(models.QueryStatusInProgress)})
	require.NoError(t, err)

	t.Run("No filters returns all newest first", func(t *testing.T) {
		all, err := env.queries.List(ctx, QueryFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, billingHigh.ID, all[0].ID)
		assert.Equal(t, technical.ID, all[1].ID)
		assert.Equal(t, billingLow.ID, all[2].ID)
	})

	t.Run("Conjunctive filters", func(t *testing.T) {
		result, err := env.queries.List(ctx, QueryFilter{Status: models.QueryStatusNew, Category: models.QueryCategoryBilling})
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, billingLow.ID, result[0].ID)

		result, err = env.queries.List(ctx, QueryFilter{Priority: models.QueryPriorityHigh})
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("Search", func(t *testing.T) {
		result, err := env.queries.List(ctx, QueryFilter{Search: "JO@X"})
		require.NoError(t, err)
		assert.Len(t, result, 3)

		result, err = env.queries.List(ctx, QueryFilter{Search: "nothing like this"})
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestQueryService_Get(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	q, err := env.queries.Create(ctx, validInput())
	require.NoError(t, err)

	found, err := env.queries.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, found.ID)

	_, err = env.queries.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrQueryNotFound)
}

func TestQueryService_Update(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	q, err := env.queries.Create(ctx, validInput())
	require.NoError(t, err)
	env.clock.Advance(time.Hour)

	t.Run("Applies provided fields only", func(t *testing.T) {
		updated, err := env.queries.Update(ctx, q.ID, UpdateQueryInput{
			AssignedTo:    strPtr("Sam"),
			CustomerPhone: strPtr("555-0100"),
			Tags:          []string{"vip"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Sam", updated.AssignedTo)
		assert.Equal(t, "555-0100", updated.CustomerPhone)
		assert.Equal(t, []string{"vip"}, updated.Tags)
		assert.Equal(t, models.QueryStatusNew, updated.Status)
		assert.Equal(t, "Help", updated.Subject)
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	})

	t.Run("Empty status is ignored", func(t *testing.T) {
		updated, err := env.queries.Update(ctx, q.ID, UpdateQueryInput{Status: strPtr("")})
		require.NoError(t, err)
		assert.Equal(t, models.QueryStatusNew, updated.Status)
	})

	t.Run("Unknown status", func(t *testing.T) {
		_, err := env.queries.Update(ctx, q.ID, UpdateQueryInput{Status: strPtr("done")})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Missing id", func(t *testing.T) {
		_, err := env.queries.Update(ctx, "", UpdateQueryInput{})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Not found leaves store unchanged", func(t *testing.T) {
		before := env.storedQueries(t)
		_, err := env.queries.Update(ctx, "query_0_missing", UpdateQueryInput{Status: strPtr(models.QueryStatusResolved)})
		assert.ErrorIs(t, err, ErrQueryNotFound)
		assert.Equal(t, before, env.storedQueries(t))
	})
}

func TestQueryService_StatusTransitions(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	q, err := env.queries.Create(ctx, validInput())
	require.NoError(t, err)

	step := func(status string) error {
		_, err := env.queries.Update(ctx, q.ID, UpdateQueryInput{Status: strPtr(status)})
		return err
	}

	require.NoError(t, step(models.QueryStatusAcknowledged))
	require.NoError(t, step(models.QueryStatusAcknowledged))

	err = step(models.QueryStatusNew)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, ErrValidation)

	err = step(models.QueryStatusClosed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, step(models.QueryStatusInProgress))
	require.NoError(t, step(models.QueryStatusResolved))
	require.NoError(t, step(models.QueryStatusClosed))

	// Closed queries can be reopened by an agent
	require.NoError(t, step(models.QueryStatusInProgress))

	stored, err := env.queries.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QueryStatusInProgress, stored.Status)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.QueryStatusNew, models.QueryStatusResolved))
	assert.True(t, CanTransition(models.QueryStatusClosed, models.QueryStatusInProgress))
	assert.True(t, CanTransition(models.QueryStatusResolved, models.QueryStatusResolved))
	assert.False(t, CanTransition(models.QueryStatusInProgress, models.QueryStatusAcknowledged))
	assert.False(t, CanTransition(models.QueryStatusNew, models.QueryStatusClosed))
	assert.False(t, CanTransition(models.QueryStatusClosed, models.QueryStatusNew))
}

func TestQueryService_ResolveCancelsFollowUp(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	q, _, err := env.queries.Submit(ctx, validInput())
	require.NoError(t, err)
	require.Len(t, env.schedule(t), 1)

	_, err = env.queries.Update(ctx, q.ID, UpdateQueryInput{Status: strPtr(models.QueryStatusResolved)})
	require.NoError(t, err)

	schedule := env.schedule(t)
	require.Len(t, schedule, 1)
	assert.Equal(t, models.ScheduleStatusCancelled, schedule[0].Status)

	delivered, err := env.dispatcher.RunDue(ctx, env.clock.Now().Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, delivered)
	assert.Len(t, env.sender.Sent(), 1)
}

func TestQueryService_Delete(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, _, err := env.queries.Submit(ctx, validInput())
	require.NoError(t, err)
	_, err = env.queries.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, env.queries.Delete(ctx, first.ID))
	assert.Len(t, env.storedQueries(t), 1)
	assert.Equal(t, models.ScheduleStatusCancelled, env.schedule(t)[0].Status)

	err = env.queries.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, ErrQueryNotFound)
	assert.Len(t, env.storedQueries(t), 1)

	assert.ErrorIs(t, env.queries.Delete(ctx, ""), ErrValidation)
}

func TestScheduleFollowUp(t *testing.T) {
	env := newTestEnv(t, nil)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		priority string
		expected time.Duration
	}{
		{models.QueryPriorityUrgent, 2 * time.Hour},
		{models.QueryPriorityHigh, 24 * time.Hour},
		{models.QueryPriorityMedium, 3 * 24 * time.Hour},
		{models.QueryPriorityLow, 7 * 24 * time.Hour},
		{"unknown", 3 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.priority, func(t *testing.T) {
			q := &models.Query{Priority: tt.priority, CreatedAt: now.Add(-240 * time.Hour)}
			env.queries.ScheduleFollowUp(q, now)
			require.NotNil(t, q.FollowUpScheduled)
			assert.WithinDuration(t, now.Add(tt.expected), *q.FollowUpScheduled, time.Second)
		})
	}
}
