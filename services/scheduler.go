package services

import (
	"context"
	"log"
	"sort"
	"time"

	"support_desk_go/models"

	"github.com/google/uuid"
)

// enqueue persists a pending scheduled notification
func (d *Dispatcher) enqueue(ctx context.Context, n models.ScheduledNotification) (*models.ScheduledNotification, error) {
	now := d.now().UTC()
	n.ID = uuid.New().String()
	n.Status = models.ScheduleStatusPending
	n.CreatedAt = now
	n.UpdatedAt = now

	err := d.repo.UpdateSchedule(ctx, func(schedule []models.ScheduledNotification) ([]models.ScheduledNotification, error) {
		return append(schedule, n), nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Cancel marks every pending notification for a query as cancelled
func (d *Dispatcher) Cancel(ctx context.Context, queryID string) (int, error) {
	if queryID == "" {
		return 0, nil
	}

	cancelled := 0
	err := d.repo.UpdateSchedule(ctx, func(schedule []models.ScheduledNotification) ([]models.ScheduledNotification, error) {
		now := d.now().UTC()
		for i := range schedule {
			if schedule[i].QueryID == queryID && schedule[i].Status == models.ScheduleStatusPending {
				schedule[i].Status = models.ScheduleStatusCancelled
				schedule[i].UpdatedAt = now
				cancelled++
			}
		}
		return schedule, nil
	})
	if err != nil {
		return 0, err
	}
	if cancelled > 0 {
		log.Printf("[INFO] Cancelled %d scheduled notification(s) for query %s", cancelled, queryID)
	}
	return cancelled, nil
}

// Scheduled lists scheduled notifications ordered by fire time, optionally for one query
func (d *Dispatcher) Scheduled(ctx context.Context, queryID string) ([]models.ScheduledNotification, error) {
	schedule, err := d.repo.Schedule(ctx)
	if err != nil {
		return nil, err
	}
	result := []models.ScheduledNotification{}
	for _, n := range schedule {
		if queryID == "" || n.QueryID == queryID {
			result = append(result, n)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].FireAt.Before(result[j].FireAt)
	})
	return result, nil
}

// RunDue delivers every pending notification due at now. Jobs are claimed before
// sending so a notification is attempted at most once. It returns the number of
// notifications delivered successfully.
func (d *Dispatcher) RunDue(ctx context.Context, now time.Time) (int, error) {
	var claimed []models.ScheduledNotification
	err := d.repo.UpdateSchedule(ctx, func(schedule []models.ScheduledNotification) ([]models.ScheduledNotification, error) {
		for i := range schedule {
			if schedule[i].IsDue(now) {
				schedule[i].Status = models.ScheduleStatusProcessing
				schedule[i].UpdatedAt = now
				claimed = append(claimed, schedule[i])
			}
		}
		return schedule, nil
	})
	if err != nil || len(claimed) == 0 {
		return 0, err
	}

	sort.SliceStable(claimed, func(i, j int) bool {
		return claimed[i].FireAt.Before(claimed[j].FireAt)
	})

	current := d.storedQueries(ctx)
	outcomes := make(map[string]models.ScheduledNotification, len(claimed))
	delivered := 0

	for _, n := range claimed {
		q := n.Query
		if stored, ok := current[n.QueryID]; ok {
			q = stored
		}

		result, sendErr := d.deliver(ctx, n.Type, q, n.Resolution, n.Template)
		finishedAt := d.now().UTC()
		n.UpdatedAt = finishedAt
		if sendErr != nil {
			n.Status = models.ScheduleStatusFailed
			n.LastError = sendErr.Error()
		} else {
			n.Status = models.ScheduleStatusSent
			n.MessageID = result.MessageID
			n.SentAt = &finishedAt
			delivered++
			log.Printf("[JOB] Delivered scheduled %s notification %s to %s", n.Type, n.ID, q.CustomerEmail)

			if n.Type == models.TemplateTypeAcknowledgment {
				d.scheduleAutomaticFollowUp(ctx, n.QueryID, q)
			}
		}
		outcomes[n.ID] = n
	}

	err = d.repo.UpdateSchedule(ctx, func(schedule []models.ScheduledNotification) ([]models.ScheduledNotification, error) {
		for i := range schedule {
			if outcome, ok := outcomes[schedule[i].ID]; ok {
				schedule[i] = outcome
			}
		}
		return schedule, nil
	})
	return delivered, err
}

// storedQueries indexes the current queries by id
func (d *Dispatcher) storedQueries(ctx context.Context) map[string]models.Query {
	queries, err := d.repo.Queries(ctx)
	if err != nil {
		log.Printf("[WARNING] Failed to load queries for scheduled delivery: %v", err)
		return nil
	}
	byID := make(map[string]models.Query, len(queries))
	for _, q := range queries {
		byID[q.ID] = q
	}
	return byID
}
