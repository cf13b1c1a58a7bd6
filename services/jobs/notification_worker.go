package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DueRunner delivers scheduled notifications that are due at now
type DueRunner interface {
	RunDue(ctx context.Context, now time.Time) (int, error)
}

// NotificationWorker sweeps the notification schedule on a fixed interval
type NotificationWorker struct {
	runner   DueRunner
	interval time.Duration
	cron     *cron.Cron
	now      func() time.Time
}

// NewNotificationWorker creates a worker. Intervals under one second are raised to one second.
func NewNotificationWorker(runner DueRunner, interval time.Duration) *NotificationWorker {
	if interval < time.Second {
		interval = time.Second
	}
	return &NotificationWorker{
		runner:   runner,
		interval: interval,
		now:      time.Now,
	}
}

// Start schedules the sweep. A sweep still running when the next tick fires is skipped.
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	schedule := fmt.Sprintf("@every %s", w.interval)
	if _, err := w.cron.AddFunc(schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule notification sweep: %w", err)
	}

	w.cron.Start()
	log.Printf("[CRON] Notification worker started, sweeping every %s", w.interval)

	// Catch up on anything that came due while the server was down
	go w.RunOnce(ctx)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (w *NotificationWorker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	log.Println("[CRON] Notification worker stopped")
}

// RunOnce delivers every due notification and returns how many were sent
func (w *NotificationWorker) RunOnce(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	delivered, err := w.runner.RunDue(ctx, w.now().UTC())
	if err != nil {
		log.Printf("[JOB] Notification sweep failed: %v", err)
	}
	if delivered > 0 {
		log.Printf("[JOB] Delivered %d scheduled notification(s)", delivered)
	}
	return delivered
}
