package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/baharkarakas/event-hub/internal/models"
)

// ReminderSource mails registrants of the events on a given day.
type ReminderSource interface {
	SendReminders(ctx context.Context, day models.Date) (int, error)
}

// Reminder runs the next-day reminder on a cron schedule.
type Reminder struct {
	src  ReminderSource
	cron *cron.Cron
	log  *slog.Logger
	now  func() time.Time
}

func NewReminder(src ReminderSource, log *slog.Logger) *Reminder {
	return &Reminder{src: src, cron: cron.New(), log: log, now: time.Now}
}

// Start schedules the job with a standard five-field spec and starts the scheduler.
func (r *Reminder) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		_, _ = r.RunOnce(ctx)
	}); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// RunOnce sends reminders for tomorrow's events.
func (r *Reminder) RunOnce(ctx context.Context) (int, error) {
	day := models.NewDate(r.now().AddDate(0, 0, 1))
	n, err := r.src.SendReminders(ctx, day)
	if err != nil {
		r.log.ErrorContext(ctx, "reminder run failed", "day", day.String(), "err", err)
		return n, err
	}
	r.log.InfoContext(ctx, "reminders sent", "day", day.String(), "count", n)
	return n, nil
}

// Stop waits for a running job to finish or ctx to end.
func (r *Reminder) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}
