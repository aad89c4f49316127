// Package reminders polls the calendars of the configured owners on a cron
// schedule and hands every reminder that came due to a Notifier.
package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"minibizz/planning/internal/domain"
)

type reminderSource interface {
	DueReminders(ctx context.Context, owner string, from, to time.Time) ([]domain.DueReminder, error)
}

type Scheduler struct {
	src      reminderSource
	notifier Notifier
	owners   []string
	log      *slog.Logger
	now      func() time.Time
	timeout  time.Duration

	mu   sync.Mutex
	last map[string]time.Time
	cron *cron.Cron
}

type Options struct {
	Owners   []string
	Location *time.Location
	// Timeout bounds one poll across all owners.
	Timeout time.Duration
	Now     func() time.Time
}

func NewScheduler(src reminderSource, notifier Notifier, log *slog.Logger, opts Options) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	s := &Scheduler{
		src:      src,
		notifier: notifier,
		owners:   opts.Owners,
		log:      log.With(slog.String("component", "reminders")),
		now:      opts.Now,
		timeout:  opts.Timeout,
		last:     make(map[string]time.Time, len(opts.Owners)),
		cron:     cron.New(cron.WithLocation(opts.Location)),
	}
	started := s.now()
	for _, owner := range opts.Owners {
		s.last[owner] = started
	}
	return s
}

// Start schedules Poll with a standard cron expression or descriptor such as
// "@every 1m".
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.Poll(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule reminders %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info("reminder scheduler started", slog.String("spec", spec), slog.Int("owners", len(s.owners)))
	return nil
}

// Stop halts the schedule; the returned context is done once a running poll
// has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Poll notifies every reminder that fired since the owner's previous poll.
// An owner whose calendar cannot be read keeps its window open for the next
// poll; failed notifications are logged and not retried.
func (s *Scheduler) Poll(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sent := 0
	for _, owner := range s.owners {
		from := s.last[owner]
		if !now.After(from) {
			continue
		}
		due, err := s.src.DueReminders(ctx, owner, from, now)
		if err != nil {
			s.log.Error("reminders poll failed", slog.String("owner_id", owner), slog.Any("err", err))
			continue
		}
		s.last[owner] = now

		for _, r := range due {
			if err := s.notifier.Notify(ctx, owner, r); err != nil {
				s.log.Error(
					"reminder notification failed",
					slog.String("owner_id", owner),
					slog.String("appointment_id", r.Appointment.ID),
					slog.Any("err", err),
				)
				continue
			}
			sent++
		}
	}
	if sent > 0 {
		s.log.Info("reminders sent", slog.Int("count", sent))
	}
	return sent
}
