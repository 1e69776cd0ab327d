package trending

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler refreshes the trending snapshot on an interval.
type Scheduler struct {
	cron *cron.Cron
	svc  *Service
	warm func(context.Context)
	log  *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithWarm runs f after every successful refresh. Used to prewarm the
// result cache with the trending query so the first user hit is warm.
func WithWarm(f func(context.Context)) SchedulerOption {
	return func(s *Scheduler) {
		s.warm = f
	}
}

// NewScheduler creates a Scheduler that refreshes the snapshot every
// interval.
func NewScheduler(
	svc *Service,
	interval time.Duration,
	log *slog.Logger,
	opts ...SchedulerOption,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron: c,
		svc:  svc,
		log:  log,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := c.AddFunc("@every "+interval.String(), s.runRefresh); err != nil {
		return nil, err
	}

	return s, nil
}

// Start runs an immediate refresh and begins the schedule. The first
// refresh failing is not fatal; the snapshot stays empty until the next
// tick succeeds.
func (s *Scheduler) Start(ctx context.Context) {
	s.refresh(ctx)
	s.log.Info("trending scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for a running refresh to
// finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("trending scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runRefresh() {
	s.refresh(context.Background())
}

func (s *Scheduler) refresh(ctx context.Context) {
	if err := s.svc.Refresh(ctx); err != nil {
		s.log.Error("trending refresh failed", "error", err)
		return
	}
	if s.warm != nil {
		s.warm(ctx)
	}
}
