package almanac

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// refreshTimeout bounds a single scheduled refresh.
const refreshTimeout = 2 * time.Minute

// Scheduler runs Service.Refresh on a cron schedule.
type Scheduler struct {
	cron   *gocron.Scheduler
	svc    *Service
	logger *slog.Logger
}

// NewScheduler registers the refresh job under a standard 5-field cron spec,
// evaluated in UTC. The scheduler does nothing until Start is called.
func NewScheduler(svc *Service, spec string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		cron:   gocron.NewScheduler(time.UTC),
		svc:    svc,
		logger: logger,
	}

	s.cron.SingletonModeAll()
	if _, err := s.cron.Cron(spec).Do(s.run); err != nil {
		return nil, fmt.Errorf("schedule almanac refresh %q: %w", spec, err)
	}

	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	s.logger.Info("starting almanac refresh job")
	if _, err := s.svc.Refresh(ctx, time.Now()); err != nil {
		s.logger.Error("almanac refresh failed", slog.Any("error", err))
	}
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

// Stop halts the scheduler. A refresh already running is not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// NextRun returns the time the refresh job is next due.
func (s *Scheduler) NextRun() time.Time {
	_, t := s.cron.NextRun()
	return t
}
