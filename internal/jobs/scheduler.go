package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Upper bound for a single job run
const jobTimeout = 30 * time.Second

// Scheduler runs periodic background jobs
type Scheduler struct {
	sched  gocron.Scheduler
	logger *slog.Logger
}

// NewScheduler creates a stopped Scheduler
func NewScheduler(logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	return &Scheduler{
		sched:  sched,
		logger: logger.With(slog.String("component", "jobs")),
	}, nil
}

// Every registers fn to run at a fixed interval. Overlapping runs are skipped.
func (s *Scheduler) Every(name string, interval time.Duration, fn func(ctx context.Context) error) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := fn(ctx); err != nil {
				s.logger.Error("job failed",
					slog.String("job", name),
					slog.String("error", err.Error()))
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	s.logger.Info("job scheduled",
		slog.String("job", name),
		slog.Duration("interval", interval))
	return nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.sched.Start()
}

// Shutdown stops the scheduler and waits for running jobs
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
