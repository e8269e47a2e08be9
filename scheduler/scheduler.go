// Package scheduler drives time-based tournament transitions.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-engine/services"
	"github.com/go-co-op/gocron/v2"
)

// Ticker is the part of the tournament service the scheduler drives.
type Ticker interface {
	Tick(ctx context.Context) (services.TickReport, error)
}

type Scheduler struct {
	sched    gocron.Scheduler
	ticker   Ticker
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// New registers a tick job that runs once at start and then every interval.
// A pass that overruns the interval delays the next one instead of
// overlapping it.
func New(ticker Ticker, interval time.Duration, logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{
		sched:    sched,
		ticker:   ticker,
		interval: interval,
		timeout:  interval,
		logger:   logger,
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.runOnce),
		gocron.WithName("tournament-lifecycle-tick"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("register tick job: %w", err)
	}
	return s, nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.ticker.Tick(ctx)
	if err != nil {
		s.logger.Error("Scheduler: tick failed", slog.Any("error", err))
		return
	}

	level := slog.LevelDebug
	if report.RegistrationOpened > 0 || report.Started > 0 || report.Failed > 0 {
		level = slog.LevelInfo
	}
	s.logger.Log(ctx, level, "Scheduler: tick complete",
		slog.Int("registration_opened", report.RegistrationOpened),
		slog.Int("started", report.Started),
		slog.Int("deferred", report.Deferred),
		slog.Int("failed", report.Failed),
		slog.Duration("took", time.Since(start)))
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.sched.Start()
	s.logger.Info("Tournament lifecycle scheduler started", slog.Duration("interval", s.interval))

	<-ctx.Done()

	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	s.logger.Info("Tournament lifecycle scheduler stopped")
	return nil
}
