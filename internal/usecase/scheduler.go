package usecase

import (
	"context"
	"log/slog"
	"time"

	"VergeDigest/internal/ports"
)

// Scheduler wires a ticker-like driver with the digest refresh.
type Scheduler struct {
	driver ports.Scheduler
	digest *Digest
}

// NewScheduler returns a helper to start/stop recurring refreshes.
func NewScheduler(driver ports.Scheduler, digest *Digest) *Scheduler {
	return &Scheduler{driver: driver, digest: digest}
}

// Start registers the headline refresh with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.digest == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.digest.Refresh(ctx); err != nil {
			s.digest.log(slog.LevelWarn, "scheduled refresh failed", "trigger", trigger.Format(time.RFC3339), "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
