package learning

import (
	"context"
	"time"
)

const (
	DefaultInterval     = time.Hour
	DefaultInitialDelay = 30 * time.Second
)

// Scheduler fires Job once after InitialDelay and then every Interval
// until the context is cancelled.
type Scheduler struct {
	InitialDelay time.Duration
	Interval     time.Duration
	Job          func(ctx context.Context)
	// After defaults to time.After; tests substitute a controllable channel.
	After func(time.Duration) <-chan time.Time
}

// Start blocks until ctx is done
func (s *Scheduler) Start(ctx context.Context) error {
	after := s.After
	if after == nil {
		after = time.After
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	wait := s.InitialDelay
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-after(wait):
			s.Job(ctx)
			wait = interval
		}
	}
}
