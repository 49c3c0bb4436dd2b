package scheduler

import (
	"context"
	"log/slog"
	"time"

	"remind/src-server/model"
)

type Clock interface {
	Now() time.Time
	Tick() <-chan time.Time
}

type EventSource interface {
	Within24Hours(now time.Time) []model.Event
	Changes() <-chan struct{}
}

// Run evaluates once right away, then on every clock tick and every change
// of the event source, until ctx is done. All evaluations happen on the
// calling goroutine, so they never overlap.
func (s *Scheduler) Run(ctx context.Context, clk Clock, events EventSource) {
	evaluate := func(now time.Time) {
		s.Evaluate(ctx, now, events.Within24Hours(now))
	}

	evaluate(clk.Now())
	slog.Info("notification scheduler started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("notification scheduler stopped")
			return
		case now := <-clk.Tick():
			evaluate(now)
		case <-events.Changes():
			evaluate(clk.Now())
		}
	}
}
