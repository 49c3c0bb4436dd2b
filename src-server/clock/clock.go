// Package clock samples the time once per interval so that every
// computation in one evaluation pass sees the same instant.
package clock

import (
	"context"
	"sync"
	"time"
)

type Clock struct {
	source   func() time.Time
	interval time.Duration

	mu      sync.RWMutex
	now     time.Time
	tick    chan time.Time
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New takes an initial sample right away. source defaults to time.Now.
func New(interval time.Duration, source func() time.Time) *Clock {
	if source == nil {
		source = time.Now
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Clock{
		source:   source,
		interval: interval,
		now:      source(),
		tick:     make(chan time.Time, 1),
	}
}

// Now returns the latest sample, not the wall clock.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Tick delivers each new sample. A slow reader only ever sees the most
// recent one.
func (c *Clock) Tick() <-chan time.Time {
	return c.tick
}

// Sample reads the source, stores and publishes the result.
func (c *Clock) Sample() time.Time {
	now := c.source()
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()

	select {
	case <-c.tick:
	default:
	}
	select {
	case c.tick <- now:
	default:
	}
	return now
}

// Start runs the ticker until ctx is done or Stop is called. Calling Start
// twice is a no-op.
func (c *Clock) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.stopped = make(chan struct{})
	stopped := c.stopped
	c.mu.Unlock()

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sample()
			}
		}
	}()
}

// Stop halts the ticker and waits for it to exit.
func (c *Clock) Stop() {
	c.mu.Lock()
	cancel, stopped := c.cancel, c.stopped
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}
