package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu   sync.Mutex
	now  time.Time
	tick chan time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Tick() <-chan time.Time { return c.tick }

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()
	c.tick <- now
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications)
}

func TestRun(t *testing.T) {
	f := newFixture(t)
	clk := &manualClock{now: base, tick: make(chan time.Time)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.sched.Run(ctx, clk, f.store)
	}()

	// a store change triggers an evaluation at the current sample
	f.add(t, "soon", base.Add(10*time.Minute))
	require.Eventually(t, func() bool { return f.rec.count() == 1 }, time.Second, 5*time.Millisecond)

	// ticks inside the same bucket stay quiet, the high threshold does not
	// open a new bucket either
	clk.advance(time.Minute)
	clk.advance(5 * time.Minute)
	assert.Equal(t, 1, f.rec.count())

	f.add(t, "later", base.Add(20*time.Hour))
	require.Eventually(t, func() bool { return f.rec.count() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
