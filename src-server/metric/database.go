package metric

import (
	"context"
	"time"

	"remind/src-server/kv"
)

const pingKey = "__metric_ping__"

// kvLatency measures a read of a key that never exists.
func kvLatency(ctx context.Context, backend kv.KV) (time.Duration, error) {
	start := time.Now()
	if _, _, err := backend.Get(ctx, pingKey); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
