// Package kv holds the key-value backends that persist the event snapshot.
package kv

import (
	"context"
	"time"
)

// KV stores opaque string values under string keys.
type KV interface {
	// Get reports ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove is a no-op for absent keys.
	Remove(ctx context.Context, key string) error
}

// LatencyObserver receives read and write latencies of a backend.
type LatencyObserver interface {
	ObserveRead(time.Duration)
	ObserveWrite(time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveRead(time.Duration)  {}
func (nopObserver) ObserveWrite(time.Duration) {}
