package alert

import (
	"context"
	"log/slog"
	"sync"
)

// PermissionGate asks its notifier for permission once and drops every
// notification until permission is granted. Denial is final for the life
// of the process.
type PermissionGate struct {
	next Notifier

	once       sync.Once
	mu         sync.RWMutex
	permission Permission
}

func NewPermissionGate(next Notifier) *PermissionGate {
	return &PermissionGate{next: next}
}

// RequestPermission only asks the first time; later calls return the
// recorded answer and no error. A gate is itself a PermissionRequester, so
// gates nest: each member of a MultiNotifier can carry its own.
func (g *PermissionGate) RequestPermission(ctx context.Context) (Permission, error) {
	var err error
	g.once.Do(func() {
		permission := PermissionGranted
		if requester, ok := g.next.(PermissionRequester); ok {
			var p Permission
			p, err = requester.RequestPermission(ctx)
			if err != nil {
				slog.Warn("notification permission request failed", "error", err)
			}
			permission = p
		}
		g.mu.Lock()
		g.permission = permission
		g.mu.Unlock()
		slog.Info("notification permission", "permission", permission.String())
	})
	return g.Permission(), err
}

func (g *PermissionGate) Permission() Permission {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.permission
}

func (g *PermissionGate) Notify(ctx context.Context, n Notification) error {
	if g.Permission() != PermissionGranted {
		return nil
	}
	return g.next.Notify(ctx, n)
}
