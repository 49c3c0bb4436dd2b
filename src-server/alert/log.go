package alert

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the default slog logger.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) error {
	level := slog.LevelInfo
	if n.Urgency == UrgencyHigh {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, n.Title,
		"body", n.Body,
		"tag", n.Tag,
		"urgency", n.Urgency.String(),
		"require_interaction", n.RequireInteraction,
	)
	return nil
}
