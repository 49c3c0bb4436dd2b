// Package scheduler decides which reminders fire, and at what urgency, as
// the clock ticks towards each tracked event.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"remind/src-server/alert"
	"remind/src-server/model"
)

const (
	highMinutes   = 5
	mediumMinutes = 30
	hourMinutes   = 60
	dayMinutes    = 24 * 60
)

// notifyTimeout bounds one notification send once it has left the loop.
const notifyTimeout = 30 * time.Second

// bucket24h marks the one-shot alert fired on entering the 24 hour window.
const bucket24h = -1

// dedupKey records that an event has been alerted for one bucket: an hour
// bucket (minutes remaining / 60) or bucket24h.
type dedupKey struct {
	eventID string
	bucket  int
}

func (k dedupKey) String() string {
	if k.bucket == bucket24h {
		return k.eventID + "-24h"
	}
	return fmt.Sprintf("%s-%d", k.eventID, k.bucket)
}

// Classify maps minutes remaining to an urgency. ok is false past 24 hours.
func Classify(totalMinutes int) (urgency alert.Urgency, ok bool) {
	switch {
	case totalMinutes <= highMinutes:
		return alert.UrgencyHigh, true
	case totalMinutes <= mediumMinutes:
		return alert.UrgencyMedium, true
	case totalMinutes <= hourMinutes:
		return alert.UrgencyMedium, true
	case totalMinutes <= dayMinutes:
		return alert.UrgencyLow, true
	default:
		return alert.UrgencyLow, false
	}
}

// Observer is told about every alert fired and every sink failure.
type Observer interface {
	AlertFired(urgency alert.Urgency)
	AlertFailed(sink string)
	Tracked(events, keys int)
}

type nopObserver struct{}

func (nopObserver) AlertFired(alert.Urgency) {}
func (nopObserver) AlertFailed(string)       {}
func (nopObserver) Tracked(int, int)         {}

// Scheduler owns the dedup state. It is not safe for concurrent use; Run
// confines it to one goroutine.
type Scheduler struct {
	notifier alert.Notifier
	player   alert.TonePlayer
	loc      *time.Location
	observer Observer

	// after schedules fire-and-forget notifications and tones; swapped in
	// tests
	after func(d time.Duration, f func())

	fired map[dedupKey]struct{}
}

type Option func(*Scheduler)

func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

func WithAfterFunc(after func(d time.Duration, f func())) Option {
	return func(s *Scheduler) { s.after = after }
}

func New(notifier alert.Notifier, player alert.TonePlayer, loc *time.Location, opts ...Option) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if player == nil {
		player = alert.NopPlayer{}
	}
	s := &Scheduler{
		notifier: notifier,
		player:   player,
		loc:      loc,
		observer: nopObserver{},
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		fired: make(map[dedupKey]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate runs one pass over the events tracked at now (the within-24h
// view computed at the same instant). It is idempotent: a second call with
// the same arguments fires nothing.
func (s *Scheduler) Evaluate(ctx context.Context, now time.Time, tracked []model.Event) {
	for i := range tracked {
		event := &tracked[i]
		remaining := model.TimeUntil(event, now, s.loc)
		if remaining == nil {
			continue
		}

		totalMinutes := remaining.TotalMinutes()
		urgency, ok := Classify(totalMinutes)
		if !ok {
			continue
		}

		key := dedupKey{eventID: event.ID, bucket: totalMinutes / 60}
		if urgency == alert.UrgencyLow {
			key.bucket = bucket24h
		}
		if _, done := s.fired[key]; done {
			continue
		}
		s.fired[key] = struct{}{}
		slog.Debug("alert due", "event_id", event.ID, "key", key.String(), "urgency", urgency.String(), "minutes", totalMinutes)
		s.fire(ctx, event, remaining, urgency)
	}

	s.collect(tracked)
	s.observer.Tracked(len(tracked), len(s.fired))
}

// collect forgets every key of an event that is no longer tracked.
func (s *Scheduler) collect(tracked []model.Event) {
	ids := make(map[string]struct{}, len(tracked))
	for _, e := range tracked {
		ids[e.ID] = struct{}{}
	}
	for key := range s.fired {
		if _, ok := ids[key.eventID]; !ok {
			delete(s.fired, key)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, event *model.Event, remaining *model.TimeRemaining, urgency alert.Urgency) {
	s.observer.AlertFired(urgency)

	n := alert.Notification{
		Title:              urgency.Emoji() + " Event Reminder",
		Body:               fmt.Sprintf("%s %s\n%s", event.Name, remaining.Text(), event.Description),
		Tag:                event.ID,
		Urgency:            urgency,
		RequireInteraction: urgency.RequireInteraction(),
	}
	eventID := event.ID
	// the send outlives the pass, and a shutdown mid-send must not cut it
	notifyCtx := context.WithoutCancel(ctx)
	s.after(0, func() {
		ctx, cancel := context.WithTimeout(notifyCtx, notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, n); err != nil {
			slog.Warn("can't show notification", "event_id", eventID, "error", err)
			s.observer.AlertFailed("notification")
		}
	})

	tone := urgency.Tone()
	for _, offset := range urgency.ToneOffsets() {
		s.after(offset, func() {
			if err := s.player.PlayTone(tone.Frequency, tone.Duration); err != nil {
				slog.Warn("can't play notification sound", "event_id", eventID, "error", err)
				s.observer.AlertFailed("sound")
			}
		})
	}
}

// Fired reports whether the alert identified by key text (e.g. "abc-0" or
// "abc-24h") has fired and is still remembered.
func (s *Scheduler) Fired(key string) bool {
	for k := range s.fired {
		if k.String() == key {
			return true
		}
	}
	return false
}

// Keys returns the number of remembered alerts.
func (s *Scheduler) Keys() int {
	return len(s.fired)
}
