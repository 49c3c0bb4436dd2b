// Package store keeps the ordered event collection and the views derived
// from it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"remind/src-server/kv"
	"remind/src-server/model"
)

// SnapshotKey is the single key the whole collection is persisted under.
const SnapshotKey = "events"

const trackingWindow = 24 * time.Hour

var ErrNotFound = errors.New("event not found")

type Store struct {
	mu     sync.RWMutex
	events []model.Event

	kv      kv.KV
	loc     *time.Location
	now     func() time.Time
	changes chan struct{}
}

// New returns an empty store. Call Load to rehydrate it. now stamps
// createdAt on new events.
func New(backend kv.KV, loc *time.Location, now func() time.Time) *Store {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		events:  make([]model.Event, 0),
		kv:      backend,
		loc:     loc,
		now:     now,
		changes: make(chan struct{}, 1),
	}
}

func (s *Store) Location() *time.Location {
	return s.loc
}

// Changes is signalled after every mutation. Signals coalesce: a reader
// that falls behind sees one pending signal, not one per change.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Load replaces the collection with the persisted snapshot. An absent or
// corrupt snapshot leaves the store empty; only backend errors are returned.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, SnapshotKey)
	if err != nil {
		return fmt.Errorf("(*Store).Load: %w", err)
	}

	events := make([]model.Event, 0)
	if ok {
		if err := json.Unmarshal([]byte(raw), &events); err != nil {
			slog.Warn("persisted events are corrupt, starting empty", "error", err)
			events = make([]model.Event, 0)
		}
	}

	// ids must stay unique even if the snapshot was edited by hand
	seen := make(map[string]struct{}, len(events))
	unique := events[:0]
	for _, e := range events {
		if _, dup := seen[e.ID]; dup || e.ID == "" {
			slog.Warn("dropping persisted event with blank or duplicate id", "id", e.ID, "name", e.Name)
			continue
		}
		seen[e.ID] = struct{}{}
		unique = append(unique, e)
	}

	s.mu.Lock()
	s.events = unique
	s.mu.Unlock()
	slog.Debug("events loaded", "count", len(unique))
	s.notify()
	return nil
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) error {
	if len(s.events) == 0 {
		return s.kv.Remove(ctx, SnapshotKey)
	}
	data, err := json.Marshal(s.events)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, SnapshotKey, string(data))
}

// Add creates an event from user input. The event is kept in memory even if
// persisting fails; the error is still returned.
func (s *Store) Add(ctx context.Context, newEvent model.NewEvent) (model.Event, error) {
	if err := newEvent.Validate(s.loc); err != nil {
		return model.Event{}, err
	}
	event := newEvent.Build(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.notify()
	if err := s.persist(ctx); err != nil {
		slog.Error("can't persist events", "op", "add", "error", err)
		return event, fmt.Errorf("(*Store).Add: %w", err)
	}
	return event, nil
}

// Delete removes the event with id. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	s.events = append(s.events[:idx:idx], s.events[idx+1:]...)
	s.notify()
	if err := s.persist(ctx); err != nil {
		slog.Error("can't persist events", "op", "delete", "error", err)
		return fmt.Errorf("(*Store).Delete: %w", err)
	}
	return nil
}

func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Event{}, fmt.Errorf("(*Store).SetCompleted: %s: %w", id, ErrNotFound)
	}
	if s.events[idx].Completed == completed {
		return s.events[idx], nil
	}
	s.events[idx].Completed = completed
	s.notify()
	if err := s.persist(ctx); err != nil {
		slog.Error("can't persist events", "op", "complete", "error", err)
		return s.events[idx], fmt.Errorf("(*Store).SetCompleted: %w", err)
	}
	return s.events[idx], nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Get(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.events[idx], true
	}
	return model.Event{}, false
}

// All returns a copy in insertion order.
func (s *Store) All() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Upcoming lists non-completed events strictly after now, earliest first.
func (s *Store) Upcoming(now time.Time) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type timed struct {
		event   model.Event
		instant time.Time
	}
	upcoming := make([]timed, 0, len(s.events))
	for _, e := range s.events {
		if e.Completed {
			continue
		}
		instant, ok := e.Instant(s.loc)
		if !ok || !instant.After(now) {
			continue
		}
		upcoming = append(upcoming, timed{event: e, instant: instant})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].instant.Before(upcoming[j].instant)
	})

	out := make([]model.Event, len(upcoming))
	for i, u := range upcoming {
		out[i] = u.event
	}
	return out
}

// Within24Hours is the part of Upcoming no more than 24 hours away.
func (s *Store) Within24Hours(now time.Time) []model.Event {
	limit := now.Add(trackingWindow)
	out := make([]model.Event, 0)
	for _, e := range s.Upcoming(now) {
		instant, _ := e.Instant(s.loc)
		if instant.After(limit) {
			break
		}
		out = append(out, e)
	}
	return out
}

func (s *Store) Next(now time.Time) (model.Event, bool) {
	upcoming := s.Upcoming(now)
	if len(upcoming) == 0 {
		return model.Event{}, false
	}
	return upcoming[0], true
}

func (s *Store) TimeUntil(e model.Event, now time.Time) *model.TimeRemaining {
	return model.TimeUntil(&e, now, s.loc)
}
