package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidEvent = errors.New("invalid event")

const (
	DateLayout        = "2006-01-02"
	TimeLayout        = "15:04"
	TimeLayoutSeconds = "15:04:05"
)

// Event is a user-defined point in time. Only Completed may change after
// creation.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	Completed   bool      `json:"completed,omitempty"`
}

// NewEvent is what the user submits to create an Event.
type NewEvent struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

func (e *NewEvent) Validate(loc *time.Location) error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("(*NewEvent).Validate: name is blank: %w", ErrInvalidEvent)
	case e.Date == "":
		return fmt.Errorf("(*NewEvent).Validate: date is blank: %w", ErrInvalidEvent)
	case e.Time == "":
		return fmt.Errorf("(*NewEvent).Validate: time is blank: %w", ErrInvalidEvent)
	}
	if _, ok := CombineDateTime(e.Date, e.Time, loc); !ok {
		return fmt.Errorf("(*NewEvent).Validate: can't parse %q %q: %w", e.Date, e.Time, ErrInvalidEvent)
	}
	return nil
}

// Build turns the input into an Event with a fresh id.
func (e NewEvent) Build(now time.Time) Event {
	return Event{
		ID:          NewID(now),
		Name:        strings.TrimSpace(e.Name),
		Date:        e.Date,
		Time:        e.Time,
		Description: e.Description,
		CreatedAt:   now,
	}
}

// NewID combines a nanosecond timestamp with a random suffix, so two ids
// minted in the same tick still differ.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(now.UnixNano(), 36) + suffix
}

// CombineDateTime resolves a calendar date and time of day to an instant in
// loc. Seconds are optional.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{TimeLayout, TimeLayoutSeconds} {
		t, err := time.ParseInLocation(DateLayout+"T"+layout, date+"T"+clock, loc)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Instant is the event's date and time combined. ok is false when either
// part does not parse; such events never count as upcoming.
func (e *Event) Instant(loc *time.Location) (time.Time, bool) {
	return CombineDateTime(e.Date, e.Time, loc)
}
