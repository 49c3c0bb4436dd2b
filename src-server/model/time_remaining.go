package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// TimeRemaining is the gap until an event, larger units exhausted first.
type TimeRemaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// TimeUntil returns nil when the event has no instant or the instant is at or
// before now.
func TimeUntil(e *Event, now time.Time, loc *time.Location) *TimeRemaining {
	instant, ok := e.Instant(loc)
	if !ok {
		return nil
	}
	return Breakdown(instant.Sub(now))
}

// Breakdown splits a positive duration at millisecond precision. Sub-second
// remainders are dropped, so a gap under a second is all zeros, not nil.
func Breakdown(d time.Duration) *TimeRemaining {
	if d <= 0 {
		return nil
	}
	ms := d.Milliseconds()
	days := ms / msPerDay
	ms -= days * msPerDay
	hours := ms / msPerHour
	ms -= hours * msPerHour
	minutes := ms / msPerMinute
	ms -= minutes * msPerMinute
	seconds := ms / msPerSecond
	return &TimeRemaining{
		Days:    int(days),
		Hours:   int(hours),
		Minutes: int(minutes),
		Seconds: int(seconds),
	}
}

// TotalMinutes drops the seconds.
func (t *TimeRemaining) TotalMinutes() int {
	return t.Days*24*60 + t.Hours*60 + t.Minutes
}

func (t *TimeRemaining) Duration() time.Duration {
	return time.Duration(t.Days)*24*time.Hour +
		time.Duration(t.Hours)*time.Hour +
		time.Duration(t.Minutes)*time.Minute +
		time.Duration(t.Seconds)*time.Second
}

// Text renders the two largest non-zero units, e.g. "in 2d 3h" or
// "in 1h 5m", falling back to "in Xm". A nil breakdown reads "soon".
func (t *TimeRemaining) Text() string {
	if t == nil {
		return "soon"
	}
	units := make([]string, 0, 2)
	for _, u := range []struct {
		n      int
		suffix string
	}{
		{t.Days, "d"},
		{t.Hours, "h"},
		{t.Minutes, "m"},
	} {
		if u.n > 0 && len(units) < 2 {
			units = append(units, fmt.Sprintf("%d%s", u.n, u.suffix))
		}
	}
	if len(units) == 0 || (t.Days == 0 && t.Hours == 0) {
		return fmt.Sprintf("in %dm", t.Minutes)
	}
	return "in " + strings.Join(units, " ")
}

type Band string

const (
	BandUrgent      Band = "urgent"
	BandSoon        Band = "soon"
	BandApproaching Band = "approaching"
	BandNormal      Band = "normal"
)

// Band buckets the countdown for display: within an hour, a day, three days,
// or further out. A nil breakdown is due now and reads as urgent.
func (t *TimeRemaining) Band() Band {
	if t == nil {
		return BandUrgent
	}
	switch total := t.TotalMinutes(); {
	case total <= 60:
		return BandUrgent
	case total <= 24*60:
		return BandSoon
	case total <= 72*60:
		return BandApproaching
	default:
		return BandNormal
	}
}
