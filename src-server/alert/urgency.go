package alert

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyMedium
	UrgencyHigh
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyMedium:
		return "medium"
	case UrgencyHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Label is the title-cased name, e.g. "High".
func (u Urgency) Label() string {
	return cases.Title(language.English).String(u.String())
}

// Tone is a single synthesized beep.
type Tone struct {
	Frequency float64
	Duration  time.Duration
}

// Tone gets higher and longer with urgency.
func (u Urgency) Tone() Tone {
	switch u {
	case UrgencyHigh:
		return Tone{Frequency: 1000, Duration: 500 * time.Millisecond}
	case UrgencyMedium:
		return Tone{Frequency: 850, Duration: 400 * time.Millisecond}
	default:
		return Tone{Frequency: 700, Duration: 200 * time.Millisecond}
	}
}

// ToneOffsets lists when each tone starts, relative to the alert.
func (u Urgency) ToneOffsets() []time.Duration {
	if u == UrgencyHigh {
		return []time.Duration{0, 600 * time.Millisecond, 1200 * time.Millisecond}
	}
	return []time.Duration{0}
}

// RequireInteraction reports whether the notification should stay until
// dismissed.
func (u Urgency) RequireInteraction() bool {
	return u == UrgencyHigh
}

func (u Urgency) Emoji() string {
	switch u {
	case UrgencyHigh:
		return "🚨"
	case UrgencyMedium:
		return "⚠️"
	default:
		return "📅"
	}
}
