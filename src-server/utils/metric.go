package utils

import (
	"time"

	"remind/src-server/alert"
)

// Metric carries observations from the app to the prometheus collectors in
// package metric. Sends never block: an observation is dropped when its
// collector is behind or not running.
type Metric struct {
	KVRead             chan float64
	KVWrite            chan float64
	DiscordSendMessage chan float64
	AlertsFired        chan alert.Urgency
	AlertsFailed       chan string
	TrackedCounts      chan [2]int
}

func NewMetric() *Metric {
	return &Metric{
		KVRead:             make(chan float64, 16),
		KVWrite:            make(chan float64, 16),
		DiscordSendMessage: make(chan float64, 16),
		AlertsFired:        make(chan alert.Urgency, 16),
		AlertsFailed:       make(chan string, 16),
		TrackedCounts:      make(chan [2]int, 1),
	}
}

func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func (m *Metric) ObserveRead(d time.Duration) {
	offer(m.KVRead, float64(d.Microseconds()))
}

func (m *Metric) ObserveWrite(d time.Duration) {
	offer(m.KVWrite, float64(d.Microseconds()))
}

func (m *Metric) ObserveDiscordSend(d time.Duration) {
	offer(m.DiscordSendMessage, float64(d.Microseconds()))
}

func (m *Metric) AlertFired(urgency alert.Urgency) {
	offer(m.AlertsFired, urgency)
}

func (m *Metric) AlertFailed(sink string) {
	offer(m.AlertsFailed, sink)
}

// Tracked keeps only the freshest pair in the channel.
func (m *Metric) Tracked(events, keys int) {
	select {
	case <-m.TrackedCounts:
	default:
	}
	offer(m.TrackedCounts, [2]int{events, keys})
}
