package metric

import (
	"context"
	"log/slog"
	"time"

	"remind/src-server/alert"
	"remind/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collectors struct {
	KVEmptyRead        prometheus.Gauge
	KVRead             prometheus.Gauge
	KVWrite            prometheus.Gauge
	DiscordSendMessage prometheus.Gauge
	AlertsFired        *prometheus.CounterVec
	AlertFailures      *prometheus.CounterVec
	TrackedEvents      prometheus.Gauge
	DedupKeys          prometheus.Gauge
}

func register(reg prometheus.Registerer, c prometheus.Collector, name string) bool {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register "+name+" metric", "error", err)
			return false
		}
	}
	slog.Debug(name + " metric registered")
	return true
}

func unregister(reg prometheus.Registerer, c prometheus.Collector, name string) {
	switch reg.Unregister(c) {
	case true:
		slog.Debug(name + " metric unregistered")
	case false:
		slog.Warn(name + " metric not registered")
	}
}

func kvEmptyRead(as *utils.AppState, reg prometheus.Registerer, tickerInterval time.Duration) prometheus.Gauge {
	const name = "remind_kv_empty_read_microsec"
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: "The latency of an empty key-value store read in microseconds",
	})
	if register(reg, gauge, name) {
		gauge.Set(0)
	}
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(reg, gauge, name)
				return
			case <-ticker.C:
				latency, err := kvLatency(context.Background(), as.KV)
				if err != nil {
					slog.Error("can't get key-value store latency", "error", err)
					continue
				}
				gauge.Set(float64(latency.Microseconds()))
			}
		}
	}()
	return gauge
}

// latency reports the last observed value and drops back to 0 when nothing
// was observed for clearTickerInterval.
func latency(as *utils.AppState, reg prometheus.Registerer, name, help string, ch <-chan float64, clearTickerInterval time.Duration) prometheus.Gauge {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	if register(reg, gauge, name) {
		gauge.Set(0)
	}
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		clearTicker := time.NewTicker(clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(reg, gauge, name)
				return
			case v := <-ch:
				gauge.Set(v)
				clearTicker.Reset(clearTickerInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
	return gauge
}

func alerts(as *utils.AppState, reg prometheus.Registerer, c *Collectors) {
	factory := promauto.With(reg)
	c.AlertsFired = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "remind_alerts_fired_total",
		Help: "Reminder alerts fired, by urgency",
	}, []string{"urgency"})
	c.AlertFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "remind_alert_failures_total",
		Help: "Alert sink failures, by sink",
	}, []string{"sink"})
	c.TrackedEvents = factory.NewGauge(prometheus.GaugeOpts{
		Name: "remind_tracked_events",
		Help: "Events within the next 24 hours",
	})
	c.DedupKeys = factory.NewGauge(prometheus.GaugeOpts{
		Name: "remind_dedup_keys",
		Help: "Remembered alert keys",
	})
	for _, u := range []alert.Urgency{alert.UrgencyLow, alert.UrgencyMedium, alert.UrgencyHigh} {
		c.AlertsFired.WithLabelValues(u.String())
	}

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		for {
			select {
			case <-*gracefulShutdownCh:
				for name, collector := range map[string]prometheus.Collector{
					"remind_alerts_fired_total":   c.AlertsFired,
					"remind_alert_failures_total": c.AlertFailures,
					"remind_tracked_events":       c.TrackedEvents,
					"remind_dedup_keys":           c.DedupKeys,
				} {
					unregister(reg, collector, name)
				}
				return
			case urgency := <-as.MetricChans.AlertsFired:
				c.AlertsFired.WithLabelValues(urgency.String()).Inc()
			case sink := <-as.MetricChans.AlertsFailed:
				c.AlertFailures.WithLabelValues(sink).Inc()
			case counts := <-as.MetricChans.TrackedCounts:
				c.TrackedEvents.Set(float64(counts[0]))
				c.DedupKeys.Set(float64(counts[1]))
			}
		}
	}()
}

func Init(as *utils.AppState) *Collectors {
	return InitWith(as, prometheus.DefaultRegisterer)
}

func InitWith(as *utils.AppState, reg prometheus.Registerer) *Collectors {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	c := &Collectors{}
	c.KVEmptyRead = kvEmptyRead(as, reg, tickerInterval)
	c.KVRead = latency(as, reg,
		"remind_kv_read_microsec", "The latency of a key-value store read in microseconds",
		as.MetricChans.KVRead, clearTickerInterval)
	c.KVWrite = latency(as, reg,
		"remind_kv_write_microsec", "The latency of a key-value store write in microseconds",
		as.MetricChans.KVWrite, clearTickerInterval)
	c.DiscordSendMessage = latency(as, reg,
		"remind_discord_send_message_microsec", "The latency of a discord message send in microseconds",
		as.MetricChans.DiscordSendMessage, clearTickerInterval)
	alerts(as, reg, c)
	return c
}
