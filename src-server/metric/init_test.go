package metric_test

import (
	"testing"
	"time"

	"remind/src-server/alert"
	"remind/src-server/kv"
	"remind/src-server/metric"
	"remind/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	t.Setenv("METRIC_COLLECTION_INTERVAL", "10ms")
	as := &utils.AppState{
		Config:      utils.NewConfig(),
		KV:          kv.NewMemory(),
		MetricChans: utils.NewMetric(),
	}
	reg := prometheus.NewRegistry()
	c := metric.InitWith(as, reg)

	as.MetricChans.AlertFired(alert.UrgencyHigh)
	as.MetricChans.AlertFired(alert.UrgencyHigh)
	as.MetricChans.AlertFailed("sound")
	as.MetricChans.Tracked(3, 5)
	as.MetricChans.ObserveWrite(1500 * time.Microsecond)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(c.AlertsFired.WithLabelValues("high")) == 2 &&
			testutil.ToFloat64(c.AlertFailures.WithLabelValues("sound")) == 1 &&
			testutil.ToFloat64(c.TrackedEvents) == 3 &&
			testutil.ToFloat64(c.DedupKeys) == 5
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, float64(0), testutil.ToFloat64(c.AlertsFired.WithLabelValues("low")))

	count, err := testutil.GatherAndCount(reg, "remind_alerts_fired_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	as.GracefulShutdown()
	require.Eventually(t, func() bool {
		n, err := testutil.GatherAndCount(reg)
		return err == nil && n == 0
	}, time.Second, 5*time.Millisecond)
}
