package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gathered(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if !labelsMatch(m, labels) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	for _, pair := range m.GetLabel() {
		if v, ok := want[pair.GetName()]; ok && v != pair.GetValue() {
			return false
		}
	}
	return true
}

func TestActivityWriteMetrics(t *testing.T) {
	before := gathered(t, "portfolio_activity_writes_total", map[string]string{"result": "ok"})
	ts := time.Unix(1_700_000_000, 0)

	RecordActivityWrite(true, ts)
	RecordActivityWrite(false, time.Time{})

	assert.Equal(t, before+1, gathered(t, "portfolio_activity_writes_total", map[string]string{"result": "ok"}))
	assert.Equal(t, float64(ts.Unix()), gathered(t, "portfolio_activity_last_write_timestamp_seconds", nil))
}

func TestPresenceAndClientMetrics(t *testing.T) {
	before := gathered(t, "portfolio_presence_poll_failures_total", nil)
	RecordPollFailure()
	assert.Equal(t, before+1, gathered(t, "portfolio_presence_poll_failures_total", nil))

	SetWSClients(3)
	assert.Equal(t, float64(3), gathered(t, "portfolio_ws_connected_clients", nil))
}
