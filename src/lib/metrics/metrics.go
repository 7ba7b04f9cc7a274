package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activityWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "activity",
		Name:      "writes_total",
		Help:      "Activity webhook writes by result.",
	}, []string{"result"})
	activityReads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "activity",
		Name:      "reads_total",
		Help:      "Activity reads by result (hit, miss, error).",
	}, []string{"result"})
	lastActivityWrite = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "portfolio",
		Subsystem: "activity",
		Name:      "last_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful activity write.",
	})
	pollFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "presence",
		Name:      "poll_failures_total",
		Help:      "Failed activity polls; the display keeps its last value.",
	})
	subscriptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "subscribe",
		Name:      "requests_total",
		Help:      "Subscription requests by result.",
	}, []string{"result"})
	translations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "translate",
		Name:      "requests_total",
		Help:      "Translation requests by result (cached, upstream, error).",
	}, []string{"result"})
	wsClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "portfolio",
		Subsystem: "ws",
		Name:      "connected_clients",
		Help:      "Currently connected websocket clients.",
	})
)

func init() {
	prometheus.MustRegister(
		activityWrites,
		activityReads,
		lastActivityWrite,
		pollFailures,
		subscriptions,
		translations,
		wsClients,
	)
}

// RecordActivityWrite counts a webhook write; ok moves the watermark gauge.
func RecordActivityWrite(ok bool, ts time.Time) {
	if !ok {
		activityWrites.WithLabelValues("error").Inc()
		return
	}
	activityWrites.WithLabelValues("ok").Inc()
	lastActivityWrite.Set(float64(ts.Unix()))
}

func RecordActivityRead(result string) {
	activityReads.WithLabelValues(result).Inc()
}

func RecordPollFailure() {
	pollFailures.Inc()
}

func RecordSubscription(result string) {
	subscriptions.WithLabelValues(result).Inc()
}

func RecordTranslation(result string) {
	translations.WithLabelValues(result).Inc()
}

func SetWSClients(n int) {
	wsClients.Set(float64(n))
}
