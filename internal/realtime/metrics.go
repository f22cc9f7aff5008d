package realtime

import "github.com/prometheus/client_golang/prometheus"

var (
	connectionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aivy_realtime_connections",
			Help: "Currently admitted websocket connections",
		},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aivy_realtime_events_total",
			Help: "Inbound events processed by kind",
		},
		[]string{"kind"},
	)

	malformedEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aivy_realtime_malformed_events_total",
			Help: "Inbound events dropped for missing required fields or unknown kind",
		},
	)

	rejectedConnectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aivy_realtime_rejected_connections_total",
			Help: "Connection attempts refused at the gate",
		},
		[]string{"reason"},
	)

	droppedSendsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aivy_realtime_dropped_sends_total",
			Help: "Outbound frames dropped for slow or torn-down connections",
		},
	)

	statusPersistFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aivy_realtime_status_persist_failures_total",
			Help: "Fire-and-forget online-status writes that failed",
		},
	)
)

func init() {
	prometheus.MustRegister(connectionsGauge)
	prometheus.MustRegister(eventsTotal)
	prometheus.MustRegister(malformedEventsTotal)
	prometheus.MustRegister(rejectedConnectionsTotal)
	prometheus.MustRegister(droppedSendsTotal)
	prometheus.MustRegister(statusPersistFailuresTotal)
}
