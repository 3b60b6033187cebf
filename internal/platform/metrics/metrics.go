package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AlarmsRaised       *prometheus.CounterVec
	AuditWriteFailures prometheus.Counter
	BroadcastFailures  prometheus.Counter
	WSConnections      prometheus.Gauge
}

// New creates and registers all metrics on the given registerer. Passing a
// fresh registry keeps tests independent of the default global one.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AlarmsRaised: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hha_alarms_raised_total",
			Help: "Total number of vital-sign alarms raised, by severity.",
		}, []string{"severity"}),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "hha_audit_write_failures_total",
			Help: "Total number of audit entries dropped because the write failed.",
		}),
		BroadcastFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "hha_alarm_broadcast_failures_total",
			Help: "Total number of per-connection alarm send failures.",
		}),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hha_ws_connections",
			Help: "Number of currently connected alarm subscribers.",
		}),
	}
}

// AlarmRaised counts one raised alarm of the given severity.
func (m *Metrics) AlarmRaised(severity string) {
	m.AlarmsRaised.WithLabelValues(severity).Inc()
}
