package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

type Metrics struct {
	registry *prometheus.Registry

	monitoring   prometheus.Gauge
	sessions     prometheus.Counter
	applications *prometheus.CounterVec
	alerts       prometheus.Counter
	rejections   *prometheus.CounterVec
	sessionTime  prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		monitoring: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "proctor_monitoring_active",
			Help: "1 while a monitoring session is running.",
		}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "proctor_sessions_total",
			Help: "Monitoring sessions started.",
		}),
		applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proctor_scenario_applications_total",
			Help: "Scenario fixtures rendered.",
		}, []string{"scenario"}),
		alerts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "proctor_alerts_raised_total",
			Help: "Alert banners shown.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proctor_scenario_rejections_total",
			Help: "Scenario applications refused, by reason.",
		}, []string{"reason"}),
		sessionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "proctor_session_duration_seconds",
			Help:    "Length of finished monitoring sessions.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	m.registry.MustRegister(m.monitoring, m.sessions, m.applications, m.alerts, m.rejections, m.sessionTime)
	return m
}

func (m *Metrics) SessionStarted() {
	m.monitoring.Set(1)
	m.sessions.Inc()
}

func (m *Metrics) SessionStopped(seconds float64) {
	m.monitoring.Set(0)
	m.sessionTime.Observe(seconds)
}

func (m *Metrics) ScenarioApplied(id models.ScenarioID, alert bool) {
	m.applications.WithLabelValues(string(id)).Inc()
	if alert {
		m.alerts.Inc()
	}
}

// ScenarioRejected takes a fixed reason rather than the requested id,
// which is untrusted input.
func (m *Metrics) ScenarioRejected(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
