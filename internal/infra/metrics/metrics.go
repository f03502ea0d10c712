// Package metrics exports alert engine and HTTP metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/NasaVasa/carewatch/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carewatch"

type Metrics struct {
	RecomputesTotal   *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram
	AlertsTotal       *prometheus.CounterVec
	DeliveriesTotal   *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecomputesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "recomputes_total",
				Help:      "Total alert recomputes by result",
			},
			[]string{"result"},
		),
		RecomputeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "recompute_duration_seconds",
				Help:      "Alert recompute latency in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		AlertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "alerts_total",
				Help:      "Alerts seen by recompute outcome",
			},
			[]string{"outcome"},
		),
		DeliveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "notify",
				Name:      "deliveries_total",
				Help:      "Notifications by delivery path",
			},
			[]string{"path"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
	}
}

func (m *Metrics) ObserveRecompute(result string, duration time.Duration) {
	m.RecomputesTotal.WithLabelValues(result).Inc()
	m.RecomputeDuration.Observe(duration.Seconds())
}

func (m *Metrics) CountAlerts(outcome string, n int) {
	if n <= 0 {
		return
	}
	m.AlertsTotal.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) CountDelivery(path usecase.DeliveryPath) {
	m.DeliveriesTotal.WithLabelValues(string(path)).Inc()
}

var _ usecase.EngineMetrics = (*Metrics)(nil)
