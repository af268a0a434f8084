package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	uploadsTotal       *prometheus.CounterVec
	generationsTotal   *prometheus.CounterVec
	generationDuration prometheus.Histogram
	actionsTotal       *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "empenho",
			Subsystem: "session",
			Name:      "uploads_total",
			Help:      "Total upload candidates by validation status.",
		},
		[]string{"status"},
	)
	generationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "empenho",
			Subsystem: "session",
			Name:      "generations_total",
			Help:      "Total generation attempts by outcome.",
		},
		[]string{"outcome"},
	)
	generationDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "empenho",
			Subsystem: "session",
			Name:      "generation_duration_seconds",
			Help:      "Generation attempt duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	actionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "empenho",
			Subsystem: "session",
			Name:      "actions_total",
			Help:      "Total session actions by kind.",
		},
		[]string{"action"},
	)

	registry.MustRegister(
		uploadsTotal,
		generationsTotal,
		generationDuration,
		actionsTotal,
	)

	return &Metrics{
		registry:           registry,
		uploadsTotal:       uploadsTotal,
		generationsTotal:   generationsTotal,
		generationDuration: generationDuration,
		actionsTotal:       actionsTotal,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordUpload(status string) {
	m.uploadsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordGeneration(outcome string, duration time.Duration) {
	m.generationsTotal.WithLabelValues(outcome).Inc()
	m.generationDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordAction(action string) {
	m.actionsTotal.WithLabelValues(action).Inc()
}
