// Package metrics exposes Prometheus collectors for the request pipeline and
// the HTTP server that serves them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	requests   *prometheus.CounterVec
	stages     *prometheus.HistogramVec
	deliveries *prometheus.CounterVec
	segments   prometheus.Histogram
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menubot_requests_total",
				Help: "Handled inbound messages by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		stages: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "menubot_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
			},
			[]string{"stage"},
		),
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menubot_deliveries_total",
				Help: "Delivered answers by delivery mode",
			},
			[]string{"mode"},
		),
		segments: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "menubot_segments_per_response",
				Help:    "Number of menu segments parsed from each answer",
				Buckets: []float64{0, 1, 2, 3, 4, 5, 7, 10},
			},
		),
	}
}

// ObserveRequest counts one handled message.
func (m *Metrics) ObserveRequest(kind, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind, outcome).Inc()
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveDelivery counts one delivered answer and its segment count.
func (m *Metrics) ObserveDelivery(mode string, segments int) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(mode).Inc()
	m.segments.Observe(float64(segments))
}
