package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics Prometheus collectors for the prediction endpoint
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	errors      *prometheus.CounterVec
	latency     prometheus.Histogram
}

// NewMetrics registers collectors on a private registry so several servers
// can coexist in one process.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scdaid",
			Name:      "predictions_total",
			Help:      "Phenotype predictions served, by predicted class and confidence.",
		}, []string{"predicted", "confidence"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scdaid",
			Name:      "prediction_errors_total",
			Help:      "Prediction requests that failed, by reason.",
		}, []string{"reason"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scdaid",
			Name:      "inference_duration_seconds",
			Help:      "Time spent in model inference.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observePrediction(predicted, confidence string, seconds float64) {
	m.predictions.WithLabelValues(predicted, confidence).Inc()
	m.latency.Observe(seconds)
}

func (m *Metrics) observeError(reason string) {
	m.errors.WithLabelValues(reason).Inc()
}
