package provider

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transcriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "a2t",
		Subsystem: "provider",
		Name:      "transcriptions_total",
		Help:      "Completed transcriptions by provider and outcome.",
	}, []string{"provider", "outcome"})

	transcriptionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "a2t",
		Subsystem: "provider",
		Name:      "errors_total",
		Help:      "Transcription failures by provider and error type.",
	}, []string{"provider", "error_type"})

	transcriptionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "a2t",
		Subsystem: "provider",
		Name:      "latency_seconds",
		Help:      "Wall-clock transcription latency by provider.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"provider"})

	audioSecondsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "a2t",
		Subsystem: "provider",
		Name:      "audio_seconds_total",
		Help:      "Estimated seconds of audio processed by provider.",
	}, []string{"provider"})
)

// PrometheusMetrics implements ProviderMetrics on the default prometheus
// registry. The serve command exposes the registry on /metrics.
type PrometheusMetrics struct{}

// NewProviderMetrics creates the prometheus-backed metrics recorder
func NewProviderMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{}
}

// RecordSuccess records a successful transcription
func (m *PrometheusMetrics) RecordSuccess(provider string, latency time.Duration, audioSeconds float64) {
	transcriptionsTotal.WithLabelValues(provider, "success").Inc()
	transcriptionLatency.WithLabelValues(provider).Observe(latency.Seconds())
	if audioSeconds > 0 {
		audioSecondsTotal.WithLabelValues(provider).Add(audioSeconds)
	}
}

// RecordFailure records a failed transcription
func (m *PrometheusMetrics) RecordFailure(provider string, errorType string) {
	transcriptionsTotal.WithLabelValues(provider, "failure").Inc()
	transcriptionErrors.WithLabelValues(provider, errorType).Inc()
}
