// Package metrics exposes decoding counters for the decoding service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "decoder"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Decoder collects request and volume counters per encoding. A nil
// *Decoder is valid and records nothing.
type Decoder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	decoded  *prometheus.CounterVec
	sizes    *prometheus.HistogramVec
}

func New() *Decoder {
	m := &Decoder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Number of decode requests by encoding and result.",
		}, []string{"encoding", "result"}),
		decoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decoded_bytes_total",
			Help:      "Number of bytes produced by successful decodes.",
		}, []string{"encoding"}),
		sizes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "input_bytes",
			Help:      "Size of the encoded input per request.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"encoding"}),
	}
	m.registry.MustRegister(m.requests, m.decoded, m.sizes)
	return m
}

// Observe records one decode of input bytes that produced output bytes,
// or failed with err.
func (m *Decoder) Observe(encoding string, input, output int, err error) {
	if m == nil {
		return
	}
	m.sizes.WithLabelValues(encoding).Observe(float64(input))
	if err != nil {
		m.requests.WithLabelValues(encoding, ResultFailure).Inc()
		return
	}
	m.requests.WithLabelValues(encoding, ResultSuccess).Inc()
	m.decoded.WithLabelValues(encoding).Add(float64(output))
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (m *Decoder) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
