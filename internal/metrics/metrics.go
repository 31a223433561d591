// Package metrics exposes Prometheus collectors for the HTTP server, the
// document store and the generative model calls.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vitals"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	storeCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_calls_total",
		Help:      "Document store calls by backend, operation and result.",
	}, []string{"backend", "op", "result"})

	aiCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_calls_total",
		Help:      "Generative model calls by provider, purpose and result.",
	}, []string{"provider", "purpose", "result"})

	rejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_in_progress_rejected_total",
		Help:      "Requests rejected because the same control already had one in flight.",
	}, []string{"control"})
)

// ObserveHTTPRequest records one served request
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveStoreCall records one document store call
func ObserveStoreCall(backend, op string, err error) {
	storeCalls.WithLabelValues(backend, op, result(err)).Inc()
}

// ObserveAICall records one generative model call
func ObserveAICall(provider, purpose string, err error) {
	aiCalls.WithLabelValues(provider, purpose, result(err)).Inc()
}

// ObserveRejected records a request refused because its control was busy
func ObserveRejected(control string) {
	rejected.WithLabelValues(control).Inc()
}

// Handler serves the default registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.Handler()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
