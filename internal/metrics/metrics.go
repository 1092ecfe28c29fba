package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finacco"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "llm",
		Name:      "request_duration_seconds",
		Help:      "Upstream model call latency by operation and outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})

	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chat",
		Name:      "rate_limit_rejections_total",
		Help:      "Chat submissions blocked by the per-user rate limiter.",
	})

	DocumentFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "documents",
		Name:      "fallbacks_total",
		Help:      "Document stages served from the fixed fallback instead of the model.",
	}, []string{"stage"})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "documents",
		Name:      "exports_total",
		Help:      "PDF export attempts by outcome.",
	}, []string{"status"})

	ActiveWSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ws",
		Name:      "active_clients",
		Help:      "Connected websocket clients.",
	})
)

// ObserveLLM records one upstream call for the given operation.
func ObserveLLM(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	LLMRequestDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

// Serve exposes /metrics on its own listener so the scrape port stays separate
// from the public API.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
