package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	ParsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parses_total",
			Help: "Total number of parses by source (ai or heuristic)",
		},
		[]string{"source"},
	)
	ParseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parse_duration_seconds",
			Help:    "Parse duration in seconds by source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)
	StrategySelectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parse_strategy_selected_total",
			Help: "Times each employment strategy won arbitration",
		},
		[]string{"strategy"},
	)
	AIFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_fallbacks_total",
			Help: "Times the AI delegate failed and the heuristic engine took over",
		},
	)

	JobsEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_enqueued_total",
			Help: "Total number of jobs enqueued",
		},
		[]string{"type"},
	)
	JobsProcessing = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jobs_processing",
			Help: "Number of jobs currently processing",
		},
		[]string{"type"},
	)
	JobsCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_completed_total",
			Help: "Total number of jobs completed",
		},
		[]string{"type"},
	)
	JobsFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_failed_total",
			Help: "Total number of jobs failed",
		},
		[]string{"type"},
	)
)

// InitMetrics registers all Prometheus collectors. Call once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ParsesTotal)
	prometheus.MustRegister(ParseDuration)
	prometheus.MustRegister(StrategySelectedTotal)
	prometheus.MustRegister(AIFallbacksTotal)
	prometheus.MustRegister(JobsEnqueuedTotal)
	prometheus.MustRegister(JobsProcessing)
	prometheus.MustRegister(JobsCompletedTotal)
	prometheus.MustRegister(JobsFailedTotal)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// EnqueueJob records a job being put on the queue.
func EnqueueJob(jobType string) {
	JobsEnqueuedTotal.WithLabelValues(jobType).Inc()
}

// JobStarted marks a job as in flight.
func JobStarted(jobType string) {
	JobsProcessing.WithLabelValues(jobType).Inc()
}

// JobFinished marks a job as done, successful or not.
func JobFinished(jobType string, ok bool) {
	JobsProcessing.WithLabelValues(jobType).Dec()
	if ok {
		JobsCompletedTotal.WithLabelValues(jobType).Inc()
	} else {
		JobsFailedTotal.WithLabelValues(jobType).Inc()
	}
}

// ObserveParse records one parse outcome.
func ObserveParse(source string, d time.Duration) {
	ParsesTotal.WithLabelValues(source).Inc()
	ParseDuration.WithLabelValues(source).Observe(d.Seconds())
}
