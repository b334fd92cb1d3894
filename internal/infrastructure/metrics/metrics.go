package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Generation
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitebuilder_generations_total",
			Help: "Page generations by requested provider and outcome",
		},
		[]string{"provider", "outcome"}, // outcome: provider|fallback
	)
	GenerationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitebuilder_generation_duration_seconds",
			Help:    "Duration of page generations",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms..25s
		},
		[]string{"provider"},
	)

	// LLM
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitebuilder_llm_requests_total",
			Help: "Number of LLM requests by provider/model",
		},
		[]string{"provider", "model"},
	)

	// Projects
	ProjectsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sitebuilder_projects_created_total",
			Help: "Total number of projects created",
		},
	)
	PagesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sitebuilder_pages_created_total",
			Help: "Total number of pages generated into projects",
		},
	)

	// DB / file storage ops
	DBOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitebuilder_db_ops_total",
			Help: "Database operations performed",
		},
		[]string{"store", "op"}, // op: get|put|delete|list
	)

	// Billing
	CheckoutSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitebuilder_checkout_sessions_total",
			Help: "Checkout sessions by mode and result",
		},
		[]string{"mode", "result"},
	)
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitebuilder_webhook_events_total",
			Help: "Billing webhook deliveries by result",
		},
		[]string{"result"}, // result: recorded|ignored|rejected
	)

	// HTTP
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	HTTPErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of HTTP request errors.",
		},
		[]string{"method", "path", "status"},
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitebuilder_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		// Generation
		Generations,
		GenerationDurationSeconds,
		LLMRequests,
		// Projects
		ProjectsCreated,
		PagesCreated,
		DBOps,
		// Billing
		CheckoutSessions,
		WebhookEvents,
		// HTTP
		HTTPRequests,
		HTTPRequestDuration,
		HTTPErrors,
		// Errors
		Errors,
	)
}

// StartMetricsServer serves /metrics on its own listener. It blocks.
func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}

// Generation
func IncGeneration(provider, outcome string) {
	Generations.WithLabelValues(provider, outcome).Inc()
}

func ObserveGenerationDuration(provider string, d time.Duration) {
	GenerationDurationSeconds.WithLabelValues(provider).Observe(d.Seconds())
}

// LLM
func IncLLMRequest(provider, model string) {
	LLMRequests.WithLabelValues(provider, model).Inc()
}

// Projects
func IncProjectsCreated() {
	ProjectsCreated.Inc()
}

func IncPagesCreated() {
	PagesCreated.Inc()
}

// DB / file ops
func IncDBOp(store, op string) {
	DBOps.WithLabelValues(store, op).Inc()
}

// Billing
func IncCheckoutSession(mode, result string) {
	CheckoutSessions.WithLabelValues(mode, result).Inc()
}

func IncWebhookEvent(result string) {
	WebhookEvents.WithLabelValues(result).Inc()
}

// HTTP
func ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	statusStr := strconv.Itoa(status)
	HTTPRequests.WithLabelValues(method, path).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(d.Seconds())
	if status >= 400 {
		HTTPErrors.WithLabelValues(method, path, statusStr).Inc()
	}
}

// Errors
func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}
