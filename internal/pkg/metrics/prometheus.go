package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "processimo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "processimo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "processimo",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Subscription lifecycle metrics
	subscriptionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "processimo",
			Subsystem: "subscription",
			Name:      "transitions_total",
			Help:      "Subscription status transitions by kind and target status",
		},
		[]string{"kind", "status"},
	)

	subscriptionsCanceling = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "processimo",
			Subsystem: "subscription",
			Name:      "canceling_count",
			Help:      "Subscriptions waiting for remote cancellation",
		},
		[]string{"kind"},
	)

	// Payment provider metrics
	paymentCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "processimo",
			Subsystem: "payment",
			Name:      "calls_total",
			Help:      "Calls made to the payment provider",
		},
		[]string{"operation", "result"},
	)

	paymentCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "processimo",
			Subsystem: "payment",
			Name:      "call_duration_seconds",
			Help:      "Payment provider call duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		},
		[]string{"operation"},
	)

	// Workflow request metrics
	workflowRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "processimo",
			Subsystem: "workflow",
			Name:      "requests_total",
			Help:      "Workflow requests by resulting status",
		},
		[]string{"status"},
	)

	// Notification metrics
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "processimo",
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Operator notification deliveries by sink and result",
		},
		[]string{"sink", "result"},
	)

	// Reconciler metrics
	reconcileRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "processimo",
			Subsystem: "reconciler",
			Name:      "runs_total",
			Help:      "Reconciliation runs by result",
		},
		[]string{"result"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSubscriptionTransition counts a subscription entering status
func RecordSubscriptionTransition(kind, status string) {
	subscriptionTransitions.WithLabelValues(kind, status).Inc()
}

// SetCanceling sets the number of subscriptions stuck in canceling
func SetCanceling(kind string, count float64) {
	subscriptionsCanceling.WithLabelValues(kind).Set(count)
}

// RecordPaymentCall records one payment provider call
func RecordPaymentCall(operation string, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	paymentCallsTotal.WithLabelValues(operation, result).Inc()
	paymentCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordWorkflowRequest counts a workflow request entering status
func RecordWorkflowRequest(status string) {
	workflowRequestsTotal.WithLabelValues(status).Inc()
}

// RecordReconcileRun counts one reconciler pass
func RecordReconcileRun(failed int) {
	result := "clean"
	if failed > 0 {
		result = "partial"
	}
	reconcileRunsTotal.WithLabelValues(result).Inc()
}

// RecordNotification records one delivery attempt outcome for sink
func RecordNotification(sink string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	notificationsTotal.WithLabelValues(sink, result).Inc()
}
