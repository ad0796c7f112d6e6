package middleware

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	authRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)

	ordersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_orders_created_total",
			Help: "Razorpay orders opened",
		},
	)
	paymentsVerified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_payments_verified_total",
			Help: "Payment signature verifications by result",
		},
		[]string{"result"},
	)
	quotaDenials = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "usage_quota_denials_total",
			Help: "Dataset consume attempts rejected at the limit",
		},
	)
)

// InitPrometheus registers the metrics. Call this from main.go
func InitPrometheus() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(authRejections)
	prometheus.MustRegister(ordersCreated)
	prometheus.MustRegister(paymentsVerified)
	prometheus.MustRegister(quotaDenials)
}

// RecordOrderCreated counts a successfully opened gateway order.
func RecordOrderCreated() { ordersCreated.Inc() }

// RecordPaymentVerified counts a signature check; result is "ok" or "rejected".
func RecordPaymentVerified(result string) { paymentsVerified.WithLabelValues(result).Inc() }

// RecordQuotaDenial counts a consume attempt blocked at the limit.
func RecordQuotaDenial() { quotaDenials.Inc() }

// MonitorMiddleware wraps the router to track all request stats
func MonitorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(ww, r)

		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, http.StatusText(ww.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.URL.Path, r.Method).Observe(duration)

		if ww.statusCode == http.StatusUnauthorized {
			authRejections.WithLabelValues("401_unauthorized").Inc()
		} else if ww.statusCode == http.StatusForbidden {
			authRejections.WithLabelValues("403_forbidden").Inc()
		}
	})
}

// BasicAuthMiddleware protects /metrics. Credentials come from the config
// loaded at startup, never from per-request env reads.
func BasicAuthMiddleware(metricsUser, metricsPass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()

		if !ok || metricsUser == "" || user != metricsUser || pass != metricsPass {
			w.Header().Set("WWW-Authenticate", `Basic realm="Metrics"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
