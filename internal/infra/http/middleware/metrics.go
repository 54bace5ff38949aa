// Package middleware holds the Prometheus instrumentation of the API and of
// the campaign pipeline.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "outreach"

// unmatchedRoute labels requests no route matched.
const unmatchedRoute = "unmatched"

// Dry runs are served synchronously and can take minutes, so latency buckets
// reach well past the usual API range.
var latencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 60, 180}

var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "API requests by route and response code",
	}, []string{"method", "route", "code"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_seconds",
		Help:      "API request latency by route",
		Buckets:   latencyBuckets,
	}, []string{"method", "route"})

	apiInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "in_flight_requests",
		Help:      "API requests being served",
	})

	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_total",
		Help:      "Ledger entries recorded, by status",
	}, []string{"status"})

	generationFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_fallbacks_total",
		Help:      "Messages that used the fallback template",
	})

	providerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrichment_provider_errors_total",
		Help:      "Enrichment provider calls that failed",
	}, []string{"provider"})
)

// Metrics instruments every request. The route label is the chi pattern,
// never the raw path.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiInFlight.Inc()
		defer apiInFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start).Seconds()

		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		route := routePattern(r)

		apiRequests.WithLabelValues(r.Method, route, strconv.Itoa(code)).Inc()
		apiLatency.WithLabelValues(r.Method, route).Observe(elapsed)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedRoute
}

// PrometheusObserver feeds pipeline events into the outreach counters.
type PrometheusObserver struct{}

func (PrometheusObserver) MessageRecorded(status string) {
	messagesTotal.WithLabelValues(status).Inc()
}

func (PrometheusObserver) GenerationFellBack() {
	generationFallbacks.Inc()
}

func (PrometheusObserver) ProviderFailed(provider string) {
	providerErrors.WithLabelValues(provider).Inc()
}
