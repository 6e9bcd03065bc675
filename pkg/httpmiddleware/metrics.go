package httpmiddleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsConfig controls the request metrics middleware.
type MetricsConfig struct {
	// Namespace prefixes metric names, typically the service name.
	Namespace string
	// Registerer defaults to prometheus.DefaultRegisterer when nil.
	Registerer prometheus.Registerer
	// RoutePattern maps a request to a low-cardinality route label. Defaults
	// to the raw URL path when nil; pass the router's pattern matcher to
	// avoid per-id label explosion.
	RoutePattern func(r *http.Request) string
}

// Metrics returns a middleware recording a request counter and latency
// histogram labelled by method, route, and status.
func Metrics(cfg MetricsConfig) Middleware {
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed.",
	}, []string{"method", "route", "status"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	reg.MustRegister(requests, latency)

	routeOf := cfg.RoutePattern
	if routeOf == nil {
		routeOf = func(r *http.Request) string { return r.URL.Path }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := routeOf(r)
			requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
