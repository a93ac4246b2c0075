// Package metrics exposes Prometheus metrics for the HTTP surface and the
// document store.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"news-api/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"backend", "operation", "result"},
	)

	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"backend", "operation"},
	)
)

// Middleware records request counts and latency. Requests are labelled with
// the matched chi route pattern so ids in paths do not multiply series.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		status := strconv.Itoa(code)
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type instrumentedStore struct {
	core.DocumentStore
	backend string
}

// InstrumentStore wraps store so that every Create and Find is counted and timed.
func InstrumentStore(store core.DocumentStore, backend string) core.DocumentStore {
	return &instrumentedStore{DocumentStore: store, backend: backend}
}

func (s *instrumentedStore) Create(ctx context.Context, collection string, record any) (string, error) {
	start := time.Now()
	id, err := s.DocumentStore.Create(ctx, collection, record)
	s.observe("create", start, err)
	return id, err
}

func (s *instrumentedStore) Find(ctx context.Context, collection string, filter core.Filter, limit int64) ([]core.Document, error) {
	start := time.Now()
	docs, err := s.DocumentStore.Find(ctx, collection, filter, limit)
	s.observe("find", start, err)
	return docs, err
}

func (s *instrumentedStore) observe(operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOperationsTotal.WithLabelValues(s.backend, operation, result).Inc()
	storeOperationDuration.WithLabelValues(s.backend, operation).Observe(time.Since(start).Seconds())
}
