// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry prometheus.Registerer

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Planner metrics
	plansGenerated  prometheus.Counter
	plansFailed     *prometheus.CounterVec
	planDuration    prometheus.Histogram
	planWeeks       prometheus.Histogram
	reusedDays      prometheus.Histogram
	distinctRecipes prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	eventsTotal     *prometheus.CounterVec
}

var _ outbound.PlanMetrics = (*MetricsCollector)(nil)

// NewMetricsCollector registers every metric with reg under namespace
func NewMetricsCollector(reg prometheus.Registerer, namespace string, logger *zap.Logger) *MetricsCollector {
	factory := promauto.With(reg)

	return &MetricsCollector{
		logger:   logger,
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "route"},
		),

		plansGenerated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "plans_generated_total",
				Help:      "Total number of meal plans generated",
			},
		),
		plansFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "plans_failed_total",
				Help:      "Total number of failed plan generations by error code",
			},
			[]string{"reason"},
		),
		planDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "generation_duration_seconds",
				Help:      "Time to load inputs, assemble and store a plan",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		planWeeks: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "plan_weeks",
				Help:      "Number of weeks per generated plan",
				Buckets:   []float64{1, 2, 4, 8, 12, 26, 52},
			},
		),
		reusedDays: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "reused_days",
				Help:      "Number of day positions copied from an earlier day",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
			},
		),
		distinctRecipes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "planner",
				Name:      "distinct_recipes",
				Help:      "Number of distinct recipes used by a plan",
				Buckets:   prometheus.LinearBuckets(4, 4, 10),
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
		eventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_total",
				Help:      "Domain events dispatched by name",
			},
			[]string{"event"},
		),
	}
}

// PlanGenerated records a successful generation
func (m *MetricsCollector) PlanGenerated(weeks, reusedDays, distinctRecipes int, duration time.Duration) {
	m.plansGenerated.Inc()
	m.planDuration.Observe(duration.Seconds())
	m.planWeeks.Observe(float64(weeks))
	m.reusedDays.Observe(float64(reusedDays))
	m.distinctRecipes.Observe(float64(distinctRecipes))
}

// PlanFailed records a failed generation
func (m *MetricsCollector) PlanFailed(reason string) {
	m.plansFailed.WithLabelValues(reason).Inc()
}

// CacheLookup records a cache hit or miss
func (m *MetricsCollector) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}

// EventDispatched counts a dispatched domain event
func (m *MetricsCollector) EventDispatched(name string) {
	m.eventsTotal.WithLabelValues(name).Inc()
}

// RegisterDBStats exports connection pool statistics of db
func (m *MetricsCollector) RegisterDBStats(db *sql.DB, name string) {
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, name)); err != nil {
		m.logger.Warn("Failed to register database stats collector",
			zap.String("db", name),
			zap.Error(err),
		)
	}
}

// Middleware records request count, latency and response size per route
// pattern
func (m *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		m.httpResponseSize.WithLabelValues(r.Method, route).Observe(float64(ww.BytesWritten()))
	})
}
