// Package metrics provides Prometheus metrics for the stopboard application.
package metrics

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Schedule aggregation metrics
	ScheduleRequestsTotal    prometheus.Counter
	EmptySchedulesTotal      prometheus.Counter
	DegradedRouteBuildsTotal prometheus.Counter
	OmittedRouteBuildsTotal  prometheus.Counter

	// Database metrics
	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge
	DBWaitSecondsTotal prometheus.Counter

	logger *slog.Logger

	// collectorStarted prevents spawning multiple collector goroutines
	collectorStarted atomic.Bool
	cancel           context.CancelFunc
	wg               sync.WaitGroup
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	return NewWithLogger(nil)
}

// NewWithLogger creates metrics with a logger for error reporting.
func NewWithLogger(logger *slog.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stopboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stopboard_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	scheduleRequestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stopboard_schedule_requests_total",
		Help: "Total number of stop schedule views assembled",
	})

	emptySchedulesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stopboard_empty_schedules_total",
		Help: "Schedule views served with zero boarding departures",
	})

	degradedRouteBuildsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stopboard_degraded_route_builds_total",
		Help: "Route attachments downgraded to the minimal variant",
	})

	omittedRouteBuildsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stopboard_omitted_route_builds_total",
		Help: "Route attachments omitted after both build tiers failed",
	})

	dbConnectionsOpen := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stopboard_db_connections_open",
		Help: "Number of open database connections",
	})

	dbConnectionsInUse := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stopboard_db_connections_in_use",
		Help: "Number of database connections currently in use",
	})

	dbWaitSecondsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stopboard_db_wait_seconds_total",
		Help: "Total time blocked waiting for a database connection",
	})

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		scheduleRequestsTotal,
		emptySchedulesTotal,
		degradedRouteBuildsTotal,
		omittedRouteBuildsTotal,
		dbConnectionsOpen,
		dbConnectionsInUse,
		dbWaitSecondsTotal,
	)

	return &Metrics{
		Registry:                 registry,
		HTTPRequestsTotal:        httpRequestsTotal,
		HTTPRequestDuration:      httpRequestDuration,
		ScheduleRequestsTotal:    scheduleRequestsTotal,
		EmptySchedulesTotal:      emptySchedulesTotal,
		DegradedRouteBuildsTotal: degradedRouteBuildsTotal,
		OmittedRouteBuildsTotal:  omittedRouteBuildsTotal,
		DBConnectionsOpen:        dbConnectionsOpen,
		DBConnectionsInUse:       dbConnectionsInUse,
		DBWaitSecondsTotal:       dbWaitSecondsTotal,
		logger:                   logger,
	}
}

// StartDBStatsCollector starts a goroutine that periodically copies database
// connection pool statistics into the corresponding gauges. Idempotent; call
// Shutdown to stop the collector.
func (m *Metrics) StartDBStatsCollector(db *sql.DB, interval time.Duration) {
	if db == nil {
		return
	}

	if !m.collectorStarted.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	var lastWaitDuration time.Duration

	// Add to WaitGroup BEFORE exposing cancel to avoid race with Shutdown
	m.wg.Add(1)
	m.cancel = cancel

	go func() {
		defer m.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				if m.logger != nil {
					m.logger.Error("panic in DB stats collector", "error", r)
				}
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats := db.Stats()
				m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
				m.DBConnectionsInUse.Set(float64(stats.InUse))

				waitDelta := stats.WaitDuration - lastWaitDuration
				if waitDelta > 0 {
					m.DBWaitSecondsTotal.Add(waitDelta.Seconds())
				}
				lastWaitDuration = stats.WaitDuration

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Shutdown stops the DB stats collector goroutine and waits for it to exit.
// Safe to call multiple times.
func (m *Metrics) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}
