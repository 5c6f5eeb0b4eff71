package schedule

import (
	"log/slog"

	"stopboard.opentransit.org/internal/clock"
	"stopboard.opentransit.org/internal/metrics"
)

// Options controls how much enrichment a stop view build performs.
type Options struct {
	// IncludeRouteDetail attaches the routes serving the stop.
	IncludeRouteDetail bool

	// IncludeGeometry includes the encoded geometry payload.
	IncludeGeometry bool

	// IncludeAlerts attempts alert attachment per route. Only meaningful
	// when IncludeRouteDetail is also set.
	IncludeAlerts bool

	// AsOf is the service date (YYYY-MM-DD) used when resolving active
	// routes. Empty means today.
	AsOf string
}

// Service runs the stop-and-departure aggregation pipeline over a Store.
// It holds no per-request state; one Service may serve concurrent requests.
type Service struct {
	store   Store
	alerts  AlertSource
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService creates a Service. alerts, logger and m may be nil; a nil
// clock defaults to wall time.
func NewService(store Store, alerts AlertSource, c clock.Clock, logger *slog.Logger, m *metrics.Metrics) *Service {
	if c == nil {
		c = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		alerts:  alerts,
		clock:   c,
		logger:  logger,
		metrics: m,
	}
}
