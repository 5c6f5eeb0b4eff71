// Package app wires the long-lived server dependencies together so HTTP
// handlers and middleware can share one set of them.
package app

import (
	"log/slog"

	"stopboard.opentransit.org/internal/appconf"
	"stopboard.opentransit.org/internal/clock"
	"stopboard.opentransit.org/internal/content"
	"stopboard.opentransit.org/internal/metrics"
	"stopboard.opentransit.org/internal/schedule"
	"stopboard.opentransit.org/internal/transit"
)

// Application holds the dependencies for the HTTP handlers, helpers, and
// middleware.
type Application struct {
	Config          appconf.Config
	Logger          *slog.Logger
	Clock           clock.Clock
	Metrics         *metrics.Metrics
	TransitManager  *transit.Manager
	ScheduleService *schedule.Service
	ContentService  *content.Service
}
