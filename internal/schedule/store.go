// Package schedule assembles client-ready views of transit stops and their
// scheduled departures: stop views with attached routes and amenities,
// deduplicated headsign groups, and distance-ranked nearest-stop lists.
package schedule

import (
	"context"
	"errors"

	"stopboard.opentransit.org/internal/models"
)

// ErrStopNotFound is returned when a requested stop id does not resolve.
// It is fatal to the request and is never masked by an empty result.
var ErrStopNotFound = errors.New("stop not found")

// ErrRouteNotFound is returned when a requested route id does not resolve.
var ErrRouteNotFound = errors.New("route not found")

// RawStopRecord is a stop as the store returns it, before any shaping.
type RawStopRecord struct {
	ID           string
	Code         string
	Name         string
	Description  string
	URL          string
	Direction    string
	LocationType int
	Lat          float64
	Lon          float64
}

// RouteRef identifies a route serving a stop. Name is best effort and may
// be empty; SortOrder is the agency's display ordering key.
type RouteRef struct {
	ID        string
	Name      string
	SortOrder int
}

// RawRouteRecord is a route's full display metadata.
type RawRouteRecord struct {
	ID        string
	ShortName string
	LongName  string
	URL       string
	SortOrder int
}

// RawDepartureEvent is one scheduled stop-time record in the store's natural
// order. That order is load bearing: bucket creation order and entry sequence
// numbers both derive from it. DepartureTime is a GTFS "HH:MM:SS" string and
// may be empty for records without a scheduled departure.
type RawDepartureEvent struct {
	TripID        string
	RouteID       string
	Headsign      string
	DirectionID   int64
	StopSequence  int
	PickupType    int
	DepartureTime string

	// Stop carries the event's stop record when the store joins it in,
	// letting the assembler build the stop view without a second lookup.
	Stop *RawStopRecord
}

// Store is the data-store boundary the aggregation pipeline reads through.
type Store interface {
	// FetchStop returns the stop record or ErrStopNotFound.
	FetchStop(ctx context.Context, stopID string) (*RawStopRecord, error)

	// FetchFeatureTags returns the raw amenity tags recorded for a stop.
	// The result may contain duplicates and blanks.
	FetchFeatureTags(ctx context.Context, stopID string) ([]string, error)

	// FetchActiveRoutesAtStop returns the distinct routes with service at
	// the stop on the given date (YYYY-MM-DD, empty means today).
	FetchActiveRoutesAtStop(ctx context.Context, stopID, asOfDate string) ([]RouteRef, error)

	// FetchRoute returns a route's display metadata or ErrRouteNotFound.
	FetchRoute(ctx context.Context, routeID string) (*RawRouteRecord, error)

	// FetchDepartureEvents returns the scheduled departure events for a
	// stop and date in the store's natural order, optionally restricted
	// to one route. The order is not guaranteed sorted by time.
	FetchDepartureEvents(ctx context.Context, stopID, date, routeID string) ([]RawDepartureEvent, error)

	// FetchCandidateStopsNear returns up to limit stops near a point,
	// spatially pre-filtered but not precisely ordered.
	FetchCandidateStopsNear(ctx context.Context, lat, lon float64, limit int) ([]RawStopRecord, error)
}

// AlertSource supplies service alerts for route attachment. Implementations
// may return an empty slice when nothing is active.
type AlertSource interface {
	AlertsForRoute(ctx context.Context, routeID string) ([]models.RouteAlert, error)
}
