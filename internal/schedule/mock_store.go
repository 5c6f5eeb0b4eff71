package schedule

import (
	"context"

	"stopboard.opentransit.org/internal/models"
)

// MockStore is an in-memory Store used by handler and service tests. Data
// lives in plain maps; the Fn fields override individual calls for fault
// injection.
type MockStore struct {
	Stops        map[string]*RawStopRecord
	Tags         map[string][]string
	ActiveRoutes map[string][]RouteRef
	Routes       map[string]*RawRouteRecord
	Events       map[string][]RawDepartureEvent
	Candidates   []RawStopRecord

	FetchStopFn            func(ctx context.Context, stopID string) (*RawStopRecord, error)
	FetchRouteFn           func(ctx context.Context, routeID string) (*RawRouteRecord, error)
	FetchActiveRoutesFn    func(ctx context.Context, stopID, asOfDate string) ([]RouteRef, error)
	FetchDepartureEventsFn func(ctx context.Context, stopID, date, routeID string) ([]RawDepartureEvent, error)
	FetchFeatureTagsFn     func(ctx context.Context, stopID string) ([]string, error)
}

// NewMockStore returns an empty MockStore ready to be populated.
func NewMockStore() *MockStore {
	return &MockStore{
		Stops:        map[string]*RawStopRecord{},
		Tags:         map[string][]string{},
		ActiveRoutes: map[string][]RouteRef{},
		Routes:       map[string]*RawRouteRecord{},
		Events:       map[string][]RawDepartureEvent{},
	}
}

func (m *MockStore) FetchStop(ctx context.Context, stopID string) (*RawStopRecord, error) {
	if m.FetchStopFn != nil {
		return m.FetchStopFn(ctx, stopID)
	}
	stop, ok := m.Stops[stopID]
	if !ok {
		return nil, ErrStopNotFound
	}
	return stop, nil
}

func (m *MockStore) FetchFeatureTags(ctx context.Context, stopID string) ([]string, error) {
	if m.FetchFeatureTagsFn != nil {
		return m.FetchFeatureTagsFn(ctx, stopID)
	}
	return m.Tags[stopID], nil
}

func (m *MockStore) FetchActiveRoutesAtStop(ctx context.Context, stopID, asOfDate string) ([]RouteRef, error) {
	if m.FetchActiveRoutesFn != nil {
		return m.FetchActiveRoutesFn(ctx, stopID, asOfDate)
	}
	return m.ActiveRoutes[stopID], nil
}

func (m *MockStore) FetchRoute(ctx context.Context, routeID string) (*RawRouteRecord, error) {
	if m.FetchRouteFn != nil {
		return m.FetchRouteFn(ctx, routeID)
	}
	route, ok := m.Routes[routeID]
	if !ok {
		return nil, ErrRouteNotFound
	}
	return route, nil
}

func (m *MockStore) FetchDepartureEvents(ctx context.Context, stopID, date, routeID string) ([]RawDepartureEvent, error) {
	if m.FetchDepartureEventsFn != nil {
		return m.FetchDepartureEventsFn(ctx, stopID, date, routeID)
	}
	events := m.Events[stopID]
	if routeID == "" {
		return events, nil
	}
	filtered := make([]RawDepartureEvent, 0, len(events))
	for _, ev := range events {
		if ev.RouteID == routeID {
			filtered = append(filtered, ev)
		}
	}
	return filtered, nil
}

func (m *MockStore) FetchCandidateStopsNear(ctx context.Context, lat, lon float64, limit int) ([]RawStopRecord, error) {
	if limit > len(m.Candidates) {
		limit = len(m.Candidates)
	}
	return m.Candidates[:limit], nil
}

// MockAddStop registers a stop with optional amenity tags.
func (m *MockStore) MockAddStop(stop RawStopRecord, tags ...string) {
	s := stop
	m.Stops[stop.ID] = &s
	if len(tags) > 0 {
		m.Tags[stop.ID] = tags
	}
}

// MockAddRoute registers a route and marks it active at the given stops.
func (m *MockStore) MockAddRoute(route RawRouteRecord, stopIDs ...string) {
	r := route
	m.Routes[route.ID] = &r
	for _, stopID := range stopIDs {
		m.ActiveRoutes[stopID] = append(m.ActiveRoutes[stopID], RouteRef{
			ID:        route.ID,
			Name:      route.ShortName,
			SortOrder: route.SortOrder,
		})
	}
}

// MockAddEvent appends a departure event for a stop in insertion order.
func (m *MockStore) MockAddEvent(stopID string, ev RawDepartureEvent) {
	m.Events[stopID] = append(m.Events[stopID], ev)
}

// StaticAlerts is an AlertSource backed by a fixed per-route map.
type StaticAlerts map[string][]models.RouteAlert

func (a StaticAlerts) AlertsForRoute(ctx context.Context, routeID string) ([]models.RouteAlert, error) {
	return a[routeID], nil
}
