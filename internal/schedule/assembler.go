package schedule

import (
	"context"
	"fmt"

	"stopboard.opentransit.org/internal/models"
)

// BuildScheduleView assembles the complete schedule view for one stop and
// date, optionally restricted to a single route.
//
// Three outcomes are possible. When boarding events exist, the stop view is
// built from the first qualifying event's embedded stop record and the view
// carries the aggregated entries and buckets. When the date has no boarding
// events but the stop id resolves, the view carries the stop with empty
// entries and buckets so callers can render a "no service today" state.
// When the stop id does not resolve at all, the error wraps ErrStopNotFound.
func (s *Service) BuildScheduleView(ctx context.Context, stopID, date, routeID string) (*models.ScheduleView, error) {
	if s.metrics != nil {
		s.metrics.ScheduleRequestsTotal.Inc()
	}

	events, err := s.store.FetchDepartureEvents(ctx, stopID, date, routeID)
	if err != nil {
		return nil, fmt.Errorf("fetching departure events for stop %q: %w", stopID, err)
	}

	opts := Options{
		IncludeRouteDetail: true,
		IncludeAlerts:      true,
		AsOf:               date,
	}

	// The stop view is built at most once, from the first event that
	// survives the boarding filter.
	var stopView *models.StopView
	for i := range events {
		if !IsBoardingEvent(events[i]) {
			continue
		}
		if events[i].Stop != nil {
			stopView = s.BuildStopView(ctx, events[i].Stop, opts)
		}
		break
	}

	if stopView == nil {
		// No boarding events for the date, or the store did not join in
		// the stop record. A direct lookup distinguishes an empty
		// schedule from a stop that does not exist.
		stopView, err = s.BuildStopViewByID(ctx, stopID, opts)
		if err != nil {
			return nil, err
		}
	}

	entries, buckets := AggregateHeadsigns(events)
	if len(entries) == 0 && s.metrics != nil {
		s.metrics.EmptySchedulesTotal.Inc()
	}

	view := &models.ScheduleView{
		Stop:      stopView,
		Date:      date,
		Stoptimes: entries,
		Headsigns: buckets,
	}

	if routeID != "" {
		// Echo the filter route's display view when it serves this stop.
		// A filter naming a route the stop does not serve is not an
		// error; the context is simply left unset.
		if route, ok := stopView.FindRoute(routeID); ok {
			view.SingleRouteID = route.ID
			view.SingleRouteName = route.Name
		}
	}

	return view, nil
}
