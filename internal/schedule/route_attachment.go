package schedule

import (
	"context"
	"log/slog"
	"sort"

	"stopboard.opentransit.org/internal/logging"
	"stopboard.opentransit.org/internal/models"
)

// routeBuildTier tags the outcome of a per-route build attempt. The caller
// switches on the tag; no build failure ever escapes as an error.
type routeBuildTier int

const (
	routeBuildDetailed routeBuildTier = iota
	routeBuildMinimal
	routeBuildUnavailable
)

// AttachRoutes builds the ordered list of route views serving a stop as of
// the given date. Per-route failures degrade that route only: a failed
// detailed build falls back to a minimal id-and-sort-key variant, and only
// when that also fails is the route omitted. The returned list is always
// valid, sorted ascending by sort key with store order preserved on ties.
func (s *Service) AttachRoutes(ctx context.Context, stopID string, opts Options) []models.RouteView {
	refs, err := s.store.FetchActiveRoutesAtStop(ctx, stopID, opts.AsOf)
	if err != nil {
		logging.LogError(s.logger, "failed to fetch active routes for stop", err,
			slog.String("stop_id", stopID))
		return []models.RouteView{}
	}

	views := make([]models.RouteView, 0, len(refs))
	for _, ref := range refs {
		view, tier := s.buildRouteView(ctx, ref, opts.IncludeAlerts)
		switch tier {
		case routeBuildMinimal:
			if s.metrics != nil {
				s.metrics.DegradedRouteBuildsTotal.Inc()
			}
			logging.LogOperation(s.logger, "route view degraded to minimal",
				slog.String("stop_id", stopID), slog.String("route_id", ref.ID))
		case routeBuildUnavailable:
			if s.metrics != nil {
				s.metrics.OmittedRouteBuildsTotal.Inc()
			}
			logging.LogOperation(s.logger, "route view omitted",
				slog.String("stop_id", stopID), slog.String("route_id", ref.ID))
			continue
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].SortOrder < views[j].SortOrder
	})
	return views
}

// buildRouteView attempts the detailed build first and degrades through the
// tiers. A ref without an id cannot produce even a minimal view.
func (s *Service) buildRouteView(ctx context.Context, ref RouteRef, includeAlerts bool) (models.RouteView, routeBuildTier) {
	if detailed, ok := s.buildDetailedRouteView(ctx, ref, includeAlerts); ok {
		return detailed, routeBuildDetailed
	}
	if ref.ID == "" {
		return models.RouteView{}, routeBuildUnavailable
	}
	return models.RouteView{
		ID:        ref.ID,
		Name:      ref.Name,
		SortOrder: ref.SortOrder,
	}, routeBuildMinimal
}

func (s *Service) buildDetailedRouteView(ctx context.Context, ref RouteRef, includeAlerts bool) (models.RouteView, bool) {
	record, err := s.store.FetchRoute(ctx, ref.ID)
	if err != nil || record == nil {
		return models.RouteView{}, false
	}

	name := record.ShortName
	if name == "" {
		name = record.LongName
	}

	view := models.RouteView{
		ID:        record.ID,
		Name:      name,
		URL:       record.URL,
		SortOrder: record.SortOrder,
	}

	if includeAlerts && s.alerts != nil {
		alerts, err := s.alerts.AlertsForRoute(ctx, record.ID)
		if err != nil {
			// Alerts are decoration; the detailed build still counts.
			logging.LogError(s.logger, "failed to fetch alerts for route", err,
				slog.String("route_id", record.ID))
		} else {
			view.Alerts = alerts
		}
	}

	return view, true
}
