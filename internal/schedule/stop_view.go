package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twpayne/go-polyline"

	"stopboard.opentransit.org/internal/logging"
	"stopboard.opentransit.org/internal/models"
	"stopboard.opentransit.org/internal/utils"
)

// BuildStopView shapes a raw stop record into its client-ready view.
// Identity fields are copied verbatim; the direction code is expanded to a
// rider-facing label. Amenity and route enrichment run only when route
// detail is requested, and their failures degrade to empty collections
// rather than failing the stop. Construction never returns an error for a
// well-formed record.
func (s *Service) BuildStopView(ctx context.Context, raw *RawStopRecord, opts Options) *models.StopView {
	view := &models.StopView{
		ID:           raw.ID,
		Code:         raw.Code,
		Name:         raw.Name,
		Description:  raw.Description,
		URL:          raw.URL,
		Direction:    utils.FormatDirection(raw.Direction),
		LocationType: raw.LocationType,
		Lat:          raw.Lat,
		Lon:          raw.Lon,
		Amenities:    []string{},
		Routes:       []models.RouteView{},
	}

	if opts.IncludeGeometry {
		view.Geometry = string(polyline.EncodeCoords([][]float64{{raw.Lat, raw.Lon}}))
	}

	if opts.IncludeRouteDetail {
		tags, err := s.store.FetchFeatureTags(ctx, raw.ID)
		if err != nil {
			logging.LogError(s.logger, "failed to fetch feature tags for stop", err,
				slog.String("stop_id", raw.ID))
			tags = nil
		}
		view.Amenities, view.HasAmenities = NormalizeAmenities(tags)
		view.Routes = s.AttachRoutes(ctx, raw.ID, opts)
	}

	return view
}

// BuildStopViewByID resolves a stop id through the store and builds its view.
// An unresolvable id is reported as ErrStopNotFound, never masked by an
// empty view.
func (s *Service) BuildStopViewByID(ctx context.Context, stopID string, opts Options) (*models.StopView, error) {
	raw, err := s.store.FetchStop(ctx, stopID)
	if err != nil {
		return nil, fmt.Errorf("resolving stop %q: %w", stopID, err)
	}
	return s.BuildStopView(ctx, raw, opts), nil
}
