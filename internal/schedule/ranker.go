package schedule

import (
	"context"
	"fmt"
	"sort"

	"stopboard.opentransit.org/internal/models"
	"stopboard.opentransit.org/internal/utils"
)

// RankNearestStops computes the precise distance from the query point to
// each candidate, sorts ascending by that distance, and assigns a dense
// 1-based rank. Any approximate ordering from the spatial pre-filter is
// recomputed here; ties keep the candidates' original relative order. An
// empty candidate set yields an empty, valid result.
func (s *Service) RankNearestStops(ctx context.Context, candidates []RawStopRecord, lat, lon float64, opts Options) []models.StopView {
	views := make([]models.StopView, 0, len(candidates))
	for i := range candidates {
		view := s.BuildStopView(ctx, &candidates[i], opts)
		view.Distance = utils.Distance(lat, lon, candidates[i].Lat, candidates[i].Lon)
		views = append(views, *view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Distance < views[j].Distance
	})

	for i := range views {
		views[i].Rank = i + 1
	}
	return views
}

// NearestStops fetches candidates near a point through the store and ranks
// them. limit must be positive.
func (s *Service) NearestStops(ctx context.Context, lat, lon float64, limit int, opts Options) ([]models.StopView, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	candidates, err := s.store.FetchCandidateStopsNear(ctx, lat, lon, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate stops: %w", err)
	}
	return s.RankNearestStops(ctx, candidates, lat, lon, opts), nil
}
