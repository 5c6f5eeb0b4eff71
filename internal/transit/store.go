package transit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stopboard.opentransit.org/internal/schedule"
	"stopboard.opentransit.org/internal/utils"
	"stopboard.opentransit.org/stopdb"
)

// Manager implements schedule.Store over the stop database.
var _ schedule.Store = (*Manager)(nil)

func (m *Manager) FetchStop(ctx context.Context, stopID string) (*schedule.RawStopRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, err := m.client.Queries.GetStop(ctx, stopID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrStopNotFound
		}
		return nil, fmt.Errorf("fetching stop %q: %w", stopID, err)
	}
	record := stopRecordFromRow(row)
	return &record, nil
}

func (m *Manager) FetchFeatureTags(ctx context.Context, stopID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.client.Queries.GetStopFeatures(ctx, stopID)
}

func (m *Manager) FetchActiveRoutesAtStop(ctx context.Context, stopID, asOfDate string) ([]schedule.RouteRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.client.Queries.GetActiveRoutesForStop(ctx, stopID, m.serviceDate(asOfDate))
	if err != nil {
		return nil, err
	}

	refs := make([]schedule.RouteRef, 0, len(rows))
	for _, row := range rows {
		name := utils.NullStringOrEmpty(row.ShortName)
		if name == "" {
			name = utils.NullStringOrEmpty(row.LongName)
		}
		refs = append(refs, schedule.RouteRef{
			ID:        row.ID,
			Name:      name,
			SortOrder: int(row.SortOrder),
		})
	}
	return refs, nil
}

func (m *Manager) FetchRoute(ctx context.Context, routeID string) (*schedule.RawRouteRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, err := m.client.Queries.GetRoute(ctx, routeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrRouteNotFound
		}
		return nil, fmt.Errorf("fetching route %q: %w", routeID, err)
	}

	return &schedule.RawRouteRecord{
		ID:        row.ID,
		ShortName: utils.NullStringOrEmpty(row.ShortName),
		LongName:  utils.NullStringOrEmpty(row.LongName),
		URL:       utils.NullStringOrEmpty(row.Url),
		SortOrder: int(row.SortOrder),
	}, nil
}

func (m *Manager) FetchDepartureEvents(ctx context.Context, stopID, date, routeID string) ([]schedule.RawDepartureEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.client.Queries.GetDepartureEventsForStop(ctx, stopdb.GetDepartureEventsParams{
		StopID:  stopID,
		Date:    m.serviceDate(date),
		RouteID: routeID,
	})
	if err != nil {
		return nil, err
	}

	// Join the stop record in once so the assembler can build the stop
	// view from the first boarding event without a second lookup.
	var stop *schedule.RawStopRecord
	if stopRow, err := m.client.Queries.GetStop(ctx, stopID); err == nil {
		record := stopRecordFromRow(stopRow)
		stop = &record
	}

	events := make([]schedule.RawDepartureEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, schedule.RawDepartureEvent{
			TripID:        row.TripID,
			RouteID:       row.RouteID,
			Headsign:      row.Headsign,
			DirectionID:   row.DirectionID,
			StopSequence:  int(row.StopSequence),
			PickupType:    int(row.PickupType),
			DepartureTime: utils.NullStringOrEmpty(row.DepartureTime),
			Stop:          stop,
		})
	}
	return events, nil
}

func (m *Manager) FetchCandidateStopsNear(ctx context.Context, lat, lon float64, limit int) ([]schedule.RawStopRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.stopIndex == nil {
		return nil, nil
	}

	candidates := m.stopIndex.nearest(lat, lon, limit)
	records := make([]schedule.RawStopRecord, 0, len(candidates))
	for _, c := range candidates {
		row, err := m.client.Queries.GetStop(ctx, c.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Index briefly ahead of the table during reload.
				continue
			}
			return nil, fmt.Errorf("fetching candidate stop %q: %w", c.ID, err)
		}
		records = append(records, stopRecordFromRow(row))
	}
	return records, nil
}

func stopRecordFromRow(row stopdb.StopRow) schedule.RawStopRecord {
	return schedule.RawStopRecord{
		ID:           row.ID,
		Code:         utils.NullStringOrEmpty(row.Code),
		Name:         utils.NullStringOrEmpty(row.Name),
		Description:  utils.NullStringOrEmpty(row.Desc),
		URL:          utils.NullStringOrEmpty(row.Url),
		Direction:    utils.NullStringOrEmpty(row.Direction),
		LocationType: int(row.LocationType.Int64),
		Lat:          row.Lat,
		Lon:          row.Lon,
	}
}
