package stopdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/OneBusAway/go-gtfs"

	"stopboard.opentransit.org/internal/logging"
	"stopboard.opentransit.org/internal/utils"
)

const stopTimeBatchSize = 100

// processAndStoreData imports a GTFS zip into the database. An import whose
// content hash and source match the previous one is skipped; changed content
// clears the existing data first.
func (c *Client) processAndStoreData(ctx context.Context, b []byte, source string) error {
	logger := slog.Default().With(slog.String("component", "gtfs_importer"))

	startTime := time.Now()
	defer func() {
		c.importRuntime = time.Since(startTime)
		logging.LogOperation(logger, "gtfs_data_import_completed",
			slog.Duration("duration", c.importRuntime),
			slog.String("source", source))
	}()

	hash := sha256.Sum256(b)
	hashStr := hex.EncodeToString(hash[:])

	existing, err := c.Queries.GetImportMetadata(ctx)
	if err == nil {
		if existing.FileHash == hashStr && existing.FileSource == source {
			logging.LogOperation(logger, "gtfs_data_unchanged_skipping_import",
				slog.String("hash", hashStr[:8]))
			return nil
		}
		logging.LogOperation(logger, "gtfs_data_changed_reimporting",
			slog.String("old_hash", existing.FileHash[:8]),
			slog.String("new_hash", hashStr[:8]))
		if err := c.Queries.ClearAll(ctx); err != nil {
			return fmt.Errorf("error clearing existing data: %w", err)
		}
	} else if err != sql.ErrNoRows {
		return fmt.Errorf("error checking import metadata: %w", err)
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return err
	}

	logging.LogOperation(logger, "starting_database_import",
		slog.Int("agencies", len(staticData.Agencies)),
		slog.Int("routes", len(staticData.Routes)),
		slog.Int("stops", len(staticData.Stops)),
		slog.Int("trips", len(staticData.Trips)),
		slog.Int("warnings", len(staticData.Warnings)))

	if err := c.insertAgenciesAndRoutes(ctx, staticData); err != nil {
		return err
	}
	if err := c.insertStops(ctx, staticData); err != nil {
		return err
	}
	if err := c.insertCalendar(ctx, staticData); err != nil {
		return err
	}
	if err := c.insertTripsAndStopTimes(ctx, staticData); err != nil {
		return err
	}
	if err := c.deriveStopDirections(ctx, staticData); err != nil {
		return err
	}

	if err := c.Queries.UpsertImportMetadata(ctx, ImportMetadataRow{
		FileHash:   hashStr,
		FileSource: source,
		ImportTime: time.Now().Unix(),
	}); err != nil {
		return fmt.Errorf("error updating import metadata: %w", err)
	}

	return nil
}

func (c *Client) insertAgenciesAndRoutes(ctx context.Context, staticData *gtfs.Static) error {
	for _, a := range staticData.Agencies {
		err := c.Queries.CreateAgency(ctx, CreateAgencyParams{
			ID:       a.Id,
			Name:     a.Name,
			Url:      a.Url,
			Timezone: a.Timezone,
			Lang:     toNullString(a.Language),
			Phone:    toNullString(a.Phone),
			FareUrl:  toNullString(a.FareUrl),
			Email:    toNullString(a.Email),
		})
		if err != nil {
			return fmt.Errorf("unable to create agency: %w", err)
		}
	}

	singleAgencyID := ""
	if len(staticData.Agencies) == 1 {
		singleAgencyID = staticData.Agencies[0].Id
	}

	for i, r := range staticData.Routes {
		agencyID := singleAgencyID
		if r.Agency != nil && r.Agency.Id != "" {
			agencyID = r.Agency.Id
		}
		err := c.Queries.CreateRoute(ctx, CreateRouteParams{
			ID:        r.Id,
			AgencyID:  agencyID,
			ShortName: toNullString(r.ShortName),
			LongName:  toNullString(r.LongName),
			Desc:      toNullString(r.Description),
			Type:      int64(r.Type),
			Url:       toNullString(r.Url),
			Color:     toNullString(r.Color),
			TextColor: toNullString(r.TextColor),
			SortOrder: routeSortOrder(r.ShortName, i),
		})
		if err != nil {
			return fmt.Errorf("unable to create route: %w", err)
		}
	}
	return nil
}

// routeSortOrder derives a display sort key. Feeds rarely carry an explicit
// ordering, so numeric short names sort numerically and everything else
// falls back to feed position after them.
func routeSortOrder(shortName string, feedIndex int) int64 {
	if n, err := strconv.Atoi(strings.TrimSpace(shortName)); err == nil && n >= 0 {
		return int64(n) * 10
	}
	return 1000000 + int64(feedIndex)*10
}

func (c *Client) insertStops(ctx context.Context, staticData *gtfs.Static) error {
	for _, s := range staticData.Stops {
		// Stops without coordinates (generic nodes, boarding areas) cannot
		// feed the spatial index or distance ranking; skip them rather
		// than store (0,0) placeholders.
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		err := c.Queries.CreateStop(ctx, CreateStopParams{
			ID:                 s.Id,
			Code:               toNullString(s.Code),
			Name:               toNullString(s.Name),
			Desc:               toNullString(s.Description),
			Lat:                *s.Latitude,
			Lon:                *s.Longitude,
			Url:                toNullString(s.Url),
			LocationType:       toNullInt64(int64(s.Type)),
			Direction:          sql.NullString{}, // derived after stop_times are loaded
			WheelchairBoarding: toNullInt64(int64(s.WheelchairBoarding)),
		})
		if err != nil {
			return fmt.Errorf("unable to create stop: %w", err)
		}

		if int64(s.WheelchairBoarding) == 1 {
			if err := c.Queries.CreateStopFeature(ctx, s.Id, "Wheelchair Accessible"); err != nil {
				return fmt.Errorf("unable to create stop feature: %w", err)
			}
		}
	}
	return nil
}

func (c *Client) insertCalendar(ctx context.Context, staticData *gtfs.Static) error {
	for _, s := range staticData.Services {
		err := c.Queries.CreateCalendar(ctx, CreateCalendarParams{
			ServiceID: s.Id,
			Monday:    boolToInt(s.Monday),
			Tuesday:   boolToInt(s.Tuesday),
			Wednesday: boolToInt(s.Wednesday),
			Thursday:  boolToInt(s.Thursday),
			Friday:    boolToInt(s.Friday),
			Saturday:  boolToInt(s.Saturday),
			Sunday:    boolToInt(s.Sunday),
			StartDate: s.StartDate.Format("20060102"),
			EndDate:   s.EndDate.Format("20060102"),
		})
		if err != nil {
			return fmt.Errorf("unable to create calendar: %w", err)
		}

		for _, date := range s.AddedDates {
			err := c.Queries.CreateCalendarDate(ctx, CreateCalendarDateParams{
				ServiceID:     s.Id,
				Date:          date.Format("20060102"),
				ExceptionType: 1,
			})
			if err != nil {
				return fmt.Errorf("unable to create calendar date: %w", err)
			}
		}
		for _, date := range s.RemovedDates {
			err := c.Queries.CreateCalendarDate(ctx, CreateCalendarDateParams{
				ServiceID:     s.Id,
				Date:          date.Format("20060102"),
				ExceptionType: 2,
			})
			if err != nil {
				return fmt.Errorf("unable to create calendar date: %w", err)
			}
		}
	}
	return nil
}

func (c *Client) insertTripsAndStopTimes(ctx context.Context, staticData *gtfs.Static) error {
	logger := slog.Default().With(slog.String("component", "bulk_insert"))

	tx, err := c.DB.Begin()
	if err != nil {
		return err
	}
	defer logging.SafeRollbackWithLogging(tx, logger, "bulk_insert_trips")

	qtx := c.Queries.WithTx(tx)
	var stopTimes []CreateStopTimeParams

	for _, t := range staticData.Trips {
		err := qtx.CreateTrip(ctx, CreateTripParams{
			ID:          t.ID,
			RouteID:     t.Route.Id,
			ServiceID:   t.Service.Id,
			Headsign:    toNullString(t.Headsign),
			DirectionID: toNullInt64(int64(t.DirectionId)),
			BlockID:     toNullString(t.BlockID),
		})
		if err != nil {
			return fmt.Errorf("unable to create trip: %w", err)
		}

		for _, st := range t.StopTimes {
			stopTimes = append(stopTimes, CreateStopTimeParams{
				TripID:        t.ID,
				StopID:        st.Stop.Id,
				StopSequence:  int64(st.StopSequence),
				ArrivalTime:   toNullString(formatGTFSTime(st.ArrivalTime)),
				DepartureTime: toNullString(formatGTFSTime(st.DepartureTime)),
				StopHeadsign:  toNullString(st.Headsign),
				PickupType:    int64(st.PickupType),
				DropOffType:   int64(st.DropOffType),
			})
		}
	}

	if err := bulkInsertStopTimes(ctx, tx, stopTimes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	logging.LogOperation(logger, "trips_and_stop_times_inserted",
		slog.Int("trips", len(staticData.Trips)),
		slog.Int("stop_times", len(stopTimes)))
	return nil
}

// bulkInsertStopTimes builds multi-row inserts to keep large feeds fast.
// Only placeholders carry values; nothing is concatenated into the SQL.
func bulkInsertStopTimes(ctx context.Context, tx *sql.Tx, stopTimes []CreateStopTimeParams) error {
	const baseQuery = `INSERT INTO stop_times (
		trip_id, stop_id, stop_sequence, arrival_time, departure_time,
		stop_headsign, pickup_type, drop_off_type
	) VALUES `

	for start := 0; start < len(stopTimes); start += stopTimeBatchSize {
		end := start + stopTimeBatchSize
		if end > len(stopTimes) {
			end = len(stopTimes)
		}
		batch := stopTimes[start:end]

		var query strings.Builder
		query.WriteString(baseQuery)
		args := make([]interface{}, 0, len(batch)*8)

		for j, params := range batch {
			if j > 0 {
				query.WriteString(", ")
			}
			query.WriteString("(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				params.TripID,
				params.StopID,
				params.StopSequence,
				params.ArrivalTime,
				params.DepartureTime,
				params.StopHeadsign,
				params.PickupType,
				params.DropOffType,
			)
		}

		if _, err := tx.ExecContext(ctx, query.String(), args...); err != nil {
			return fmt.Errorf("failed to insert stop_times batch: %w", err)
		}
	}
	return nil
}

// formatGTFSTime renders a time-of-day duration as "HH:MM:SS". Hours past 24
// are kept as-is for trips running past the end of the service day.
func formatGTFSTime(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// deriveStopDirections computes a compass direction for each stop from the
// bearing of travel through it, taken across every trip that visits it. A
// stop served in conflicting directions gets no direction rather than a
// misleading one.
func (c *Client) deriveStopDirections(ctx context.Context, staticData *gtfs.Static) error {
	stopPos := make(map[string][2]float64, len(staticData.Stops))
	for _, s := range staticData.Stops {
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		stopPos[s.Id] = [2]float64{*s.Latitude, *s.Longitude}
	}

	type vec struct{ x, y float64 }
	headings := make(map[string]vec)

	for _, t := range staticData.Trips {
		for i := 0; i+1 < len(t.StopTimes); i++ {
			from, okFrom := stopPos[t.StopTimes[i].Stop.Id]
			to, okTo := stopPos[t.StopTimes[i+1].Stop.Id]
			if !okFrom || !okTo || (from == to) {
				continue
			}
			bearing := utils.Bearing(from[0], from[1], to[0], to[1])
			rad := bearing * math.Pi / 180
			v := headings[t.StopTimes[i].Stop.Id]
			v.x += math.Sin(rad)
			v.y += math.Cos(rad)
			headings[t.StopTimes[i].Stop.Id] = v
		}
	}

	for stopID, v := range headings {
		// A near-zero mean vector means the stop serves opposing
		// directions; leave it blank.
		if math.Hypot(v.x, v.y) < 0.5 {
			continue
		}
		bearing := math.Mod(math.Atan2(v.x, v.y)*180/math.Pi+360, 360)
		if err := c.Queries.UpdateStopDirection(ctx, stopID, compassOctant(bearing)); err != nil {
			return fmt.Errorf("unable to update stop direction: %w", err)
		}
	}
	return nil
}

// compassOctant maps a bearing in degrees to one of the eight compass codes.
func compassOctant(bearing float64) string {
	octants := [...]string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}
	idx := int(math.Floor(bearing/45+0.5)) % 8
	return octants[idx]
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func toNullInt64(i int64) sql.NullInt64 {
	if i != 0 {
		return sql.NullInt64{Int64: i, Valid: true}
	}
	return sql.NullInt64{}
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
