package stopdb

// Hand-written query layer. Each query keeps the same shape: a const SQL
// string, a Params/Row struct where the arguments or columns warrant one,
// and a method on Queries that scans into typed rows.

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// weekdayColumns maps time.Weekday values to calendar table columns.
var weekdayColumns = [...]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// serviceDay converts a YYYY-MM-DD service date to the compact form stored
// in calendar rows plus the weekday column to check.
func serviceDay(date string) (string, string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", "", fmt.Errorf("invalid service date %q: %w", date, err)
	}
	return t.Format("20060102"), weekdayColumns[int(t.Weekday())], nil
}

// activeServiceFilter selects the service ids running on a date: regular
// calendar entries for that weekday and date range, plus added exceptions,
// minus removed exceptions. The weekday column is interpolated from a fixed
// table, never from input.
const activeServiceFilter = `
SELECT c.service_id FROM calendar c
WHERE c.start_date <= ? AND c.end_date >= ? AND c.%s = 1
UNION
SELECT cd.service_id FROM calendar_dates cd
WHERE cd.date = ? AND cd.exception_type = 1
EXCEPT
SELECT cd.service_id FROM calendar_dates cd
WHERE cd.date = ? AND cd.exception_type = 2
`

const getStop = `
SELECT
    s.id,
    s.code,
    s.name,
    s."desc",
    s.lat,
    s.lon,
    s.url,
    s.location_type,
    s.direction
FROM stops s
WHERE s.id = ?
`

type StopRow struct {
	ID           string
	Code         sql.NullString
	Name         sql.NullString
	Desc         sql.NullString
	Lat          float64
	Lon          float64
	Url          sql.NullString
	LocationType sql.NullInt64
	Direction    sql.NullString
}

func (q *Queries) GetStop(ctx context.Context, id string) (StopRow, error) {
	var i StopRow
	err := q.db.QueryRowContext(ctx, getStop, id).Scan(
		&i.ID,
		&i.Code,
		&i.Name,
		&i.Desc,
		&i.Lat,
		&i.Lon,
		&i.Url,
		&i.LocationType,
		&i.Direction,
	)
	return i, err
}

const getStopFeatures = `
SELECT feature_name FROM stop_features WHERE stop_id = ? ORDER BY feature_name
`

func (q *Queries) GetStopFeatures(ctx context.Context, stopID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getStopFeatures, stopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getActiveRoutesForStop = `
SELECT DISTINCT
    r.id,
    r.short_name,
    r.long_name,
    r.sort_order
FROM stop_times st
JOIN trips t ON t.id = st.trip_id
JOIN routes r ON r.id = t.route_id
WHERE st.stop_id = ?
AND t.service_id IN (` + activeServiceFilter + `)
ORDER BY r.sort_order, r.id
`

type ActiveRouteRow struct {
	ID        string
	ShortName sql.NullString
	LongName  sql.NullString
	SortOrder int64
}

func (q *Queries) GetActiveRoutesForStop(ctx context.Context, stopID, date string) ([]ActiveRouteRow, error) {
	compact, weekday, err := serviceDay(date)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(getActiveRoutesForStop, weekday)
	rows, err := q.db.QueryContext(ctx, query, stopID, compact, compact, compact, compact)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []ActiveRouteRow
	for rows.Next() {
		var i ActiveRouteRow
		if err := rows.Scan(&i.ID, &i.ShortName, &i.LongName, &i.SortOrder); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRoute = `
SELECT
    r.id,
    r.agency_id,
    r.short_name,
    r.long_name,
    r."desc",
    r.type,
    r.url,
    r.color,
    r.text_color,
    r.sort_order
FROM routes r
WHERE r.id = ?
`

type RouteRow struct {
	ID        string
	AgencyID  string
	ShortName sql.NullString
	LongName  sql.NullString
	Desc      sql.NullString
	Type      int64
	Url       sql.NullString
	Color     sql.NullString
	TextColor sql.NullString
	SortOrder int64
}

func (q *Queries) GetRoute(ctx context.Context, id string) (RouteRow, error) {
	var i RouteRow
	err := q.db.QueryRowContext(ctx, getRoute, id).Scan(
		&i.ID,
		&i.AgencyID,
		&i.ShortName,
		&i.LongName,
		&i.Desc,
		&i.Type,
		&i.Url,
		&i.Color,
		&i.TextColor,
		&i.SortOrder,
	)
	return i, err
}

// getDepartureEventsForStop returns the day's stop times in the store's
// natural order: trip id, then stop sequence. Downstream aggregation depends
// on this order being stable across runs.
const getDepartureEventsForStop = `
SELECT
    st.trip_id,
    t.route_id,
    COALESCE(st.stop_headsign, t.headsign, ''),
    COALESCE(t.direction_id, 0),
    st.stop_sequence,
    st.pickup_type,
    st.departure_time
FROM stop_times st
JOIN trips t ON t.id = st.trip_id
WHERE st.stop_id = ?
AND t.service_id IN (` + activeServiceFilter + `)
`

const departureEventsOrder = `
ORDER BY st.trip_id, st.stop_sequence
`

type GetDepartureEventsParams struct {
	StopID  string
	Date    string
	RouteID string
}

type DepartureEventRow struct {
	TripID        string
	RouteID       string
	Headsign      string
	DirectionID   int64
	StopSequence  int64
	PickupType    int64
	DepartureTime sql.NullString
}

func (q *Queries) GetDepartureEventsForStop(ctx context.Context, arg GetDepartureEventsParams) ([]DepartureEventRow, error) {
	compact, weekday, err := serviceDay(arg.Date)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(getDepartureEventsForStop, weekday)
	args := []interface{}{arg.StopID, compact, compact, compact, compact}
	if arg.RouteID != "" {
		query += "AND t.route_id = ?\n"
		args = append(args, arg.RouteID)
	}
	query += departureEventsOrder

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []DepartureEventRow
	for rows.Next() {
		var i DepartureEventRow
		if err := rows.Scan(
			&i.TripID,
			&i.RouteID,
			&i.Headsign,
			&i.DirectionID,
			&i.StopSequence,
			&i.PickupType,
			&i.DepartureTime,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listStopCoordinates = `
SELECT s.id, s.lat, s.lon FROM stops s ORDER BY s.id
`

type StopCoordinateRow struct {
	ID  string
	Lat float64
	Lon float64
}

// ListStopCoordinates returns every stop's position, used to build the
// in-memory spatial index.
func (q *Queries) ListStopCoordinates(ctx context.Context) ([]StopCoordinateRow, error) {
	rows, err := q.db.QueryContext(ctx, listStopCoordinates)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []StopCoordinateRow
	for rows.Next() {
		var i StopCoordinateRow
		if err := rows.Scan(&i.ID, &i.Lat, &i.Lon); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countStops = `
SELECT COUNT(*) FROM stops
`

func (q *Queries) CountStops(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countStops).Scan(&count)
	return count, err
}

const getImportMetadata = `
SELECT file_hash, file_source, import_time FROM import_metadata WHERE id = 1
`

type ImportMetadataRow struct {
	FileHash   string
	FileSource string
	ImportTime int64
}

func (q *Queries) GetImportMetadata(ctx context.Context) (ImportMetadataRow, error) {
	var i ImportMetadataRow
	err := q.db.QueryRowContext(ctx, getImportMetadata).Scan(&i.FileHash, &i.FileSource, &i.ImportTime)
	return i, err
}

const upsertImportMetadata = `
INSERT INTO import_metadata (id, file_hash, file_source, import_time)
VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    file_hash = excluded.file_hash,
    file_source = excluded.file_source,
    import_time = excluded.import_time
`

func (q *Queries) UpsertImportMetadata(ctx context.Context, arg ImportMetadataRow) error {
	_, err := q.db.ExecContext(ctx, upsertImportMetadata, arg.FileHash, arg.FileSource, arg.ImportTime)
	return err
}
