package stopdb

import (
	"context"
	"database/sql"
)

const createAgency = `
INSERT INTO agencies (id, name, url, timezone, lang, phone, fare_url, email)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateAgencyParams struct {
	ID       string
	Name     string
	Url      string
	Timezone string
	Lang     sql.NullString
	Phone    sql.NullString
	FareUrl  sql.NullString
	Email    sql.NullString
}

func (q *Queries) CreateAgency(ctx context.Context, arg CreateAgencyParams) error {
	_, err := q.db.ExecContext(ctx, createAgency,
		arg.ID, arg.Name, arg.Url, arg.Timezone, arg.Lang, arg.Phone, arg.FareUrl, arg.Email)
	return err
}

const createRoute = `
INSERT INTO routes (id, agency_id, short_name, long_name, "desc", type, url, color, text_color, sort_order)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateRouteParams struct {
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

func (q *Queries) CreateRoute(ctx context.Context, arg CreateRouteParams) error {
	_, err := q.db.ExecContext(ctx, createRoute,
		arg.ID, arg.AgencyID, arg.ShortName, arg.LongName, arg.Desc,
		arg.Type, arg.Url, arg.Color, arg.TextColor, arg.SortOrder)
	return err
}

const createStop = `
INSERT INTO stops (id, code, name, "desc", lat, lon, url, location_type, direction, wheelchair_boarding)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateStopParams struct {
	ID                 string
	Code               sql.NullString
	Name               sql.NullString
	Desc               sql.NullString
	Lat                float64
	Lon                float64
	Url                sql.NullString
	LocationType       sql.NullInt64
	Direction          sql.NullString
	WheelchairBoarding sql.NullInt64
}

func (q *Queries) CreateStop(ctx context.Context, arg CreateStopParams) error {
	_, err := q.db.ExecContext(ctx, createStop,
		arg.ID, arg.Code, arg.Name, arg.Desc, arg.Lat, arg.Lon,
		arg.Url, arg.LocationType, arg.Direction, arg.WheelchairBoarding)
	return err
}

const createStopFeature = `
INSERT OR IGNORE INTO stop_features (stop_id, feature_name) VALUES (?, ?)
`

func (q *Queries) CreateStopFeature(ctx context.Context, stopID, featureName string) error {
	_, err := q.db.ExecContext(ctx, createStopFeature, stopID, featureName)
	return err
}

const updateStopDirection = `
UPDATE stops SET direction = ? WHERE id = ?
`

func (q *Queries) UpdateStopDirection(ctx context.Context, stopID, direction string) error {
	_, err := q.db.ExecContext(ctx, updateStopDirection, direction, stopID)
	return err
}

const createCalendar = `
INSERT INTO calendar (service_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday, start_date, end_date)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateCalendarParams struct {
	ServiceID string
	Monday    int64
	Tuesday   int64
	Wednesday int64
	Thursday  int64
	Friday    int64
	Saturday  int64
	Sunday    int64
	StartDate string
	EndDate   string
}

func (q *Queries) CreateCalendar(ctx context.Context, arg CreateCalendarParams) error {
	_, err := q.db.ExecContext(ctx, createCalendar,
		arg.ServiceID, arg.Monday, arg.Tuesday, arg.Wednesday, arg.Thursday,
		arg.Friday, arg.Saturday, arg.Sunday, arg.StartDate, arg.EndDate)
	return err
}

const createCalendarDate = `
INSERT INTO calendar_dates (service_id, date, exception_type) VALUES (?, ?, ?)
`

type CreateCalendarDateParams struct {
	ServiceID     string
	Date          string
	ExceptionType int64
}

func (q *Queries) CreateCalendarDate(ctx context.Context, arg CreateCalendarDateParams) error {
	_, err := q.db.ExecContext(ctx, createCalendarDate, arg.ServiceID, arg.Date, arg.ExceptionType)
	return err
}

const createTrip = `
INSERT INTO trips (id, route_id, service_id, headsign, direction_id, block_id)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateTripParams struct {
	ID          string
	RouteID     string
	ServiceID   string
	Headsign    sql.NullString
	DirectionID sql.NullInt64
	BlockID     sql.NullString
}

func (q *Queries) CreateTrip(ctx context.Context, arg CreateTripParams) error {
	_, err := q.db.ExecContext(ctx, createTrip,
		arg.ID, arg.RouteID, arg.ServiceID, arg.Headsign, arg.DirectionID, arg.BlockID)
	return err
}

const createStopTime = `
INSERT INTO stop_times (trip_id, stop_id, stop_sequence, arrival_time, departure_time, stop_headsign, pickup_type, drop_off_type)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateStopTimeParams struct {
	TripID        string
	StopID        string
	StopSequence  int64
	ArrivalTime   sql.NullString
	DepartureTime sql.NullString
	StopHeadsign  sql.NullString
	PickupType    int64
	DropOffType   int64
}

func (q *Queries) CreateStopTime(ctx context.Context, arg CreateStopTimeParams) error {
	_, err := q.db.ExecContext(ctx, createStopTime,
		arg.TripID, arg.StopID, arg.StopSequence, arg.ArrivalTime,
		arg.DepartureTime, arg.StopHeadsign, arg.PickupType, arg.DropOffType)
	return err
}

// clearTables lists tables in reverse dependency order.
var clearTables = []string{
	"stop_times",
	"trips",
	"calendar_dates",
	"calendar",
	"stop_features",
	"stops",
	"routes",
	"agencies",
}

// ClearAll removes every imported record, respecting foreign keys.
func (q *Queries) ClearAll(ctx context.Context) error {
	for _, table := range clearTables {
		if _, err := q.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
