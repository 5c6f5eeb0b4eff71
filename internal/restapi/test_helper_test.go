package restapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stopboard.opentransit.org/internal/app"
	"stopboard.opentransit.org/internal/appconf"
	"stopboard.opentransit.org/internal/clock"
	"stopboard.opentransit.org/internal/content"
	"stopboard.opentransit.org/internal/metrics"
	"stopboard.opentransit.org/internal/models"
	"stopboard.opentransit.org/internal/schedule"
	"stopboard.opentransit.org/internal/transit"
	"stopboard.opentransit.org/stopdb"
)

// Fixture service date: Monday, when the WEEK calendar runs.
var testFixtureTime = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	return createTestApiWithClock(t, clock.NewMockClock(testFixtureTime))
}

func createTestApiWithClock(t *testing.T, c clock.Clock) *RestAPI {
	t.Helper()

	manager, err := transit.NewManager(context.Background(), transit.Config{
		DBPath: ":memory:",
		Env:    appconf.Test,
	}, c, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Shutdown() })

	seedTestStops(t, manager)

	alerts := schedule.StaticAlerts{
		"9": {{RouteID: "9", Summary: "Detour at SE 26th"}},
	}

	application := &app.Application{
		Config: appconf.Config{
			Env:     appconf.Test,
			ApiKeys: []string{"TEST"},
		},
		Clock:           c,
		Metrics:         metrics.New(),
		TransitManager:  manager,
		ScheduleService: schedule.NewService(manager, alerts, c, nil, nil),
		ContentService:  content.NewService("", "", time.Hour, c, nil),
	}

	return NewRestAPI(application)
}

func seedTestStops(t *testing.T, m *transit.Manager) {
	t.Helper()
	ctx := context.Background()
	q := m.DB().Queries

	require.NoError(t, q.CreateAgency(ctx, stopdb.CreateAgencyParams{
		ID: "TRI", Name: "TriMet", Url: "https://trimet.org", Timezone: "America/Los_Angeles",
	}))
	require.NoError(t, q.CreateRoute(ctx, stopdb.CreateRouteParams{
		ID: "9", AgencyID: "TRI", ShortName: ns("9"), LongName: ns("Powell Blvd"),
		Type: 3, Url: ns("https://trimet.org/routes/9"), SortOrder: 90,
	}))
	require.NoError(t, q.CreateStop(ctx, stopdb.CreateStopParams{
		ID: "7646", Code: ns("7646"), Name: ns("SE Powell & 26th"),
		Lat: 45.4977, Lon: -122.6403, Direction: ns("e"),
	}))
	require.NoError(t, q.CreateStop(ctx, stopdb.CreateStopParams{
		ID: "7648", Name: ns("SE Powell & 33rd"),
		Lat: 45.4977, Lon: -122.6330,
	}))
	require.NoError(t, q.CreateStopFeature(ctx, "7646", "Shelter"))
	require.NoError(t, q.CreateCalendar(ctx, stopdb.CreateCalendarParams{
		ServiceID: "WEEK",
		Monday:    1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1,
		StartDate: "20260101", EndDate: "20261231",
	}))
	require.NoError(t, q.CreateTrip(ctx, stopdb.CreateTripParams{
		ID: "trip-1", RouteID: "9", ServiceID: "WEEK", Headsign: ns("Powell Blvd"),
	}))
	require.NoError(t, q.CreateStopTime(ctx, stopdb.CreateStopTimeParams{
		TripID: "trip-1", StopID: "7646", StopSequence: 1, DepartureTime: ns("07:00:00"),
	}))

	require.NoError(t, m.Reindex(ctx))
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var model models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&model))
	return resp, model
}

func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	t.Helper()
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

// entryFromModel digs the entry object out of a decoded envelope.
func entryFromModel(t *testing.T, model models.ResponseModel) map[string]any {
	t.Helper()
	data, ok := model.Data.(map[string]any)
	require.True(t, ok, "response data should be an object")
	entry, ok := data["entry"].(map[string]any)
	require.True(t, ok, "response data should contain an entry object")
	return entry
}
