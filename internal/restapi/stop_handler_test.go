package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopHandler(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/stop/7646.json?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", model.Text)

	entry := entryFromModel(t, model)
	assert.Equal(t, "7646", entry["stopId"])
	assert.Equal(t, "SE Powell & 26th", entry["name"])
	assert.Equal(t, "Eastbound", entry["direction"])
	assert.Equal(t, true, entry["hasAmenities"])
	assert.NotEmpty(t, entry["geometry"], "detailed stop view carries encoded geometry")

	amenities, ok := entry["amenities"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Shelter"}, amenities)

	routes, ok := entry["routes"].([]any)
	require.True(t, ok)
	require.Len(t, routes, 1)
	route := routes[0].(map[string]any)
	assert.Equal(t, "9", route["routeId"])
	assert.Equal(t, "9", route["name"])

	alerts, ok := route["alerts"].([]any)
	require.True(t, ok, "route detail includes service alerts")
	require.Len(t, alerts, 1)
	assert.Equal(t, "Detour at SE 26th", alerts[0].(map[string]any)["summary"])
}

func TestStopHandlerAcceptsBareID(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/stop/7646?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "7646", entryFromModel(t, model)["stopId"])
}

func TestStopHandlerNotFound(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/stop/nope.json?key=TEST")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "resource not found", model.Text)
}
