package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stopboard.opentransit.org/internal/app"
	"stopboard.opentransit.org/internal/appconf"
	"stopboard.opentransit.org/internal/clock"
	"stopboard.opentransit.org/internal/transit"
)

func getHealth(t *testing.T, api *RestAPI) (*http.Response, HealthResponse) {
	t.Helper()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	return resp, health
}

func TestHealthHandlerReady(t *testing.T) {
	api := createTestApi(t)

	resp, health := getHealth(t, api)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health.Status)
}

func TestHealthHandlerStarting(t *testing.T) {
	c := clock.NewMockClock(time.Now())
	manager, err := transit.NewManager(context.Background(), transit.Config{
		DBPath: ":memory:",
		Env:    appconf.Test,
	}, c, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Shutdown() })

	api := NewRestAPI(&app.Application{
		Clock:          c,
		TransitManager: manager,
	})

	resp, health := getHealth(t, api)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "starting", health.Status)
}

func TestHealthHandlerUninitialized(t *testing.T) {
	api := NewRestAPI(&app.Application{Clock: clock.RealClock{}})

	resp, health := getHealth(t, api)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unavailable", health.Status)
}
