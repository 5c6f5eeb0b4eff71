package restapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stopboard.opentransit.org/internal/clock"
)

func TestCurrentTimeHandlerRequiresValidApiKey(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/current-time.json?key=invalid")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, model.Code)
	assert.Equal(t, "permission denied", model.Text)
}

func TestCurrentTimeHandler(t *testing.T) {
	fixedTime := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)
	api := createTestApiWithClock(t, clock.NewMockClock(fixedTime))

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/current-time.json?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	assert.Equal(t, http.StatusOK, model.Code)
	assert.Equal(t, "OK", model.Text)
	assert.Equal(t, 2, model.Version)
	assert.Equal(t, fixedTime.UnixMilli(), model.CurrentTime)

	entry := entryFromModel(t, model)
	assert.Equal(t, float64(fixedTime.UnixMilli()), entry["time"])
	assert.Equal(t, fixedTime.Format(time.RFC3339), entry["readableTime"])
}
