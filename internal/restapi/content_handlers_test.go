package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stopboard.opentransit.org/internal/content"
)

func TestFaresHandler(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"description":"Standard fares","adult":2.80,"currency":"USD"}`))
	}))
	defer feed.Close()

	api := createTestApi(t)
	api.ContentService = content.NewService("", feed.URL, time.Hour, api.Clock, nil)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/fares.json?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryFromModel(t, model)
	assert.Equal(t, "Standard fares", entry["description"])
	assert.Equal(t, 2.80, entry["adult"])
	assert.Equal(t, "USD", entry["currency"])
}

func TestFaresHandlerWithoutFeed(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/fares.json?key=TEST")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "resource not found", model.Text)
}

func TestAdvertsHandler(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"a1","title":"Ride more","imageUrl":"https://cdn.example.org/a1.png"}]`))
	}))
	defer feed.Close()

	api := createTestApi(t)
	api.ContentService = content.NewService(feed.URL, "", time.Hour, api.Clock, nil)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/adverts.json?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list, ok := model.Data.(map[string]any)["list"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "Ride more", list[0].(map[string]any)["title"])
}

func TestAdvertsHandlerWithoutFeedReturnsEmptyList(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/adverts.json?key=TEST")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list, ok := model.Data.(map[string]any)["list"].([]any)
	require.True(t, ok)
	assert.Empty(t, list)
}
