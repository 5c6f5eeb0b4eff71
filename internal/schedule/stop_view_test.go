package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStopViewCopiesIdentityFields(t *testing.T) {
	store := NewMockStore()
	svc := newTestService(store, nil)

	raw := &RawStopRecord{
		ID:           "stop-1",
		Code:         "7646",
		Name:         "SE Powell & 26th",
		Description:  "Eastbound shelter",
		URL:          "https://example.org/stops/7646",
		Direction:    "e",
		LocationType: 0,
		Lat:          45.4977,
		Lon:          -122.6403,
	}

	view := svc.BuildStopView(context.Background(), raw, Options{})

	assert.Equal(t, "stop-1", view.ID)
	assert.Equal(t, "7646", view.Code)
	assert.Equal(t, "SE Powell & 26th", view.Name)
	assert.Equal(t, "Eastbound shelter", view.Description)
	assert.Equal(t, "https://example.org/stops/7646", view.URL)
	assert.Equal(t, "Eastbound", view.Direction)
	assert.Equal(t, 45.4977, view.Lat)
	assert.Equal(t, -122.6403, view.Lon)
}

func TestBuildStopViewDirectionFormatting(t *testing.T) {
	store := NewMockStore()
	svc := newTestService(store, nil)

	tests := []struct {
		code     string
		expected string
	}{
		{"n", "Northbound"},
		{"SW", "Southwestbound"},
		{"", ""},
	}

	for _, tt := range tests {
		view := svc.BuildStopView(context.Background(), &RawStopRecord{ID: "s", Direction: tt.code}, Options{})
		assert.Equal(t, tt.expected, view.Direction)
	}
}

func TestBuildStopViewDetailFlag(t *testing.T) {
	store := NewMockStore()
	store.MockAddStop(RawStopRecord{ID: "stop-1"}, "Shelter", "Shelter", "", "Lighting")
	store.MockAddRoute(RawRouteRecord{ID: "9", ShortName: "9", SortOrder: 900}, "stop-1")

	svc := newTestService(store, nil)
	raw := store.Stops["stop-1"]

	detailed := svc.BuildStopView(context.Background(), raw, Options{IncludeRouteDetail: true})
	assert.Equal(t, []string{"Lighting", "Shelter"}, detailed.Amenities)
	assert.True(t, detailed.HasAmenities)
	require.Len(t, detailed.Routes, 1)
	assert.Equal(t, "9", detailed.Routes[0].ID)

	cheap := svc.BuildStopView(context.Background(), raw, Options{})
	assert.Empty(t, cheap.Amenities)
	assert.False(t, cheap.HasAmenities)
	assert.Empty(t, cheap.Routes)
	assert.NotNil(t, cheap.Amenities)
	assert.NotNil(t, cheap.Routes)
}

func TestBuildStopViewGeometry(t *testing.T) {
	store := NewMockStore()
	svc := newTestService(store, nil)
	raw := &RawStopRecord{ID: "stop-1", Lat: 45.4977, Lon: -122.6403}

	withGeometry := svc.BuildStopView(context.Background(), raw, Options{IncludeGeometry: true})
	assert.NotEmpty(t, withGeometry.Geometry)

	withoutGeometry := svc.BuildStopView(context.Background(), raw, Options{})
	assert.Empty(t, withoutGeometry.Geometry)
}

func TestBuildStopViewTagFetchFailureDegrades(t *testing.T) {
	store := NewMockStore()
	store.MockAddStop(RawStopRecord{ID: "stop-1"})
	store.FetchFeatureTagsFn = func(ctx context.Context, stopID string) ([]string, error) {
		return nil, errors.New("store offline")
	}

	svc := newTestService(store, nil)
	view := svc.BuildStopView(context.Background(), store.Stops["stop-1"], Options{IncludeRouteDetail: true})

	assert.Empty(t, view.Amenities)
	assert.False(t, view.HasAmenities)
}

func TestBuildStopViewByID(t *testing.T) {
	store := NewMockStore()
	store.MockAddStop(RawStopRecord{ID: "stop-1", Name: "SE Powell & 26th"})

	svc := newTestService(store, nil)

	view, err := svc.BuildStopViewByID(context.Background(), "stop-1", Options{})
	require.NoError(t, err)
	assert.Equal(t, "SE Powell & 26th", view.Name)

	_, err = svc.BuildStopViewByID(context.Background(), "no-such-stop", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStopNotFound)
}

func TestStopViewFindRoute(t *testing.T) {
	store := NewMockStore()
	store.MockAddStop(RawStopRecord{ID: "stop-1"})
	store.MockAddRoute(RawRouteRecord{ID: "9", ShortName: "9-Powell", SortOrder: 900}, "stop-1")

	svc := newTestService(store, nil)
	view := svc.BuildStopView(context.Background(), store.Stops["stop-1"], Options{IncludeRouteDetail: true})

	route, ok := view.FindRoute("9")
	require.True(t, ok)
	assert.Equal(t, "9-Powell", route.Name)

	_, ok = view.FindRoute("75")
	assert.False(t, ok)
}
