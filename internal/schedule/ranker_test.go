package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Points roughly 1, 3 and 5 km east of the query point. One degree of
// longitude at this latitude is about 78.3 km.
const (
	queryLat = 45.5
	queryLon = -122.65
)

func TestRankNearestStopsOrdersByDistance(t *testing.T) {
	store := NewMockStore()
	svc := newTestService(store, nil)

	candidates := []RawStopRecord{
		{ID: "far", Lat: queryLat, Lon: queryLon + 5.0/78.3},
		{ID: "near", Lat: queryLat, Lon: queryLon + 1.0/78.3},
		{ID: "mid", Lat: queryLat, Lon: queryLon + 3.0/78.3},
	}

	ranked := svc.RankNearestStops(context.Background(), candidates, queryLat, queryLon, Options{})

	require.Len(t, ranked, 3)
	assert.Equal(t, "near", ranked[0].ID)
	assert.Equal(t, "mid", ranked[1].ID)
	assert.Equal(t, "far", ranked[2].ID)

	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 3, ranked[2].Rank)

	assert.InDelta(t, 1000, ranked[0].Distance, 30)
	assert.InDelta(t, 3000, ranked[1].Distance, 30)
	assert.InDelta(t, 5000, ranked[2].Distance, 30)
	assert.True(t, ranked[0].Distance < ranked[1].Distance)
	assert.True(t, ranked[1].Distance < ranked[2].Distance)
}

func TestRankNearestStopsStableOnTies(t *testing.T) {
	store := NewMockStore()
	svc := newTestService(store, nil)

	// Identical coordinates, so identical distances.
	candidates := []RawStopRecord{
		{ID: "first", Lat: queryLat, Lon: queryLon},
		{ID: "second", Lat: queryLat, Lon: queryLon},
	}

	ranked := svc.RankNearestStops(context.Background(), candidates, queryLat, queryLon, Options{})

	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].ID, "ties preserve store order")
	assert.Equal(t, "second", ranked[1].ID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankNearestStopsEmptyCandidates(t *testing.T) {
	store := NewMockStore()
	svc := newTestService(store, nil)

	ranked := svc.RankNearestStops(context.Background(), nil, queryLat, queryLon, Options{})
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestNearestStops(t *testing.T) {
	store := NewMockStore()
	store.Candidates = []RawStopRecord{
		{ID: "far", Lat: queryLat, Lon: queryLon + 5.0/78.3},
		{ID: "near", Lat: queryLat, Lon: queryLon + 1.0/78.3},
	}

	svc := newTestService(store, nil)

	ranked, err := svc.NearestStops(context.Background(), queryLat, queryLon, 10, Options{})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "near", ranked[0].ID)

	_, err = svc.NearestStops(context.Background(), queryLat, queryLon, 0, Options{})
	assert.Error(t, err)
}
