package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waypoint-route-service/internal/adapters/mock"
	"waypoint-route-service/internal/domain"
)

var testStops = []domain.Coordinates{
	{Lon: -117.82, Lat: 33.68},
	{Lon: -117.81, Lat: 33.69},
	{Lon: -117.80, Lat: 33.70},
}

func testRedisStore(t *testing.T) (*RedisRouteStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisRouteStore(rdb), mr
}

func TestRedisRouteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := testRedisStore(t)

	_, ok, err := store.Get(ctx, "route:walking:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	provider := &mock.MockRouteProvider{Detour: 1.3}
	d, err := provider.Directions(ctx, testStops, domain.Walking)
	require.NoError(t, err)

	key := RouteKey(testStops, domain.Walking)
	require.NoError(t, store.Put(ctx, key, d, time.Minute))

	got, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Legs, 2)
	assert.InDelta(t, d.Legs[0].DistanceMeters, got.Legs[0].DistanceMeters, 1e-9)
	assert.Equal(t, 3, got.Geometry.Coordinates().Length())

	mr.FastForward(2 * time.Minute)
	_, ok, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire after its ttl")
}

func TestRedisRouteStore_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store, mr := testRedisStore(t)
	require.NoError(t, mr.Set("route:walking:bad", "not json"))

	_, _, err := store.Get(ctx, "route:walking:bad")
	require.Error(t, err)
}

func TestRouteKey(t *testing.T) {
	forward := RouteKey(testStops, domain.Walking)
	reversed := RouteKey([]domain.Coordinates{testStops[2], testStops[1], testStops[0]}, domain.Walking)
	assert.NotEqual(t, forward, reversed)
	assert.Equal(t, "route:walking:33.680000,-117.820000|33.690000,-117.810000|33.700000,-117.800000", forward)
}

func TestCachedRouteProvider(t *testing.T) {
	ctx := context.Background()
	store, _ := testRedisStore(t)
	provider := &mock.MockRouteProvider{}
	cached := NewCachedRouteProvider(provider, store, time.Hour)

	first, err := cached.Directions(ctx, testStops, domain.Walking)
	require.NoError(t, err)
	second, err := cached.Directions(ctx, testStops, domain.Walking)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.Calls())
	assert.InDelta(t, first.Legs[1].DistanceMeters, second.Legs[1].DistanceMeters, 1e-9)

	// A different order is a different route.
	_, err = cached.Directions(ctx, []domain.Coordinates{testStops[2], testStops[0]}, domain.Walking)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.Calls())

	t.Run("failures are not cached", func(t *testing.T) {
		failing := &mock.MockRouteProvider{Err: errors.New("no path")}
		c := NewCachedRouteProvider(failing, store, time.Hour)
		stops := []domain.Coordinates{{Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}}
		_, err := c.Directions(ctx, stops, domain.Walking)
		require.Error(t, err)
		_, err = c.Directions(ctx, stops, domain.Walking)
		require.Error(t, err)
		assert.Equal(t, 2, failing.Calls())
	})
	t.Run("store outage falls through to the provider", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = rdb.Close() })
		mr.Close()

		p := &mock.MockRouteProvider{}
		c := NewCachedRouteProvider(p, NewRedisRouteStore(rdb), time.Hour)
		_, err = c.Directions(ctx, testStops, domain.Walking)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Calls())
	})
}
