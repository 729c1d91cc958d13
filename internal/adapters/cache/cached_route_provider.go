package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/ports"
)

// CachedRouteProvider serves repeated stop lists from a RouteStore.
// Provider failures are never cached.
type CachedRouteProvider struct {
	provider ports.RouteProvider
	store    ports.RouteStore
	ttl      time.Duration
}

func NewCachedRouteProvider(provider ports.RouteProvider, store ports.RouteStore, ttl time.Duration) *CachedRouteProvider {
	return &CachedRouteProvider{provider: provider, store: store, ttl: ttl}
}

func (c *CachedRouteProvider) Directions(
	ctx context.Context,
	stops []domain.Coordinates,
	mode domain.TravelMode,
) (domain.Directions, error) {
	key := RouteKey(stops, mode)
	logger := zerolog.Ctx(ctx)

	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("route cache read failed")
	} else if ok {
		return cached, nil
	}

	d, err := c.provider.Directions(ctx, stops, mode)
	if err != nil {
		return domain.Directions{}, err
	}

	if err := c.store.Put(ctx, key, d, c.ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("route cache write failed")
	}

	return d, nil
}
