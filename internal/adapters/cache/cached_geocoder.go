package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/ports"
)

const lookupTimeout = 30 * time.Second

// CachedGeocoder checks a persistent store before calling the wrapped geocoder.
// Only successful lookups are stored. Concurrent misses for the same key share
// one provider call.
type CachedGeocoder struct {
	coder ports.Geocoder
	store ports.GeocodeStore
	group singleflight.Group
}

func NewCachedGeocoder(coder ports.Geocoder, store ports.GeocodeStore) *CachedGeocoder {
	return &CachedGeocoder{coder: coder, store: store}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) ([]domain.GeocodeCandidate, error) {
	key := NormalizeAddress(address)
	logger := zerolog.Ctx(ctx)

	hits, err := c.store.GetMany(ctx, []string{key})
	if err != nil {
		logger.Warn().Err(err).Str("address", address).Msg("geocode cache read failed")
	} else if hit, ok := hits[key]; ok {
		return []domain.GeocodeCandidate{hit}, nil
	}

	// The shared lookup runs detached from any single caller, so one caller
	// giving up does not fail the others waiting on the same address.
	ch := c.group.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()

		candidates, err := c.coder.Geocode(lctx, address)
		if err != nil {
			return nil, err
		}

		if len(candidates) > 0 {
			fresh := map[string]domain.GeocodeCandidate{key: candidates[0]}
			if err := c.store.PutMany(lctx, fresh); err != nil {
				logger.Warn().Err(err).Str("address", address).Msg("geocode cache write failed")
			}
		}
		return candidates, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.GeocodeCandidate), nil
	}
}
