package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/geo"
	"waypoint-route-service/internal/platform/obs"
)

// RedisRouteStore caches routing answers in Redis as JSON.
type RedisRouteStore struct {
	rdb *redis.Client
}

type cachedDirections struct {
	LegMeters   []float64   `json:"leg_meters"`
	Coordinates [][]float64 `json:"coordinates"`
}

func NewRedisRouteStore(rdb *redis.Client) *RedisRouteStore {
	return &RedisRouteStore{rdb: rdb}
}

// NewRedisRouteStoreFromURL parses a redis:// URL and verifies the connection.
func NewRedisRouteStoreFromURL(ctx context.Context, redisURL string) (*RedisRouteStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("route cache: parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("route cache: ping redis: %w", err)
	}

	return NewRedisRouteStore(rdb), nil
}

func (s *RedisRouteStore) Get(ctx context.Context, key string) (_ domain.Directions, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Directions{}, false, nil
	}
	if err != nil {
		return domain.Directions{}, false, fmt.Errorf("get route cache %q: %w", key, err)
	}

	var cd cachedDirections
	if err := json.Unmarshal(data, &cd); err != nil {
		return domain.Directions{}, false, fmt.Errorf("get route cache %q: decode: %w", key, err)
	}

	line, err := geo.LineStringFromPairs(cd.Coordinates)
	if err != nil {
		return domain.Directions{}, false, fmt.Errorf("get route cache %q: geometry: %w", key, err)
	}

	legs := make([]domain.RouteLeg, 0, len(cd.LegMeters))
	for _, m := range cd.LegMeters {
		legs = append(legs, domain.RouteLeg{DistanceMeters: m})
	}

	return domain.Directions{Legs: legs, Geometry: line}, true, nil
}

func (s *RedisRouteStore) Put(ctx context.Context, key string, d domain.Directions, ttl time.Duration) error {
	cd := cachedDirections{
		LegMeters:   make([]float64, 0, len(d.Legs)),
		Coordinates: geo.Pairs(d.Geometry),
	}
	for _, l := range d.Legs {
		cd.LegMeters = append(cd.LegMeters, l.DistanceMeters)
	}

	data, err := json.Marshal(cd)
	if err != nil {
		return fmt.Errorf("put route cache %q: encode: %w", key, err)
	}

	if err := s.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("put route cache %q: %w", key, err)
	}

	return nil
}

func (s *RedisRouteStore) Close() error {
	return s.rdb.Close()
}
