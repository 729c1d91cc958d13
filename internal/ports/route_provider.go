package ports

import (
	"context"
	"time"

	"waypoint-route-service/internal/domain"
)

// Contract for routing through an ordered list of stops.
type RouteProvider interface {
	// Return a path visiting stops in the given order: stops[0] is the origin,
	// the last stop the destination. Providers must not reorder stops.
	Directions(ctx context.Context, stops []domain.Coordinates, mode domain.TravelMode) (domain.Directions, error)
}

// Port: keyed cache of routing answers.
type RouteStore interface {
	Get(ctx context.Context, key string) (domain.Directions, bool, error)
	Put(ctx context.Context, key string, d domain.Directions, ttl time.Duration) error
}
