package ports

import (
	"context"

	"waypoint-route-service/internal/domain"
)

// Contract for forward geocoding of free-text addresses.
type Geocoder interface {
	// Return candidates for the address, best match first.
	// An empty slice with a nil error means the provider found nothing.
	Geocode(ctx context.Context, address string) ([]domain.GeocodeCandidate, error)
}

// Port: persistent address -> best candidate mapping.
type GeocodeStore interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.GeocodeCandidate, error)
	PutMany(ctx context.Context, results map[string]domain.GeocodeCandidate) error
}
