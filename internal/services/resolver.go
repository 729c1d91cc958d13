package services

import (
	"context"
	"errors"
	"strings"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/ports"
)

// Resolver turns a free-text address into a Location using the first
// geocoding candidate.
type Resolver struct {
	coder ports.Geocoder
}

func NewResolver(coder ports.Geocoder) *Resolver {
	return &Resolver{coder: coder}
}

// Resolve geocodes address. Any failure, including an empty candidate list,
// is reported as a *domain.ResolutionError carrying the address.
// Name and Address are both set to the provider's formatted address.
func (r *Resolver) Resolve(ctx context.Context, address string) (domain.Location, error) {
	if strings.TrimSpace(address) == "" {
		return domain.Location{}, &domain.ResolutionError{Address: address, Err: errors.New("empty address")}
	}

	candidates, err := r.coder.Geocode(ctx, address)
	if err != nil {
		return domain.Location{}, &domain.ResolutionError{Address: address, Err: err}
	}
	if len(candidates) == 0 {
		return domain.Location{}, &domain.ResolutionError{Address: address}
	}

	best := candidates[0]
	formatted := best.FormattedAddress
	if formatted == "" {
		formatted = address
	}

	return domain.NewLocation(
		best.Coordinates.Lat,
		best.Coordinates.Lon,
		formatted,
		formatted,
		domain.DefaultPropertyType,
	), nil
}
