package services

import (
	"context"
	"fmt"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/geo"
	"waypoint-route-service/internal/platform/obs"
	"waypoint-route-service/internal/ports"
)

// RouteClient asks the routing provider for a path through an ordered
// list of locations and reduces the answer to a RoutedPath.
type RouteClient struct {
	provider ports.RouteProvider
}

func NewRouteClient(provider ports.RouteProvider) *RouteClient {
	return &RouteClient{provider: provider}
}

// ComputeRoute returns the routed path visiting stops in order.
// stops[0] is the origin, the last element the destination, everything in
// between an intermediate stopover. Every failure wraps domain.ErrNoRoute.
func (c *RouteClient) ComputeRoute(
	ctx context.Context,
	stops []domain.Location,
	mode domain.TravelMode,
) (path domain.RoutedPath, err error) {
	defer obs.Time(ctx, "services.ComputeRoute")(&err)

	if len(stops) < 2 {
		return domain.RoutedPath{}, fmt.Errorf("compute route: %w: need at least 2 stops, got %d", domain.ErrNoRoute, len(stops))
	}

	coords := make([]domain.Coordinates, 0, len(stops))
	for _, s := range stops {
		coords = append(coords, s.Coordinates())
	}

	d, err := c.provider.Directions(ctx, coords, mode)
	if err != nil {
		return domain.RoutedPath{}, fmt.Errorf("compute route: %w: %w", domain.ErrNoRoute, err)
	}
	if len(d.Legs) == 0 {
		return domain.RoutedPath{}, fmt.Errorf("compute route: %w: provider returned no legs", domain.ErrNoRoute)
	}

	meters := 0.0
	for _, leg := range d.Legs {
		meters += leg.DistanceMeters
	}

	return domain.RoutedPath{
		Geometry:        d.Geometry,
		TotalDistanceKm: geo.RoundKm(meters / 1000),
	}, nil
}
