package mock

import (
	"context"
	"errors"
	"sync/atomic"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/geo"
)

// MockRouteProvider answers with straight-line legs scaled by Detour
// (1 when unset). Setting Err makes every call fail.
type MockRouteProvider struct {
	Detour float64
	Err    error

	calls atomic.Int64
}

func (p *MockRouteProvider) Directions(ctx context.Context, stops []domain.Coordinates, mode domain.TravelMode) (domain.Directions, error) {
	p.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return domain.Directions{}, err
	}
	if p.Err != nil {
		return domain.Directions{}, p.Err
	}
	if len(stops) < 2 {
		return domain.Directions{}, errors.New("mock directions: at least 2 stops are required")
	}

	detour := p.Detour
	if detour == 0 {
		detour = 1
	}

	legs := make([]domain.RouteLeg, 0, len(stops)-1)
	pairs := make([][]float64, 0, len(stops))
	pairs = append(pairs, stops[0].CoordsToList())
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		legs = append(legs, domain.RouteLeg{DistanceMeters: geo.DistanceKm(a.Lat, a.Lon, b.Lat, b.Lon) * 1000 * detour})
		pairs = append(pairs, b.CoordsToList())
	}

	line, err := geo.LineStringFromPairs(pairs)
	if err != nil {
		return domain.Directions{}, err
	}

	return domain.Directions{Legs: legs, Geometry: line}, nil
}

func (p *MockRouteProvider) Calls() int {
	return int(p.calls.Load())
}
