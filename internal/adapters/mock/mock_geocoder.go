package mock

import (
	"context"
	"fmt"
	"sync"

	"waypoint-route-service/internal/domain"
)

type MockPlace struct {
	Address          string
	Lat, Lng         float64
	FormattedAddress string
}

// MockGeocoder resolves a fixed set of addresses. Unknown addresses yield no
// candidates; addresses marked as failing return an error.
type MockGeocoder struct {
	m       map[string]domain.GeocodeCandidate
	failing map[string]struct{}

	mu    sync.Mutex
	calls []string
}

func NewMockGeocoder(places []MockPlace, failing ...string) *MockGeocoder {
	m := make(map[string]domain.GeocodeCandidate, len(places))
	for _, p := range places {
		formatted := p.FormattedAddress
		if formatted == "" {
			formatted = p.Address
		}
		m[p.Address] = domain.GeocodeCandidate{
			Coordinates:      domain.Coordinates{Lon: p.Lng, Lat: p.Lat},
			FormattedAddress: formatted,
		}
	}

	f := make(map[string]struct{}, len(failing))
	for _, a := range failing {
		f[a] = struct{}{}
	}

	return &MockGeocoder{m: m, failing: f}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) ([]domain.GeocodeCandidate, error) {
	g.mu.Lock()
	g.calls = append(g.calls, address)
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := g.failing[address]; ok {
		return nil, fmt.Errorf("mock geocode %q: provider failure", address)
	}

	c, ok := g.m[address]
	if !ok {
		return []domain.GeocodeCandidate{}, nil
	}
	return []domain.GeocodeCandidate{c}, nil
}

// Calls returns the addresses looked up so far, in call order.
func (g *MockGeocoder) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}
