package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"waypoint-route-service/internal/adapters/mock"
	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/geo"
)

var (
	locA = domain.NewLocation(33.6405, -117.8443, "UCI", "UCI", "")
	locB = domain.NewLocation(33.6506, -117.7437, "Irvine Spectrum", "Irvine Spectrum", "")
	locC = domain.NewLocation(33.6780, -117.8034, "Woodbridge", "Woodbridge", "")
)

func newTestController(p *mock.MockRouteProvider, mode domain.DistanceMode) *WaypointController {
	return NewWaypointController(NewRouteClient(p), mode)
}

func TestControllerStartsEmpty(t *testing.T) {
	c := newTestController(&mock.MockRouteProvider{}, domain.Routed)
	s := c.Snapshot()

	if len(s.Locations) != 0 {
		t.Fatalf("expected no locations, got %d", len(s.Locations))
	}
	if s.Route.Status != domain.RouteEmpty {
		t.Fatalf("status = %q, want empty", s.Route.Status)
	}
	if s.Selected != -1 {
		t.Fatalf("selected = %d, want -1", s.Selected)
	}
}

func TestControllerRoutedAppend(t *testing.T) {
	ctx := context.Background()
	p := &mock.MockRouteProvider{Detour: 1.3}
	c := newTestController(p, domain.Routed)

	r := c.AppendLocation(locA)
	if r.NeedsProvider() {
		t.Fatalf("single stop must not need the provider")
	}
	if err := c.Resolve(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := c.Snapshot(); s.Route.Status != domain.RouteEmpty {
		t.Fatalf("status = %q, want empty", s.Route.Status)
	}
	if p.Calls() != 0 {
		t.Fatalf("provider calls = %d, want 0", p.Calls())
	}

	r = c.AppendLocation(locB)
	if !r.NeedsProvider() {
		t.Fatalf("two routed stops must need the provider")
	}
	if s := c.Snapshot(); s.Route.Status != domain.RoutePending {
		t.Fatalf("status = %q, want pending", s.Route.Status)
	}
	if err := c.Resolve(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := c.Snapshot()
	if s.Route.Status != domain.RouteReady || s.Route.Mode != domain.Routed {
		t.Fatalf("route = %v/%v, want ready/routed", s.Route.Status, s.Route.Mode)
	}
	want := geo.RoundKm(geo.DistanceKm(locA.Lat, locA.Lng, locB.Lat, locB.Lng) * 1.3)
	if !almostEqual(s.Route.TotalDistanceKm, want) {
		t.Fatalf("total = %v, want %v", s.Route.TotalDistanceKm, want)
	}
	if !s.Route.HasGeometry() {
		t.Fatalf("expected routed geometry")
	}
}

func TestControllerDirectAndToggle(t *testing.T) {
	ctx := context.Background()
	p := &mock.MockRouteProvider{Detour: 1.5}
	c := newTestController(p, domain.Routed)

	if err := c.Resolve(ctx, c.AppendBatch([]domain.Location{locA, locB, locC})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := c.Snapshot()

	r := c.ToggleMode()
	if r.NeedsProvider() {
		t.Fatalf("direct mode must not need the provider")
	}

	s := c.Snapshot()
	if s.Mode != domain.Direct || s.Route.Status != domain.RouteReady {
		t.Fatalf("mode/status = %v/%v, want direct/ready", s.Mode, s.Route.Status)
	}
	want := geo.DistanceKm(locA.Lat, locA.Lng, locB.Lat, locB.Lng) +
		geo.DistanceKm(locB.Lat, locB.Lng, locC.Lat, locC.Lng)
	if !almostEqual(s.Route.TotalDistanceKm, want) {
		t.Fatalf("direct total = %v, want %v", s.Route.TotalDistanceKm, want)
	}
	if s.Route.HasGeometry() {
		t.Fatalf("direct route must not carry geometry")
	}

	r = c.ToggleMode()
	s = c.Snapshot()
	if s.Mode != domain.Routed || s.Route.Status != domain.RoutePending {
		t.Fatalf("mode/status = %v/%v, want routed/pending", s.Mode, s.Route.Status)
	}
	if s.Revision != before.Revision+2 {
		t.Fatalf("revision = %d, want %d", s.Revision, before.Revision+2)
	}
	if err := c.Resolve(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Snapshot().Route.TotalDistanceKm; !almostEqual(got, before.Route.TotalDistanceKm) {
		t.Fatalf("routed total after two toggles = %v, want %v", got, before.Route.TotalDistanceKm)
	}
}

func TestControllerClearAllKeepsMode(t *testing.T) {
	c := newTestController(&mock.MockRouteProvider{}, domain.Direct)

	c.AppendBatch([]domain.Location{locA, locB})
	if !c.SelectMarker(1) {
		t.Fatalf("expected selection to succeed")
	}

	c.ClearAll()
	s := c.Snapshot()
	if len(s.Locations) != 0 {
		t.Fatalf("expected no locations, got %d", len(s.Locations))
	}
	if s.Route.Status != domain.RouteEmpty {
		t.Fatalf("status = %q, want empty", s.Route.Status)
	}
	if s.Selected != -1 {
		t.Fatalf("selected = %d, want -1", s.Selected)
	}
	if s.Mode != domain.Direct {
		t.Fatalf("mode = %v, want direct", s.Mode)
	}
}

func TestControllerEmptyBatchIsNoop(t *testing.T) {
	c := newTestController(&mock.MockRouteProvider{}, domain.Routed)
	c.AppendLocation(locA)
	before := c.Snapshot()

	r := c.AppendBatch(nil)
	if r.Token != 0 || r.NeedsProvider() {
		t.Fatalf("empty batch started a recomputation: %+v", r)
	}
	if after := c.Snapshot(); after.Revision != before.Revision || len(after.Locations) != 1 {
		t.Fatalf("empty batch changed state: %+v", after)
	}
}

func TestControllerSelection(t *testing.T) {
	c := newTestController(&mock.MockRouteProvider{}, domain.Direct)
	c.AppendBatch([]domain.Location{locA, locB})

	if c.SelectMarker(5) || c.SelectMarker(-1) {
		t.Fatalf("out-of-range selection must fail")
	}
	if s := c.Snapshot(); s.Selected != -1 {
		t.Fatalf("selected = %d, want -1", s.Selected)
	}

	if !c.SelectMarker(1) {
		t.Fatalf("expected selection to succeed")
	}
	c.AppendLocation(locC)
	c.ToggleMode()

	s := c.Snapshot()
	if s.Selected != 1 {
		t.Fatalf("selected = %d, want 1", s.Selected)
	}
	loc, ok := s.SelectedLocation()
	if !ok || loc.Name != "Irvine Spectrum" {
		t.Fatalf("selected location = %q/%v, want Irvine Spectrum", loc.Name, ok)
	}

	if c.SelectMarker(7) {
		t.Fatalf("out-of-range selection must fail")
	}
	if s := c.Snapshot(); s.Selected != 1 {
		t.Fatalf("failed selection changed state: selected = %d", s.Selected)
	}
}

func TestControllerDuplicateLocationsAreDistinct(t *testing.T) {
	c := newTestController(&mock.MockRouteProvider{}, domain.Direct)
	c.AppendLocation(locA)
	c.AppendLocation(locA)

	s := c.Snapshot()
	if len(s.Locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(s.Locations))
	}
	if s.Locations[0].ID == s.Locations[1].ID {
		t.Fatalf("duplicate entries share id %q", s.Locations[0].ID)
	}
	if s.Route.TotalDistanceKm != 0 {
		t.Fatalf("total = %v, want 0", s.Route.TotalDistanceKm)
	}

	c.SelectMarker(1)
	if s := c.Snapshot(); s.Selected != 1 {
		t.Fatalf("selected = %d, want 1", s.Selected)
	}
}

func TestControllerNoRoute(t *testing.T) {
	c := newTestController(&mock.MockRouteProvider{Err: errors.New("unreachable")}, domain.Routed)

	err := c.Resolve(context.Background(), c.AppendBatch([]domain.Location{locA, locB}))
	if !errors.Is(err, domain.ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}

	s := c.Snapshot()
	if s.Route.Status != domain.RouteEmpty {
		t.Fatalf("status = %q, want empty", s.Route.Status)
	}
	if len(s.Locations) != 2 {
		t.Fatalf("expected sequence to survive, got %d locations", len(s.Locations))
	}
}

// gatedProvider blocks two-stop requests until release is closed.
type gatedProvider struct {
	mock.MockRouteProvider
	entered chan struct{}
	release chan struct{}
}

func (p *gatedProvider) Directions(ctx context.Context, stops []domain.Coordinates, mode domain.TravelMode) (domain.Directions, error) {
	if len(stops) == 2 {
		close(p.entered)
		<-p.release
	}
	return p.MockRouteProvider.Directions(ctx, stops, mode)
}

func TestControllerDiscardsStaleResult(t *testing.T) {
	ctx := context.Background()
	p := &gatedProvider{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := NewWaypointController(NewRouteClient(p), domain.Routed)

	first := c.AppendBatch([]domain.Location{locA, locB})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.Resolve(ctx, first); err != nil {
			t.Errorf("stale resolve: %v", err)
		}
	}()
	<-p.entered

	second := c.AppendLocation(locC)
	if err := c.Resolve(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	latest := c.Snapshot().Route

	close(p.release)
	wg.Wait()

	s := c.Snapshot()
	if s.Route.Status != domain.RouteReady {
		t.Fatalf("status = %q, want ready", s.Route.Status)
	}
	if s.Route.TotalDistanceKm != latest.TotalDistanceKm {
		t.Fatalf("total = %v, want %v from the latest request", s.Route.TotalDistanceKm, latest.TotalDistanceKm)
	}
	want := geo.RoundKm(geo.PathKm([]domain.Location{locA, locB, locC}))
	if !almostEqual(s.Route.TotalDistanceKm, want) {
		t.Fatalf("total = %v, want %v", s.Route.TotalDistanceKm, want)
	}
}
