package services

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/geo"
)

// Recompute describes the route computation a mutation started.
// Token identifies it; only the result of the most recent token is kept.
type Recompute struct {
	Token uint64
	Mode  domain.DistanceMode
	Stops []domain.Location
}

// NeedsProvider reports whether the computation must be finished with
// WaypointController.Resolve. Direct and short sequences complete inside
// the mutation itself.
func (r Recompute) NeedsProvider() bool {
	return r.Token != 0 && r.Mode == domain.Routed && len(r.Stops) >= 2
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Revision  uint64
	Locations []domain.Location
	Mode      domain.DistanceMode
	Route     domain.RouteResult
	// Selected is the index of the selected location, -1 when none.
	Selected int
}

func (s Snapshot) SelectedLocation() (domain.Location, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Locations) {
		return domain.Location{}, false
	}
	return s.Locations[s.Selected], true
}

// WaypointController owns the ordered waypoint sequence, the distance mode,
// the derived route and the marker selection.
//
// Every mutation that changes the sequence or the mode bumps a monotonic
// token and recomputes the route. Direct routes are computed synchronously.
// Routed routes are left pending until Resolve delivers a provider answer;
// answers for superseded tokens are dropped.
type WaypointController struct {
	routes *RouteClient

	mu       sync.Mutex
	seq      []domain.Location
	pos      map[domain.LocationID]int
	mode     domain.DistanceMode
	route    domain.RouteResult
	selected domain.LocationID
	token    uint64
}

func NewWaypointController(routes *RouteClient, mode domain.DistanceMode) *WaypointController {
	return &WaypointController{
		routes: routes,
		pos:    make(map[domain.LocationID]int),
		mode:   mode,
		route:  domain.RouteResult{Status: domain.RouteEmpty, Mode: mode},
	}
}

// AppendLocation adds loc to the end of the sequence and recomputes the route.
func (c *WaypointController) AppendLocation(loc domain.Location) Recompute {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.appendLocked(loc)
	return c.recomputeLocked()
}

// AppendBatch adds locs in order as a single mutation with one recomputation.
// An empty batch changes nothing.
func (c *WaypointController) AppendBatch(locs []domain.Location) Recompute {
	if len(locs) == 0 {
		return Recompute{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, loc := range locs {
		c.appendLocked(loc)
	}
	return c.recomputeLocked()
}

// ClearAll empties the sequence and the selection. The mode is kept.
func (c *WaypointController) ClearAll() Recompute {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq = nil
	clear(c.pos)
	c.selected = ""
	return c.recomputeLocked()
}

// ToggleMode flips the distance mode and recomputes the route.
func (c *WaypointController) ToggleMode() Recompute {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode = c.mode.Toggle()
	return c.recomputeLocked()
}

// SelectMarker marks the location at index as selected. An out-of-range
// index leaves the selection unchanged and reports false.
func (c *WaypointController) SelectMarker(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.seq) {
		return false
	}
	c.selected = c.seq[index].ID
	return true
}

func (c *WaypointController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	selected := -1
	if c.selected != "" {
		if i, ok := c.pos[c.selected]; ok {
			selected = i
		}
	}

	return Snapshot{
		Revision:  c.token,
		Locations: slices.Clone(c.seq),
		Mode:      c.mode,
		Route:     c.route,
		Selected:  selected,
	}
}

// Resolve finishes a routed recomputation. A result for a token that has
// since been superseded is discarded. On provider failure the route becomes
// empty and the wrapped domain.ErrNoRoute is returned for diagnostics.
func (c *WaypointController) Resolve(ctx context.Context, r Recompute) error {
	if !r.NeedsProvider() {
		return nil
	}

	logger := zerolog.Ctx(ctx)
	path, err := c.routes.ComputeRoute(ctx, r.Stops, domain.Walking)

	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Token != c.token {
		logger.Debug().
			Uint64("token", r.Token).
			Uint64("current", c.token).
			Msg("discarding stale route result")
		return nil
	}

	if err != nil {
		c.route = domain.RouteResult{Status: domain.RouteEmpty, Mode: domain.Routed}
		logger.Warn().Err(err).Int("stops", len(r.Stops)).Msg("routed distance unavailable")
		return err
	}

	c.route = domain.RouteResult{
		Status:          domain.RouteReady,
		Mode:            domain.Routed,
		Geometry:        path.Geometry,
		TotalDistanceKm: path.TotalDistanceKm,
	}
	return nil
}

// appendLocked gives loc a fresh identity when it has none or when the same
// value is already in the sequence, so every entry can be selected on its own.
func (c *WaypointController) appendLocked(loc domain.Location) {
	if _, dup := c.pos[loc.ID]; loc.ID == "" || dup {
		loc.ID = domain.LocationID(uuid.NewString())
	}
	c.pos[loc.ID] = len(c.seq)
	c.seq = append(c.seq, loc)
}

func (c *WaypointController) recomputeLocked() Recompute {
	c.token++

	r := Recompute{
		Token: c.token,
		Mode:  c.mode,
		Stops: slices.Clone(c.seq),
	}

	switch {
	case len(c.seq) < 2:
		c.route = domain.RouteResult{Status: domain.RouteEmpty, Mode: c.mode}
	case c.mode == domain.Direct:
		c.route = domain.RouteResult{
			Status:          domain.RouteReady,
			Mode:            domain.Direct,
			TotalDistanceKm: geo.PathKm(c.seq),
		}
	default:
		c.route = domain.RouteResult{Status: domain.RoutePending, Mode: domain.Routed}
	}

	return r
}
