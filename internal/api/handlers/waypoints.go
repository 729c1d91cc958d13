package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"waypoint-route-service/internal/api/dto"
	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/geo"
	"waypoint-route-service/internal/services"
)

const defaultRouteTimeout = 30 * time.Second

// WaypointHandler exposes the waypoint controller over HTTP. Every response
// is a snapshot taken after the mutation and its route computation.
type WaypointHandler struct {
	Controller    *services.WaypointController
	Resolver      *services.Resolver
	ContextSuffix string
	RouteTimeout  time.Duration
}

// Waypoints serves GET (snapshot), POST (append a located waypoint) and
// DELETE (clear everything but the mode) on /waypoints.
func (h *WaypointHandler) Waypoints(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeSnapshot(w, r)
	case http.MethodPost:
		h.add(w, r)
	case http.MethodDelete:
		h.finish(w, r, h.Controller.ClearAll())
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (h *WaypointHandler) add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddWaypointRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Lat == nil || req.Lng == nil {
		writeError(w, r, http.StatusBadRequest, "lat and lng are required")
		return
	}
	if *req.Lat < -90 || *req.Lat > 90 {
		writeError(w, r, http.StatusBadRequest, "lat must be between -90 and 90")
		return
	}
	if *req.Lng < -180 || *req.Lng > 180 {
		writeError(w, r, http.StatusBadRequest, "lng must be between -180 and 180")
		return
	}

	address := strings.TrimSpace(req.Address)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = address
	}

	loc := domain.NewLocation(*req.Lat, *req.Lng, address, name, domain.PropertyType(strings.TrimSpace(req.PropertyType)))
	h.finish(w, r, h.Controller.AppendLocation(loc))
}

// Resolve geocodes a single address as typed (no context suffix) and
// appends it. A failed lookup leaves the sequence untouched.
func (h *WaypointHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.ResolveWaypointRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		writeError(w, r, http.StatusBadRequest, "address is required")
		return
	}

	loc, err := h.Resolver.Resolve(r.Context(), address)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("address", address).Msg("address not resolved")
		writeJSON(w, r, http.StatusUnprocessableEntity, map[string]string{
			"error":   "address could not be resolved",
			"address": address,
		})
		return
	}

	h.finish(w, r, h.Controller.AppendLocation(loc))
}

// Batch expands "A -> B -> C" text into locations and appends the ones
// that resolved as a single mutation.
func (h *WaypointHandler) Batch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	locs, err := services.ExpandRouteText(r.Context(), req.Text, h.ContextSuffix, h.Resolver)
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "batch resolution cancelled")
		return
	}

	h.finish(w, r, h.Controller.AppendBatch(locs))
}

func (h *WaypointHandler) ToggleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	h.finish(w, r, h.Controller.ToggleMode())
}

// Select marks a waypoint by index. An out-of-range index is ignored and
// the unchanged snapshot is returned.
func (h *WaypointHandler) Select(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.SelectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Index == nil {
		writeError(w, r, http.StatusBadRequest, "index is required")
		return
	}

	if !h.Controller.SelectMarker(*req.Index) {
		zerolog.Ctx(r.Context()).Debug().Int("index", *req.Index).Msg("selection ignored")
	}
	h.writeSnapshot(w, r)
}

// finish completes a routed recomputation before answering. The computation
// outlives a disconnecting client so the controller never stays pending.
// A routing failure is already reflected as an empty route in the snapshot.
func (h *WaypointHandler) finish(w http.ResponseWriter, r *http.Request, rc services.Recompute) {
	if rc.NeedsProvider() {
		timeout := h.RouteTimeout
		if timeout <= 0 {
			timeout = defaultRouteTimeout
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), timeout)
		_ = h.Controller.Resolve(ctx, rc)
		cancel()
	}

	h.writeSnapshot(w, r)
}

func (h *WaypointHandler) writeSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, toSnapshotResponse(h.Controller.Snapshot()))
}

func toLocationResponse(i int, loc domain.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:           string(loc.ID),
		Index:        i,
		Lat:          loc.Lat,
		Lng:          loc.Lng,
		Address:      loc.Address,
		Name:         loc.Name,
		PropertyType: string(loc.PropertyType),
	}
}

func toSnapshotResponse(s services.Snapshot) dto.SnapshotResponse {
	res := dto.SnapshotResponse{
		Revision:  s.Revision,
		Mode:      s.Mode.String(),
		Locations: make([]dto.LocationResponse, 0, len(s.Locations)),
		Route: dto.RouteResponse{
			Status: string(s.Route.Status),
		},
	}

	for i, loc := range s.Locations {
		res.Locations = append(res.Locations, toLocationResponse(i, loc))
	}

	if s.Route.Status == domain.RouteReady {
		res.Route.TotalDistanceKm = geo.RoundKm(s.Route.TotalDistanceKm)
		if s.Route.HasGeometry() {
			line := s.Route.Geometry
			res.Route.Geometry = &line
		}
	}

	if loc, ok := s.SelectedLocation(); ok {
		idx := s.Selected
		sel := toLocationResponse(idx, loc)
		res.SelectedIndex = &idx
		res.Selected = &sel
	}

	return res
}
