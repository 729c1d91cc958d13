package domain

import (
	"fmt"
	"strings"

	"github.com/peterstace/simplefeatures/geom"
)

// DistanceMode selects how the waypoint sequence is measured.
type DistanceMode int

const (
	// Routed asks the routing provider for a walking path through every stop.
	Routed DistanceMode = iota
	// Direct sums great-circle distances between consecutive stops.
	Direct
)

func (m DistanceMode) String() string {
	switch m {
	case Routed:
		return "routed"
	case Direct:
		return "direct"
	default:
		return fmt.Sprintf("DistanceMode(%d)", int(m))
	}
}

// Toggle returns the other mode.
func (m DistanceMode) Toggle() DistanceMode {
	if m == Direct {
		return Routed
	}
	return Direct
}

// ParseDistanceMode accepts "routed" or "direct" (case-insensitive).
func ParseDistanceMode(s string) (DistanceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "routed", "walking":
		return Routed, nil
	case "direct", "straight", "straight-line":
		return Direct, nil
	default:
		return Routed, fmt.Errorf("parse distance mode: unknown mode %q", s)
	}
}

// TravelMode is the routing profile requested from the provider.
// Walking is the only supported profile.
type TravelMode string

const Walking TravelMode = "walking"

// RouteLeg is the provider's path between two consecutive stops.
type RouteLeg struct {
	DistanceMeters float64
}

// Directions is the raw provider answer for an ordered list of stops.
type Directions struct {
	Legs     []RouteLeg
	Geometry geom.LineString
}

// RoutedPath is a provider path with its total length already converted to kilometers.
type RoutedPath struct {
	Geometry        geom.LineString
	TotalDistanceKm float64
}

// RouteStatus describes the lifecycle of the current RouteResult.
type RouteStatus string

const (
	RouteEmpty   RouteStatus = "empty"
	RoutePending RouteStatus = "pending"
	RouteReady   RouteStatus = "ready"
)

// RouteResult is derived from the waypoint sequence and distance mode.
// It is replaced wholesale on every recomputation.
// Geometry is only populated for Routed results.
type RouteResult struct {
	Status          RouteStatus
	Mode            DistanceMode
	Geometry        geom.LineString
	TotalDistanceKm float64
}

func (r RouteResult) HasGeometry() bool {
	return !r.Geometry.IsEmpty()
}
