package dto

import "github.com/peterstace/simplefeatures/geom"

type AddWaypointRequest struct {
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	Address      string   `json:"address"`
	Name         string   `json:"name"`
	PropertyType string   `json:"property_type"`
}

type ResolveWaypointRequest struct {
	Address string `json:"address"`
}

type BatchRequest struct {
	Text string `json:"text"`
}

type SelectRequest struct {
	Index *int `json:"index"`
}

type LocationResponse struct {
	ID           string  `json:"id"`
	Index        int     `json:"index"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Address      string  `json:"address"`
	Name         string  `json:"name"`
	PropertyType string  `json:"property_type"`
}

// RouteResponse carries the total rounded to two decimals. Geometry is
// GeoJSON and only present for a ready routed result.
type RouteResponse struct {
	Status          string           `json:"status"`
	TotalDistanceKm float64          `json:"total_distance_km"`
	Geometry        *geom.LineString `json:"geometry,omitempty"`
}

type SnapshotResponse struct {
	Revision      uint64             `json:"revision"`
	Mode          string             `json:"mode"`
	Locations     []LocationResponse `json:"locations"`
	Route         RouteResponse      `json:"route"`
	SelectedIndex *int               `json:"selected_index,omitempty"`
	Selected      *LocationResponse  `json:"selected,omitempty"`
}
