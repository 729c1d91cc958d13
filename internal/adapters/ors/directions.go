package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/geo"
	"waypoint-route-service/internal/platform/obs"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Segments []struct {
				Distance float64 `json:"distance"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// profiles maps travel modes to ORS routing profiles.
var profiles = map[domain.TravelMode]string{
	domain.Walking: "foot-walking",
}

// Directions fetches a path through stops in the given order using the
// OpenRouteService directions endpoint. ORS never reorders waypoints.
func (o *Client) Directions(
	ctx context.Context,
	stops []domain.Coordinates,
	mode domain.TravelMode,
) (_ domain.Directions, err error) {
	defer obs.Time(ctx, "ors.Directions")(&err)

	if len(stops) < 2 {
		return domain.Directions{}, errors.New("ors directions: at least 2 stops are required")
	}

	profile, ok := profiles[mode]
	if !ok {
		return domain.Directions{}, fmt.Errorf("ors directions: unsupported travel mode %q", mode)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, profile)

	body := directionsRequest{Coordinates: make([][]float64, 0, len(stops))}
	for _, s := range stops {
		body.Coordinates = append(body.Coordinates, s.CoordsToList())
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return domain.Directions{}, fmt.Errorf("ors directions: marshal request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.Directions{}, fmt.Errorf("ors directions: request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.Directions{}, fmt.Errorf("ors directions: decode response: %w", err)
	}

	if len(dr.Features) == 0 {
		return domain.Directions{}, errors.New("ors directions: response contains no route")
	}

	feature := dr.Features[0]
	if want := len(stops) - 1; len(feature.Properties.Segments) != want {
		return domain.Directions{}, fmt.Errorf(
			"ors directions: expected %d segments, got %d",
			want, len(feature.Properties.Segments),
		)
	}

	line, err := geo.LineStringFromPairs(feature.Geometry.Coordinates)
	if err != nil {
		return domain.Directions{}, fmt.Errorf("ors directions: route geometry: %w", err)
	}

	legs := make([]domain.RouteLeg, 0, len(feature.Properties.Segments))
	for _, s := range feature.Properties.Segments {
		legs = append(legs, domain.RouteLeg{DistanceMeters: s.Distance})
	}

	return domain.Directions{Legs: legs, Geometry: line}, nil
}
