package ors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves a single address using OpenRouteService (/geocode/search).
// Features with malformed coordinates are skipped; no features yields an empty slice.
func (o *Client) Geocode(ctx context.Context, address string) (_ []domain.GeocodeCandidate, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return nil, errors.New("ors geocode: address must be non-empty")
	}

	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("ors geocode %q: execute request: %w", norm, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ors geocode %q: unexpected status: %d", norm, resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("ors geocode %q: decode response: %w", norm, err)
	}

	out := make([]domain.GeocodeCandidate, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		coords := f.Geometry.Coordinates
		if len(coords) != 2 {
			continue
		}

		label := f.Properties.Label
		if label == "" {
			label = norm
		}

		out = append(out, domain.GeocodeCandidate{
			Coordinates:      domain.Coordinates{Lon: coords[0], Lat: coords[1]},
			FormattedAddress: label,
		})
	}

	return out, nil
}
