package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/platform/obs"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	APITimeout     = time.Second * 10
	UserAgent      = "waypoint-route-service/1.0"
)

// Nominatim geocodes addresses against an OSM Nominatim instance.
// The public instance allows one request per second, which the limiter enforces.
type Nominatim struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

type SearchResult struct {
	APILat      string `json:"lat"`
	APILon      string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func New(baseURL string) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Nominatim{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: APITimeout},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

func (n *Nominatim) Geocode(ctx context.Context, address string) (_ []domain.GeocodeCandidate, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("q", strings.Join(strings.Fields(address), " "))
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch address details from Nominatim API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim search %q: unexpected status: %d", address, resp.StatusCode)
	}

	var results []SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode Nominatim API response: %w", err)
	}

	// Results with malformed coordinates are skipped.
	out := make([]domain.GeocodeCandidate, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.APILat, 64)
		lon, errLon := strconv.ParseFloat(r.APILon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		out = append(out, domain.GeocodeCandidate{
			Coordinates:      domain.Coordinates{Lon: lon, Lat: lat},
			FormattedAddress: r.DisplayName,
		})
	}

	return out, nil
}
