package ors

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultCountry = "US"
	defaultBackoff = 200 * time.Millisecond
)

// Client talks to OpenRouteService. It implements ports.Geocoder and
// ports.RouteProvider.
//
// It coordinates:
//   - Address normalization
//   - Request pacing through a token bucket
//   - External API calls with retry/backoff
//
// The client is safe for concurrent use.
type Client struct {
	session *http.Client
	apiKey  string
	baseURL string
	limiter *rate.Limiter
	backoff time.Duration
	// country restricts geocoding results; empty means worldwide.
	country string
}

func NewClient(apiKey string, baseURL string, ratePerSec float64) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if ratePerSec <= 0 {
		ratePerSec = 5
	}

	client := &Client{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
		backoff: defaultBackoff,
		country: DefaultCountry,
	}

	return client, nil
}

// SetCountry restricts geocoding results to an ISO 3166 country code.
// An empty code searches worldwide.
func (o *Client) SetCountry(country string) {
	o.country = strings.ToUpper(strings.TrimSpace(country))
}

// normalize collapses whitespace so equivalent addresses produce identical queries.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
