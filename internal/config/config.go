package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"waypoint-route-service/internal/domain"
)

const (
	GeocoderORS       = "ors"
	GeocoderNominatim = "nominatim"

	CacheNone     = "none"
	CachePostgres = "postgres"
	CacheSQLite   = "sqlite"

	DefaultContextSuffix = ", Irvine, CA, USA"
)

// Config holds the runtime settings shared by the commands.
type Config struct {
	Port          string
	LogLevel      string
	Geocoder      string
	ORSAPIKey     string
	ORSBaseURL    string
	ORSRatePerSec float64
	ORSCountry    string
	NominatimURL  string
	ContextSuffix string
	CacheDriver   string
	DatabaseURL   string
	DBPath        string
	RedisURL      string
	RouteCacheTTL time.Duration
	DefaultMode   domain.DistanceMode
	SeedPath      string
}

// LoadDotEnv loads a .env file if present. It reports whether one was found.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetFloat parses the environment value for key as a positive number,
// using fallback when unset.
func GetFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return fallback, fmt.Errorf("%s must be a positive number", key)
	}
	return f, nil
}

// ORSCountry returns the country filter for ORS geocoding from ORS_COUNTRY.
// "any" disables the filter.
func ORSCountry() string {
	c := strings.TrimSpace(Get("ORS_COUNTRY", "US"))
	if strings.EqualFold(c, "any") {
		return ""
	}
	return strings.ToUpper(c)
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Port:          Get("PORT", "8080"),
		LogLevel:      Get("LOG_LEVEL", "info"),
		Geocoder:      strings.ToLower(Get("GEOCODER", GeocoderORS)),
		ORSAPIKey:     strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		ORSBaseURL:    Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		NominatimURL:  Get("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		ContextSuffix: Get("CONTEXT_SUFFIX", DefaultContextSuffix),
		CacheDriver:   strings.ToLower(Get("CACHE_DRIVER", CacheNone)),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBPath:        Get("DB_PATH", "data/cache.db"),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		SeedPath:      strings.TrimSpace(os.Getenv("SEED_PATH")),
	}

	var errs []error

	rate, err := GetFloat("ORS_RATE_PER_SEC", 5)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.ORSRatePerSec = rate
	cfg.ORSCountry = ORSCountry()

	ttl, err := time.ParseDuration(Get("ROUTE_CACHE_TTL", "24h"))
	if err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("ROUTE_CACHE_TTL must be a positive duration"))
	}
	cfg.RouteCacheTTL = ttl

	mode, err := domain.ParseDistanceMode(Get("DEFAULT_MODE", "routed"))
	if err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_MODE: %w", err))
	}
	cfg.DefaultMode = mode

	// Routing always goes through ORS; only geocoding is switchable.
	if cfg.ORSAPIKey == "" {
		errs = append(errs, errors.New("ORS_API_KEY is required"))
	}

	switch cfg.Geocoder {
	case GeocoderORS, GeocoderNominatim:
	default:
		errs = append(errs, fmt.Errorf("GEOCODER must be one of ors, nominatim; got %q", cfg.Geocoder))
	}

	switch cfg.CacheDriver {
	case CacheNone, CacheSQLite:
	case CachePostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for CACHE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_DRIVER must be one of none, sqlite, postgres; got %q", cfg.CacheDriver))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}
