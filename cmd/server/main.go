package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"waypoint-route-service/internal/adapters/cache"
	"waypoint-route-service/internal/adapters/nominatim"
	"waypoint-route-service/internal/adapters/ors"
	"waypoint-route-service/internal/adapters/sheet"
	"waypoint-route-service/internal/api"
	"waypoint-route-service/internal/config"
	"waypoint-route-service/internal/platform/db"
	"waypoint-route-service/internal/platform/obs"
	"waypoint-route-service/internal/ports"
	"waypoint-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (ORS, Nominatim, SQL and Redis caches) behind ports and starts the HTTP server.
func main() {
	foundEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		logger := obs.NewLogger("info", os.Stderr)
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := obs.NewLogger(cfg.LogLevel, os.Stderr)
	if !foundEnv {
		logger.Info().Msg("no .env file found (using environment variables)")
	}
	ctx := logger.WithContext(context.Background())

	client, err := ors.NewClient(cfg.ORSAPIKey, cfg.ORSBaseURL, cfg.ORSRatePerSec)
	if err != nil {
		logger.Fatal().Err(err).Msg("ors client")
	}
	client.SetCountry(cfg.ORSCountry)

	var geocoder ports.Geocoder = client
	if cfg.Geocoder == config.GeocoderNominatim {
		geocoder = nominatim.New(cfg.NominatimURL)
	}

	store, closeStore, err := openGeocodeStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("geocode cache")
	}
	defer closeStore()
	if store != nil {
		geocoder = cache.NewCachedGeocoder(geocoder, store)
	}

	var routes ports.RouteProvider = client
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisRouteStoreFromURL(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("route cache")
		}
		defer redisStore.Close()
		routes = cache.NewCachedRouteProvider(routes, redisStore, cfg.RouteCacheTTL)
	}

	controller := services.NewWaypointController(services.NewRouteClient(routes), cfg.DefaultMode)
	resolver := services.NewResolver(geocoder)

	if cfg.SeedPath != "" {
		if err := seedWaypoints(ctx, controller, cfg.SeedPath); err != nil {
			logger.Fatal().Err(err).Msg("seed waypoints")
		}
	}

	router := api.NewRouter(controller, resolver, cfg.ContextSuffix, logger)

	logger.Info().
		Str("addr", ":"+cfg.Port).
		Str("geocoder", cfg.Geocoder).
		Str("cache", cfg.CacheDriver).
		Bool("route_cache", cfg.RedisURL != "").
		Str("mode", cfg.DefaultMode.String()).
		Msg("server listening")

	// Timeouts leave room for sequential geocoding of long batches (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// openGeocodeStore opens the configured persistent geocode cache.
// A nil store means caching is disabled.
func openGeocodeStore(ctx context.Context, cfg config.Config) (ports.GeocodeStore, func() error, error) {
	var (
		conn    *sql.DB
		dialect db.Dialect
		err     error
	)

	switch cfg.CacheDriver {
	case config.CachePostgres:
		conn, err = db.Open(cfg.DatabaseURL)
		dialect = db.Postgres
	case config.CacheSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, nil, err
		}
		conn, err = db.OpenSQLite(cfg.DBPath)
		dialect = db.SQLite
	default:
		return nil, func() error { return nil }, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if err := db.InitSchema(ctx, conn, dialect); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if dialect == db.Postgres {
		return cache.NewSQLGeocodeCache(conn), conn.Close, nil
	}
	return cache.NewSqliteGeocodeCache(conn), conn.Close, nil
}

func seedWaypoints(ctx context.Context, controller *services.WaypointController, path string) error {
	locs, err := sheet.ReadFile(path)
	if err != nil {
		return err
	}

	if err := controller.Resolve(ctx, controller.AppendBatch(locs)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("seeded route unavailable")
	}
	zerolog.Ctx(ctx).Info().Int("waypoints", len(locs)).Str("path", path).Msg("waypoints seeded")
	return nil
}
