package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"waypoint-route-service/internal/adapters/nominatim"
	"waypoint-route-service/internal/adapters/ors"
	"waypoint-route-service/internal/adapters/sheet"
	"waypoint-route-service/internal/config"
	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/geo"
	"waypoint-route-service/internal/platform/obs"
	"waypoint-route-service/internal/ports"
	"waypoint-route-service/internal/services"
)

// routetool builds a waypoint sequence once, from route text or a sheet,
// and prints every stop with the total distance.
func main() {
	config.LoadDotEnv()

	var (
		text   = flag.String("text", "", `route text, e.g. "UCI -> Irvine Spectrum"`)
		file   = flag.String("sheet", "", "xlsx or csv file with Address, Latitude, Longitude columns")
		mode   = flag.String("mode", config.Get("DEFAULT_MODE", "routed"), "distance mode: routed or direct")
		suffix = flag.String("suffix", config.Get("CONTEXT_SUFFIX", config.DefaultContextSuffix), "text appended to every address in -text")
		level  = flag.String("log-level", config.Get("LOG_LEVEL", "warn"), "log level")
	)
	flag.Parse()

	logger := obs.NewConsoleLogger(*level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = obs.WithRequestID(logger.WithContext(ctx), uuid.NewString())

	if err := run(ctx, os.Stdout, *text, *file, *mode, *suffix); err != nil {
		logger.Fatal().Err(err).Msg("routetool")
	}
}

func run(ctx context.Context, out io.Writer, text, file, modeName, suffix string) error {
	if (text == "") == (file == "") {
		return errors.New("exactly one of -text or -sheet is required")
	}

	mode, err := domain.ParseDistanceMode(modeName)
	if err != nil {
		return err
	}

	var client *ors.Client
	if key := config.Get("ORS_API_KEY", ""); key != "" {
		ratePerSec, err := config.GetFloat("ORS_RATE_PER_SEC", 5)
		if err != nil {
			return err
		}
		client, err = ors.NewClient(key, config.Get("ORS_BASE_URL", ors.DefaultBaseURL), ratePerSec)
		if err != nil {
			return err
		}
		client.SetCountry(config.ORSCountry())
	}

	var locs []domain.Location
	if file != "" {
		locs, err = sheet.ReadFile(file)
		if err != nil {
			return err
		}
	} else {
		var coder ports.Geocoder
		switch {
		case config.Get("GEOCODER", config.GeocoderORS) == config.GeocoderNominatim:
			coder = nominatim.New(config.Get("NOMINATIM_URL", "https://nominatim.openstreetmap.org"))
		case client != nil:
			coder = client
		default:
			return errors.New("ORS_API_KEY is required to geocode -text")
		}

		locs, err = services.ExpandRouteText(ctx, text, suffix, services.NewResolver(coder))
		if err != nil {
			return err
		}
	}

	var routes ports.RouteProvider
	if client != nil {
		routes = client
	} else if mode == domain.Routed {
		return errors.New("ORS_API_KEY is required for routed distances")
	}

	controller := services.NewWaypointController(services.NewRouteClient(routes), mode)

	rctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := controller.Resolve(rctx, controller.AppendBatch(locs)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("no routed distance")
	}

	printSnapshot(out, controller.Snapshot())
	return nil
}

func printSnapshot(out io.Writer, s services.Snapshot) {
	for i, loc := range s.Locations {
		fmt.Fprintf(out, "%2d. %s (%.6f, %.6f)\n", i+1, loc.Name, loc.Lat, loc.Lng)
	}

	switch s.Route.Status {
	case domain.RouteReady:
		fmt.Fprintf(out, "Total distance (%s): %.2f km\n", s.Mode, geo.RoundKm(s.Route.TotalDistanceKm))
	default:
		fmt.Fprintf(out, "Total distance (%s): unavailable\n", s.Mode)
	}
}
