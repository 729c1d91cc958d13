package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"waypoint-route-service/internal/api/handlers"
	"waypoint-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers only see services; concrete adapters are chosen by the caller.
func NewRouter(
	controller *services.WaypointController,
	resolver *services.Resolver,
	contextSuffix string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	wp := &handlers.WaypointHandler{
		Controller:    controller,
		Resolver:      resolver,
		ContextSuffix: contextSuffix,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/waypoints", wp.Waypoints)
	mux.HandleFunc("/waypoints/resolve", wp.Resolve)
	mux.HandleFunc("/waypoints/batch", wp.Batch)
	mux.HandleFunc("/mode/toggle", wp.ToggleMode)
	mux.HandleFunc("/selection", wp.Select)

	return loggingMiddleware(logger, mux)
}
