package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"waypoint-route-service/internal/domain"
)

// RouteDelimiter separates waypoints in pasted route text, e.g. "A -> B -> C".
const RouteDelimiter = "->"

// SplitRouteText splits raw route text into address queries, in order.
// Each piece is trimmed and suffixed; empty pieces are dropped.
func SplitRouteText(raw string, suffix string) []string {
	parts := strings.Split(raw, RouteDelimiter)

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p+suffix)
	}
	return out
}

// ExpandRouteText resolves every address in raw, one at a time and in order.
// Addresses that fail to resolve are logged and skipped, so the result is the
// successfully resolved subsequence (possibly empty). The only error returned
// is the context's, together with whatever was resolved before it ended.
func ExpandRouteText(
	ctx context.Context,
	raw string,
	suffix string,
	resolver *Resolver,
) ([]domain.Location, error) {
	logger := zerolog.Ctx(ctx)
	addresses := SplitRouteText(raw, suffix)

	out := make([]domain.Location, 0, len(addresses))
	for _, address := range addresses {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		loc, err := resolver.Resolve(ctx, address)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			logger.Warn().Err(err).Str("address", address).Msg("skipping unresolved address")
			continue
		}
		out = append(out, loc)
	}

	logger.Debug().
		Int("requested", len(addresses)).
		Int("resolved", len(out)).
		Msg("route text expanded")

	return out, nil
}
