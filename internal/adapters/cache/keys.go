package cache

import (
	"strings"

	"golang.org/x/text/cases"

	"waypoint-route-service/internal/domain"
)

// NormalizeAddress builds the cache key for an address: whitespace is
// collapsed and the text case-folded, so "1 Main  St" and "1 main st" share a key.
func NormalizeAddress(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// RouteKey identifies an ordered stop list for a travel mode.
// Order is significant: A->B and B->A are different keys.
func RouteKey(stops []domain.Coordinates, mode domain.TravelMode) string {
	parts := make([]string, 0, len(stops))
	for _, s := range stops {
		parts = append(parts, s.Key())
	}
	return "route:" + string(mode) + ":" + strings.Join(parts, "|")
}

// uniqueKeys normalizes addresses, dropping empties and duplicates while keeping order.
func uniqueKeys(addresses []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(addresses))
	for _, a := range addresses {
		a = NormalizeAddress(a)
		if a == "" {
			continue
		}

		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		uniq = append(uniq, a)
	}
	return uniq
}
