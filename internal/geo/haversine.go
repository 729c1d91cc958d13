package geo

import (
	"math"

	"waypoint-route-service/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// DistanceKm computes the great-circle distance between two points in kilometers
// using the haversine formula. Coordinates are not validated.
func DistanceKm(latA, lngA, latB, lngB float64) float64 {
	dLat := toRadians(latB - latA)
	dLng := toRadians(lngB - lngA)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(latA))*math.Cos(toRadians(latB))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// PathKm sums DistanceKm over every consecutive pair, in order.
// Fewer than two locations yield 0.
func PathKm(locs []domain.Location) float64 {
	total := 0.0
	for i := 1; i < len(locs); i++ {
		prev, curr := locs[i-1], locs[i]
		total += DistanceKm(prev.Lat, prev.Lng, curr.Lat, curr.Lng)
	}
	return total
}

// RoundKm rounds to two decimals, the precision totals are displayed with.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
