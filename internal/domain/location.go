package domain

import "github.com/google/uuid"

// PropertyType classifies a waypoint for presentation.
type PropertyType string

const DefaultPropertyType PropertyType = "Residential"

// LocationID is a synthetic identity assigned when a Location is created.
// Position in the waypoint sequence is not an identity: duplicates are allowed
// and indices shift as the sequence changes.
type LocationID string

// Location is a single resolved waypoint. Treat it as a value; it is never
// modified after construction.
type Location struct {
	ID           LocationID
	Lat          float64
	Lng          float64
	Address      string
	Name         string
	PropertyType PropertyType
}

// NewLocation creates a Location with a fresh identity.
// An empty property type defaults to DefaultPropertyType.
func NewLocation(lat, lng float64, address, name string, propertyType PropertyType) Location {
	if propertyType == "" {
		propertyType = DefaultPropertyType
	}
	return Location{
		ID:           LocationID(uuid.NewString()),
		Lat:          lat,
		Lng:          lng,
		Address:      address,
		Name:         name,
		PropertyType: propertyType,
	}
}

func (l Location) Coordinates() Coordinates {
	return Coordinates{Lon: l.Lng, Lat: l.Lat}
}

// GeocodeCandidate is one match returned by a geocoding provider.
type GeocodeCandidate struct {
	Coordinates      Coordinates
	FormattedAddress string
}
