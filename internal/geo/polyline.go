package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"waypoint-route-service/internal/domain"
)

// LineStringFromPairs builds a geom.LineString from [lon, lat] pairs.
func LineStringFromPairs(coords [][]float64) (geom.LineString, error) {
	if len(coords) < 2 {
		return geom.LineString{}, fmt.Errorf("line string must have at least 2 points, got %d", len(coords))
	}

	flat := make([]float64, 0, len(coords)*2)
	for i, c := range coords {
		if len(c) < 2 {
			return geom.LineString{}, fmt.Errorf("coordinate %d has insufficient values", i)
		}
		flat = append(flat, c[0], c[1])
	}

	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("line string: %w", err)
	}
	return ls, nil
}

// LineStringFromLocations connects the locations in order with straight segments.
func LineStringFromLocations(locs []domain.Location) (geom.LineString, error) {
	pairs := make([][]float64, 0, len(locs))
	for _, l := range locs {
		pairs = append(pairs, l.Coordinates().CoordsToList())
	}
	return LineStringFromPairs(pairs)
}

// Pairs returns the line string vertices as [lon, lat] pairs.
func Pairs(ls geom.LineString) [][]float64 {
	seq := ls.Coordinates()
	out := make([][]float64, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		out = append(out, []float64{xy.X, xy.Y})
	}
	return out
}
