package geo

import (
	"math"
	"slices"

	"provider-locator-service/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// points using the standard haversine formula.
func HaversineKm(a, b domain.Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLon*sinLon
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Ranked pairs a candidate with its straight-line distance from the origin.
type Ranked struct {
	Location       domain.CandidateLocation
	StraightLineKm float64
}

// Prefilter computes the straight-line distance from origin to every
// candidate, drops candidates beyond cutoffKm, and returns the survivors
// sorted ascending by that distance.
//
// This bounds how many expensive routing calls happen downstream. It is a
// recall/cost trade-off: in typical terrain a destination within the final
// road-distance cutoff also sits within the (larger) straight-line cutoff.
func Prefilter(origin domain.Point, candidates []domain.CandidateLocation, cutoffKm float64) []Ranked {
	out := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		d := HaversineKm(origin, c.Point)
		if d > cutoffKm {
			continue
		}
		out = append(out, Ranked{Location: c, StraightLineKm: d})
	}

	slices.SortFunc(out, func(a, b Ranked) int {
		if a.StraightLineKm < b.StraightLineKm {
			return -1
		}
		if a.StraightLineKm > b.StraightLineKm {
			return 1
		}
		// Tie-breaker ensures deterministic ordering for equidistant candidates.
		if a.Location.Name < b.Location.Name {
			return -1
		}
		if a.Location.Name > b.Location.Name {
			return 1
		}
		return 0
	})

	return out
}
