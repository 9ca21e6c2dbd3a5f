package track

import (
	"fmt"
	"math"
)

// EarthRadius is the sphere radius used for great-circle distances, in metres.
const EarthRadius = 6371229.0

// DistanceMode selects how the distance between two points is measured.
type DistanceMode string

const (
	// Euclidean treats Lat/Lon as planar coordinates.
	Euclidean DistanceMode = "euclidean"
	// Scaled is Euclidean on coordinates divided by 1000 (metre grids to km).
	Scaled DistanceMode = "scaled"
	// Haversine treats Lat/Lon as WGS84 degrees and returns metres.
	Haversine DistanceMode = "haversine"
)

// ParseDistanceMode validates a distance mode name. The empty string selects
// Euclidean.
func ParseDistanceMode(s string) (DistanceMode, error) {
	switch DistanceMode(s) {
	case "", Euclidean:
		return Euclidean, nil
	case Scaled:
		return Scaled, nil
	case Haversine:
		return Haversine, nil
	default:
		return "", fmt.Errorf("unknown distance mode %q", s)
	}
}

// Distance measures the distance between a and b in the given mode.
func Distance(a, b Point, mode DistanceMode) float64 {
	switch mode {
	case Scaled:
		return math.Hypot(a.Lat/1000-b.Lat/1000, a.Lon/1000-b.Lon/1000)
	case Haversine:
		return HaversineDistance(a, b)
	default:
		return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
	}
}

// HaversineDistance calculates the great-circle distance between two points
// in metres.
func HaversineDistance(a, b Point) float64 {
	if a.SamePosition(b) {
		return 0
	}

	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadius * c
}

// Speed returns distance per second between a and b. Non-increasing
// timestamps yield 0 instead of an infinite speed.
func Speed(a, b Point, mode DistanceMode) float64 {
	dt := b.Time - a.Time
	if dt <= 0 {
		return 0
	}
	return Distance(a, b, mode) / dt
}

// Heading returns the direction of travel from a to b in radians, measured
// as atan2(Δlon, Δlat).
func Heading(a, b Point) float64 {
	return math.Atan2(b.Lon-a.Lon, b.Lat-a.Lat)
}
