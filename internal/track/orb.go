package track

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// LineString converts a trajectory to an orb line string. orb points are
// ordered (x, y), so longitude comes first.
func LineString(points []Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}

// Times returns the timestamps of a trajectory in order.
func Times(points []Point) []float64 {
	times := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.Time
	}
	return times
}

// GeodesicLength returns the haversine length of the trajectory in metres,
// treating Lat/Lon as WGS84 degrees.
func GeodesicLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	return geo.Length(LineString(points))
}

// Bound returns the bounding box of the trajectory.
func Bound(points []Point) orb.Bound {
	return LineString(points).Bound()
}
