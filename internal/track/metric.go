package track

import "math"

// SED returns the synchronous euclidean distance of mid against the chord
// start→end: the distance between mid and the position interpolated on the
// chord at mid's timestamp. A zero time span interpolates at end (ratio 1).
func SED(start, mid, end Point) float64 {
	ratio := 1.0
	if span := end.Time - start.Time; span != 0 {
		ratio = (mid.Time - start.Time) / span
	}

	lat := start.Lat + (end.Lat-start.Lat)*ratio
	lon := start.Lon + (end.Lon-start.Lon)*ratio

	return math.Hypot(lat-mid.Lat, lon-mid.Lon)
}

// PED returns the perpendicular distance of mid to the infinite line through
// start and end. Coincident start and end give 0.
func PED(start, mid, end Point) float64 {
	a := end.Lon - start.Lon
	b := start.Lat - end.Lat
	if a == 0 && b == 0 {
		return 0
	}
	c := end.Lat*start.Lon - start.Lat*end.Lon

	return math.Abs(a*mid.Lat+b*mid.Lon+c) / math.Hypot(a, b)
}
