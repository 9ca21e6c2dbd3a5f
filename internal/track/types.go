// Package track holds the trajectory point model and the distance and error
// metrics shared by every simplification algorithm.
package track

import (
	"math"
	"time"
)

// Point is a single timestamped position. Time is expressed in seconds on
// whatever clock the source uses (Unix seconds for GPX input).
type Point struct {
	Lat  float64
	Lon  float64
	Time float64
}

// IsFinite reports whether all three components are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0) &&
		!math.IsNaN(p.Time) && !math.IsInf(p.Time, 0)
}

// SamePosition reports whether two points share latitude and longitude.
func (p Point) SamePosition(o Point) bool {
	return p.Lat == o.Lat && p.Lon == o.Lon
}

// TimeFromGo converts a wall clock timestamp to Unix seconds, keeping
// sub-second precision. The zero time maps to 0.
func TimeFromGo(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// GoTime converts Unix seconds back to a UTC wall clock timestamp.
func GoTime(seconds float64) time.Time {
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
}
