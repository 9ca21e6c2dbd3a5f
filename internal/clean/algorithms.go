package clean

import (
	"math"
	"sort"

	"github.com/planbiir/gsquish/internal/track"
)

// exceedsSpeed reports whether moving from prev to curr needs more than
// maxSpeed m/s. Equal timestamps carry no speed information and pass.
func exceedsSpeed(prev, curr track.Point, maxSpeed float64) bool {
	dt := curr.Time - prev.Time
	if dt <= 0 {
		return false
	}
	return track.HaversineDistance(prev, curr)/dt > maxSpeed
}

// detectActivityType automatically detects activity type and sets speed limits
func detectActivityType(points []track.Point) (string, float64, float64) {
	speeds := calculateAllSpeeds(points)
	if len(speeds) == 0 {
		return "unknown", 12.0, 0.0
	}

	// Calculate P95 speed for activity classification
	p95 := percentile(speeds, 95)

	var maxSpeed float64
	var activityType string

	if p95 <= 8.0 { // 28.8 km/h
		maxSpeed = 12.0 // 43.2 km/h for running
		activityType = "running/hiking"
	} else if p95 <= 20.0 { // 72 km/h
		maxSpeed = 30.0 // 108 km/h for cycling
		activityType = "cycling"
	} else {
		// skiing, motorsports
		maxSpeed = 50.0 // 180 km/h
		activityType = "high-speed"
	}

	return activityType, maxSpeed, p95
}

// calculateAllSpeeds computes haversine speeds between consecutive finite
// points with increasing timestamps
func calculateAllSpeeds(points []track.Point) []float64 {
	if len(points) < 2 {
		return nil
	}

	var speeds []float64
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		if !prev.IsFinite() || !curr.IsFinite() {
			continue
		}
		dt := curr.Time - prev.Time
		if dt <= 0 {
			continue
		}
		speed := track.HaversineDistance(prev, curr) / dt
		if speed > 0 && speed < 100 { // reasonable bounds
			speeds = append(speeds, speed)
		}
	}
	return speeds
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0.0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
