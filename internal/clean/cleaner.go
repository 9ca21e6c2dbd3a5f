// Package clean removes points that would corrupt a simplification run:
// non-finite values, 0,0 fixes, timestamps running backwards, repeated
// samples and physically impossible jumps.
package clean

import (
	"errors"
	"time"

	"github.com/planbiir/gsquish/internal/track"
)

// ErrTooFewPoints is returned when fewer than two points survive.
var ErrTooFewPoints = errors.New("fewer than 2 valid points after cleaning")

// reason is why a point was dropped.
type reason int

const (
	keep reason = iota
	nonFinite
	zeroCoordinates
	outOfOrder
	duplicate
	tooFast
)

// Clean performs track sanitation with the given configuration
func Clean(points []track.Point, config Config) (Result, error) {
	startTime := time.Now()

	stats := Stats{OriginalPoints: len(points)}

	// Detect activity type on the finite part of the input
	activityType, detectedMaxSpeed, p95Speed := detectActivityType(points)
	stats.ActivityType = activityType
	stats.DetectedMaxSpeed = detectedMaxSpeed
	stats.P95Speed = p95Speed

	maxSpeed := config.MaxSpeed
	if maxSpeed <= 0 && config.AutoMaxSpeed {
		maxSpeed = detectedMaxSpeed
	}
	stats.AppliedMaxSpeed = maxSpeed

	kept := make([]track.Point, 0, len(points))
	indices := make([]int, 0, len(points))

	for i, p := range points {
		var last *track.Point
		if len(kept) > 0 {
			last = &kept[len(kept)-1]
		}

		switch classify(p, last, config, maxSpeed) {
		case nonFinite:
			stats.NonFinite++
		case zeroCoordinates:
			stats.ZeroCoordinates++
		case outOfOrder:
			stats.OutOfOrder++
		case duplicate:
			stats.Duplicates++
		case tooFast:
			stats.TooFast++
		default:
			kept = append(kept, p)
			indices = append(indices, i)
		}
	}

	stats.FinalPoints = len(kept)
	stats.PointsRemoved = len(points) - len(kept)
	if len(points) > 0 {
		stats.PointsPercent = float64(stats.PointsRemoved) / float64(len(points)) * 100
	}
	stats.ProcessingTime = time.Since(startTime)

	result := Result{Points: kept, Indices: indices, Stats: stats}
	if len(kept) < 2 {
		return result, ErrTooFewPoints
	}
	return result, nil
}

// classify checks p against the last kept point. The first valid point has
// no predecessor, so only its own values can disqualify it.
func classify(p track.Point, last *track.Point, config Config, maxSpeed float64) reason {
	if config.DropNonFinite && !p.IsFinite() {
		return nonFinite
	}
	if config.DropZeroCoordinates && p.Lat == 0 && p.Lon == 0 {
		return zeroCoordinates
	}
	if last == nil {
		return keep
	}

	if config.DropOutOfOrder && p.Time < last.Time {
		return outOfOrder
	}
	if config.DropDuplicates && p == *last {
		return duplicate
	}
	if maxSpeed > 0 && exceedsSpeed(*last, p, maxSpeed) {
		return tooFast
	}
	return keep
}
