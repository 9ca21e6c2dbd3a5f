package simplify

import (
	"fmt"
	"math"

	"github.com/planbiir/gsquish/internal/track"
)

const nameThreshold = "threshold"

func init() {
	Register(nameThreshold, NewThreshold)
}

// Threshold drops a point when the speed and heading of its outgoing segment
// stay close to both the last kept segment and the previous raw segment.
//
// Configuration parameters:
//   - speed_threshold (default 1): tolerated speed difference, >= 0
//   - orientation_threshold (default π/4): tolerated heading difference in radians, >= 0
//   - distance (default "euclidean"): "euclidean", "scaled" or "haversine"
type Threshold struct {
	speedThreshold       float64
	orientationThreshold float64
	mode                 track.DistanceMode
}

// NewThreshold creates a threshold filter from registry parameters.
func NewThreshold(params map[string]interface{}) (Algorithm, error) {
	speed, err := floatParam(nameThreshold, params, "speed_threshold", 1)
	if err != nil {
		return nil, err
	}
	if err := nonNegative(nameThreshold, "speed_threshold", speed); err != nil {
		return nil, err
	}

	orientation, err := floatParam(nameThreshold, params, "orientation_threshold", math.Pi/4)
	if err != nil {
		return nil, err
	}
	if err := nonNegative(nameThreshold, "orientation_threshold", orientation); err != nil {
		return nil, err
	}

	modeName, err := stringParam(nameThreshold, params, "distance", string(track.Euclidean))
	if err != nil {
		return nil, err
	}
	mode, err := track.ParseDistanceMode(modeName)
	if err != nil {
		return nil, &InvalidParameterError{Algorithm: nameThreshold, Param: "distance", Value: modeName, Reason: err.Error()}
	}

	return &Threshold{speedThreshold: speed, orientationThreshold: orientation, mode: mode}, nil
}

// Simplify implements Algorithm.
func (t *Threshold) Simplify(points []track.Point) ([]track.Point, error) {
	n := len(points)
	if n < 2 {
		return nil, ErrTooFewPoints
	}
	if n < 3 {
		return append([]track.Point(nil), points...), nil
	}

	sample := []track.Point{points[0], points[1]}
	for i := 2; i < n-1; i++ {
		sb, sc := sample[len(sample)-2], sample[len(sample)-1]
		c, d, e := points[i-2], points[i-1], points[i]

		if t.safeSpeed(sb, sc, c, d, e) && t.safeOrientation(sb, sc, c, d, e) {
			continue
		}
		sample = append(sample, e)
	}
	sample = append(sample, points[n-1])

	return sample, nil
}

func (t *Threshold) safeSpeed(sb, sc, c, d, e track.Point) bool {
	sampleSpeed := track.Speed(sb, sc, t.mode)
	trajectorySpeed := track.Speed(c, d, t.mode)
	deSpeed := track.Speed(d, e, t.mode)

	return math.Abs(sampleSpeed-deSpeed) <= t.speedThreshold &&
		math.Abs(trajectorySpeed-deSpeed) <= t.speedThreshold
}

func (t *Threshold) safeOrientation(sb, sc, c, d, e track.Point) bool {
	de := track.Heading(d, e)

	return math.Abs(de-track.Heading(sb, sc)) <= t.orientationThreshold &&
		math.Abs(de-track.Heading(c, d)) <= t.orientationThreshold
}

// Name implements Algorithm.
func (t *Threshold) Name() string {
	return nameThreshold
}

// Metadata implements Algorithm.
func (t *Threshold) Metadata() string {
	return fmt.Sprintf("threshold(speed_threshold=%g,orientation_threshold=%g,distance=%s)",
		t.speedThreshold, t.orientationThreshold, t.mode)
}
