package simplify

import (
	"fmt"

	orbsimplify "github.com/paulmach/orb/simplify"

	"github.com/planbiir/gsquish/internal/track"
)

const nameDouglasPeucker = "douglas_peucker"

func init() {
	Register(nameDouglasPeucker, NewDouglasPeucker)
}

// DouglasPeucker is the offline baseline: the classic recursive split on the
// farthest planar point, delegated to orb. It ignores timestamps and needs
// the whole trajectory in memory.
//
// Configuration parameters:
//   - epsilon (default 0): planar distance tolerance in coordinate units, >= 0
type DouglasPeucker struct {
	epsilon float64
}

// NewDouglasPeucker creates a Douglas-Peucker algorithm from registry
// parameters.
func NewDouglasPeucker(params map[string]interface{}) (Algorithm, error) {
	epsilon, err := floatParam(nameDouglasPeucker, params, "epsilon", 0)
	if err != nil {
		return nil, err
	}
	if err := nonNegative(nameDouglasPeucker, "epsilon", epsilon); err != nil {
		return nil, err
	}
	return &DouglasPeucker{epsilon: epsilon}, nil
}

// Simplify implements Algorithm.
func (d *DouglasPeucker) Simplify(points []track.Point) ([]track.Point, error) {
	n := len(points)
	if n < 2 {
		return nil, ErrTooFewPoints
	}

	ls := orbsimplify.DouglasPeucker(d.epsilon).LineString(track.LineString(points))

	// orb returns coordinates only; walk the input to recover which samples
	// they came from. The last kept coordinate is always the last input point.
	indices := make([]int, 0, len(ls))
	j := 0
	for _, c := range ls {
		for j < n && (points[j].Lon != c[0] || points[j].Lat != c[1]) {
			j++
		}
		if j == n {
			return nil, fmt.Errorf("%s: simplified coordinate %v not found in input", nameDouglasPeucker, c)
		}
		indices = append(indices, j)
		j++
	}
	indices[len(indices)-1] = n - 1

	return pick(points, indices), nil
}

// Name implements Algorithm.
func (d *DouglasPeucker) Name() string {
	return nameDouglasPeucker
}

// Metadata implements Algorithm.
func (d *DouglasPeucker) Metadata() string {
	return fmt.Sprintf("douglas_peucker(epsilon=%g)", d.epsilon)
}
