package simplify

import (
	"fmt"
	"math"

	"github.com/planbiir/gsquish/internal/track"
)

const nameDeadReckoning = "dead_reckoning"

func init() {
	Register(nameDeadReckoning, NewDeadReckoning)
}

// DeadReckoning accumulates the lateral deviation of every segment from the
// heading of the segment that started the current run, and keeps the run's
// last point once the sum exceeds epsilon.
//
// Configuration parameters:
//   - epsilon (default 0): accumulated deviation tolerance, >= 0
type DeadReckoning struct {
	epsilon float64
}

// NewDeadReckoning creates a dead reckoning filter from registry parameters.
func NewDeadReckoning(params map[string]interface{}) (Algorithm, error) {
	epsilon, err := floatParam(nameDeadReckoning, params, "epsilon", 0)
	if err != nil {
		return nil, err
	}
	if err := nonNegative(nameDeadReckoning, "epsilon", epsilon); err != nil {
		return nil, err
	}
	return &DeadReckoning{epsilon: epsilon}, nil
}

// Simplify implements Algorithm.
func (d *DeadReckoning) Simplify(points []track.Point) ([]track.Point, error) {
	n := len(points)
	if n < 2 {
		return nil, ErrTooFewPoints
	}

	// Segment k joins points k and k+1.
	lengths := make([]float64, n-1)
	headings := make([]float64, n-1)
	for k := 0; k < n-1; k++ {
		lengths[k] = track.Distance(points[k], points[k+1], track.Euclidean)
		headings[k] = track.Heading(points[k], points[k+1])
	}

	indices := []int{0}
	start := 0
	deviation := 0.0
	for i := 2; i < n; i++ {
		deviation += math.Abs(lengths[i-1] * math.Sin(headings[i-1]-headings[start]))
		if deviation > d.epsilon {
			deviation = 0
			indices = append(indices, i-1)
			start = i - 1
		}
	}
	indices = append(indices, n-1)

	return pick(points, indices), nil
}

// Name implements Algorithm.
func (d *DeadReckoning) Name() string {
	return nameDeadReckoning
}

// Metadata implements Algorithm.
func (d *DeadReckoning) Metadata() string {
	return fmt.Sprintf("dead_reckoning(epsilon=%g)", d.epsilon)
}
