package simplify

import (
	"fmt"

	"github.com/planbiir/gsquish/internal/track"
)

const nameUniform = "uniform"

func init() {
	Register(nameUniform, NewUniform)
}

// Uniform keeps every step-th point and the last point.
//
// Configuration parameters:
//   - step (default 2): sampling interval, >= 1
type Uniform struct {
	step int
}

// NewUniform creates a uniform sampler from registry parameters.
func NewUniform(params map[string]interface{}) (Algorithm, error) {
	step, err := intParam(nameUniform, params, "step", 2)
	if err != nil {
		return nil, err
	}
	if step < 1 {
		return nil, &InvalidParameterError{Algorithm: nameUniform, Param: "step", Value: step, Reason: "must be >= 1"}
	}
	return &Uniform{step: step}, nil
}

// Simplify implements Algorithm.
func (u *Uniform) Simplify(points []track.Point) ([]track.Point, error) {
	n := len(points)
	if n < 2 {
		return nil, ErrTooFewPoints
	}

	indices := make([]int, 0, n/u.step+2)
	for i := 0; i < n; i += u.step {
		indices = append(indices, i)
	}
	if indices[len(indices)-1] != n-1 {
		indices = append(indices, n-1)
	}
	return pick(points, indices), nil
}

// Name implements Algorithm.
func (u *Uniform) Name() string {
	return nameUniform
}

// Metadata implements Algorithm.
func (u *Uniform) Metadata() string {
	return fmt.Sprintf("uniform(step=%d)", u.step)
}
