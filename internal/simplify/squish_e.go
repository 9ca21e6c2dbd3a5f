package simplify

import (
	"fmt"

	"github.com/planbiir/gsquish/internal/track"
)

const nameSquishE = "squish_e"

func init() {
	Register(nameSquishE, NewSquishE)
}

// SquishE runs a PriorityBuffer over a whole trajectory.
//
// Configuration parameters:
//   - ratio (default 10): compression ratio, > 0
//   - error_bound (default 0): maximum SED the convergence phase may remove, >= 0
type SquishE struct {
	ratio      float64
	errorBound float64

	last PriorityStats
}

// NewSquishE creates a SQUISH-E algorithm from registry parameters.
func NewSquishE(params map[string]interface{}) (Algorithm, error) {
	ratio, err := floatParam(nameSquishE, params, "ratio", 10)
	if err != nil {
		return nil, err
	}
	errorBound, err := floatParam(nameSquishE, params, "error_bound", 0)
	if err != nil {
		return nil, err
	}

	// Validate eagerly so bad configuration fails before any input is read.
	if _, err := NewPriorityBuffer(ratio, errorBound); err != nil {
		return nil, err
	}

	return &SquishE{ratio: ratio, errorBound: errorBound}, nil
}

// Simplify implements Algorithm.
func (s *SquishE) Simplify(points []track.Point) ([]track.Point, error) {
	buf, err := NewPriorityBuffer(s.ratio, s.errorBound)
	if err != nil {
		return nil, err
	}

	out, err := Drive(points, buf)
	if err != nil {
		return nil, err
	}
	s.last = buf.Stats()
	return out, nil
}

// LastStats returns the buffer counters of the most recent Simplify call.
func (s *SquishE) LastStats() PriorityStats {
	return s.last
}

// Name implements Algorithm.
func (s *SquishE) Name() string {
	return nameSquishE
}

// Metadata implements Algorithm.
func (s *SquishE) Metadata() string {
	return fmt.Sprintf("squish_e(ratio=%g,error_bound=%g)", s.ratio, s.errorBound)
}
