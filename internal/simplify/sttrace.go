package simplify

import (
	"fmt"

	"github.com/planbiir/gsquish/internal/track"
)

const nameSTTrace = "sttrace"

func init() {
	Register(nameSTTrace, NewSTTrace)
}

// STTrace runs a SlidingBuffer sized to a fraction of the input length.
//
// Configuration parameters:
//   - compression_ratio (default 0.5): fraction of the input to keep, > 0
type STTrace struct {
	compressionRatio float64
}

// NewSTTrace creates an STTrace algorithm from registry parameters.
func NewSTTrace(params map[string]interface{}) (Algorithm, error) {
	ratio, err := floatParam(nameSTTrace, params, "compression_ratio", 0.5)
	if err != nil {
		return nil, err
	}
	if err := positive(nameSTTrace, "compression_ratio", ratio); err != nil {
		return nil, err
	}
	return &STTrace{compressionRatio: ratio}, nil
}

// Simplify implements Algorithm.
func (s *STTrace) Simplify(points []track.Point) ([]track.Point, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	return Drive(points, NewSlidingBuffer(MaxBufferSize(s.compressionRatio, len(points))))
}

// Name implements Algorithm.
func (s *STTrace) Name() string {
	return nameSTTrace
}

// Metadata implements Algorithm.
func (s *STTrace) Metadata() string {
	return fmt.Sprintf("sttrace(compression_ratio=%g)", s.compressionRatio)
}
