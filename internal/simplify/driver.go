package simplify

import "github.com/planbiir/gsquish/internal/track"

// StreamEngine consumes points one at a time and produces the simplified
// trajectory once the stream ends.
type StreamEngine interface {
	Push(p track.Point) error
	Finish() ([]track.Point, error)
}

// Drive feeds points into engine in order and returns its output. Inputs
// shorter than two points are rejected before the engine sees any of them.
func Drive(points []track.Point, engine StreamEngine) ([]track.Point, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	for _, p := range points {
		if err := engine.Push(p); err != nil {
			return nil, err
		}
	}
	return engine.Finish()
}
