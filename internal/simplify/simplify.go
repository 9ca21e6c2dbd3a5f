// Package simplify reduces trajectories to an order preserving subsequence
// of their points.
//
// Two bounded-memory engines form the core:
//
//   - PriorityBuffer (SQUISH-E): a buffer whose capacity grows with the
//     number of points consumed divided by the compression ratio. Every
//     interior entry carries a cost (SED against its neighbours plus the error
//     it already absorbed) and evicting an entry hands its cost to both
//     neighbours as compensation. After the stream ends the buffer keeps
//     evicting while the cheapest entry stays within the error bound.
//   - SlidingBuffer (STTrace): a buffer of fixed size derived from the input
//     length whose costs are purely local SED values, recomputed for the two
//     neighbours of every evicted entry.
//
// Five single-pass filters (uniform, opw, opw_tr, dead_reckoning, threshold)
// share the same Algorithm interface so callers can pick any of them by name.
//
// # Assumptions
//
// Points are supplied in chronological order. Every algorithm keeps the first
// and last input point and never reorders points.
//
// # Thread Safety
//
// Engines and algorithms are NOT goroutine-safe. Independent trajectories can
// be simplified concurrently with separate instances.
package simplify

import (
	"errors"
	"fmt"
	"sort"

	"github.com/planbiir/gsquish/internal/track"
)

var (
	// ErrTooFewPoints is returned for trajectories shorter than two points.
	ErrTooFewPoints = errors.New("trajectory needs at least 2 points")

	// ErrFinished is returned when a finished engine receives more points.
	ErrFinished = errors.New("engine already finished")
)

// Algorithm simplifies a complete trajectory.
type Algorithm interface {
	// Simplify returns a subsequence of points that always contains the
	// first and last point.
	Simplify(points []track.Point) ([]track.Point, error)

	// Name returns the registry name of the algorithm.
	Name() string

	// Metadata describes the algorithm and its parameters.
	Metadata() string
}

// Factory creates a configured algorithm instance.
type Factory func(params map[string]interface{}) (Algorithm, error)

var registry = make(map[string]Factory)

// Register adds an algorithm to the registry.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// Create instantiates an algorithm by name.
func Create(name string, params map[string]interface{}) (Algorithm, error) {
	factory, exists := registry[name]
	if !exists {
		return nil, &AlgorithmNotFoundError{Name: name}
	}
	return factory(params)
}

// Names lists the registered algorithms in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AlgorithmNotFoundError is returned when an unknown algorithm is requested.
type AlgorithmNotFoundError struct {
	Name string
}

func (e *AlgorithmNotFoundError) Error() string {
	return "algorithm not found: " + e.Name
}

// InvalidParameterError reports a parameter rejected before processing starts.
type InvalidParameterError struct {
	Algorithm string
	Param     string
	Value     interface{}
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid %s %v: %s", e.Algorithm, e.Param, e.Value, e.Reason)
}

// pick copies the points at the given indices.
func pick(points []track.Point, indices []int) []track.Point {
	out := make([]track.Point, len(indices))
	for i, idx := range indices {
		out[i] = points[idx]
	}
	return out
}
