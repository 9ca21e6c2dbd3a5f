package simplify

import (
	"fmt"

	"github.com/planbiir/gsquish/internal/track"
)

const (
	nameOPW   = "opw"
	nameOPWTR = "opw_tr"
)

func init() {
	Register(nameOPW, NewOPW)
	Register(nameOPWTR, NewOPWTR)
}

// OpeningWindow grows a window from the last kept point until some point
// inside it lies further than epsilon from the window chord; that point is
// kept and starts the next window. opw measures PED, opw_tr measures SED.
//
// Configuration parameters:
//   - epsilon (default 0): distance tolerance, >= 0
type OpeningWindow struct {
	name    string
	metric  func(start, mid, end track.Point) float64
	epsilon float64
}

// NewOPW creates the PED opening window algorithm.
func NewOPW(params map[string]interface{}) (Algorithm, error) {
	o, err := newOpeningWindow(nameOPW, track.PED, params)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// NewOPWTR creates the time-ratio (SED) opening window algorithm.
func NewOPWTR(params map[string]interface{}) (Algorithm, error) {
	o, err := newOpeningWindow(nameOPWTR, track.SED, params)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func newOpeningWindow(name string, metric func(start, mid, end track.Point) float64, params map[string]interface{}) (*OpeningWindow, error) {
	epsilon, err := floatParam(name, params, "epsilon", 0)
	if err != nil {
		return nil, err
	}
	if err := nonNegative(name, "epsilon", epsilon); err != nil {
		return nil, err
	}
	return &OpeningWindow{name: name, metric: metric, epsilon: epsilon}, nil
}

// Simplify implements Algorithm.
func (o *OpeningWindow) Simplify(points []track.Point) ([]track.Point, error) {
	n := len(points)
	if n < 2 {
		return nil, ErrTooFewPoints
	}

	anchor := 0
	indices := []int{anchor}
	for end := anchor + 2; end < n; {
		violation := -1
		for i := anchor + 1; i < end; i++ {
			if o.metric(points[anchor], points[i], points[end]) > o.epsilon {
				violation = i
				break
			}
		}

		if violation < 0 {
			end++
			continue
		}
		anchor = violation
		indices = append(indices, anchor)
		end = anchor + 2
	}
	indices = append(indices, n-1)

	return pick(points, indices), nil
}

// Name implements Algorithm.
func (o *OpeningWindow) Name() string {
	return o.name
}

// Metadata implements Algorithm.
func (o *OpeningWindow) Metadata() string {
	return fmt.Sprintf("%s(epsilon=%g)", o.name, o.epsilon)
}
