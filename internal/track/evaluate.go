package track

import (
	"errors"
	"fmt"
)

// ErrNotSubsequence is returned when a simplified trajectory contains a point
// that does not appear, in order, in the original.
var ErrNotSubsequence = errors.New("simplified trajectory is not a subsequence of the original")

// SubsequenceIndices locates every simplified point inside original, in
// order, and returns their positions. Matching is greedy on value equality,
// so duplicated samples map to their earliest unused occurrence.
func SubsequenceIndices(original, simplified []Point) ([]int, error) {
	indices := make([]int, 0, len(simplified))
	j := 0
	for i, p := range simplified {
		for j < len(original) && original[j] != p {
			j++
		}
		if j == len(original) {
			return nil, fmt.Errorf("%w: point %d %+v", ErrNotSubsequence, i, p)
		}
		indices = append(indices, j)
		j++
	}
	return indices, nil
}

// ReconstructionError replays original against the chords of simplified and
// returns the maximum and mean SED over all original points. Retained points
// contribute zero.
func ReconstructionError(original, simplified []Point) (maxSED, meanSED float64, err error) {
	if len(original) == 0 {
		return 0, 0, nil
	}
	indices, err := SubsequenceIndices(original, simplified)
	if err != nil {
		return 0, 0, err
	}
	if len(indices) < 2 {
		return 0, 0, nil
	}

	var total float64
	for k := 1; k < len(indices); k++ {
		start, end := indices[k-1], indices[k]
		for i := start + 1; i < end; i++ {
			d := SED(original[start], original[i], original[end])
			total += d
			maxSED = max(maxSED, d)
		}
	}

	return maxSED, total / float64(len(original)), nil
}
