package simplify

import (
	"math"

	"github.com/planbiir/gsquish/internal/track"
)

// SlidingEntry is a retained point with its local SED cost.
type SlidingEntry struct {
	Point track.Point
	Cost  float64
}

// SlidingBuffer is the STTrace engine: a fixed-size buffer whose interior
// costs only depend on the immediate neighbours. Evictions happen while the
// stream is consumed.
//
// Thread safety: NOT goroutine-safe.
type SlidingBuffer struct {
	maxSize int
	entries []SlidingEntry
	evicted int
	last    *track.Point
	done    bool
}

// MaxBufferSize returns floor(compressionRatio * n).
func MaxBufferSize(compressionRatio float64, n int) int {
	return int(math.Floor(compressionRatio * float64(n)))
}

// NewSlidingBuffer creates a buffer that never holds more than maxSize
// entries. A maxSize of 2 or less keeps only the first and last point.
func NewSlidingBuffer(maxSize int) *SlidingBuffer {
	return &SlidingBuffer{
		maxSize: maxSize,
		entries: make([]SlidingEntry, 0, max(maxSize, 2)+1),
	}
}

// Push inserts the next point of the stream.
func (b *SlidingBuffer) Push(p track.Point) error {
	if b.done {
		return ErrFinished
	}

	if b.maxSize <= 2 {
		b.pushEndpoint(p)
		return nil
	}

	b.entries = append(b.entries, SlidingEntry{Point: p})
	n := len(b.entries)
	if n >= 3 {
		b.adjust(n - 2)
	}

	if n > b.maxSize {
		b.evict(b.minIndex())
	}
	return nil
}

// pushEndpoint handles the degenerate buffer: the first point is stored and
// every later point replaces the pending tail.
func (b *SlidingBuffer) pushEndpoint(p track.Point) {
	if len(b.entries) == 0 {
		b.entries = append(b.entries, SlidingEntry{Point: p})
		return
	}
	if b.last != nil {
		b.evicted++
	}
	b.last = &p
}

// Finish ends the stream and returns the retained points.
func (b *SlidingBuffer) Finish() ([]track.Point, error) {
	if b.maxSize <= 2 && b.last != nil && !b.done {
		b.entries = append(b.entries, SlidingEntry{Point: *b.last})
	}
	b.done = true

	if len(b.entries) < 2 {
		return nil, ErrTooFewPoints
	}
	return b.Points(), nil
}

// evict removes interior entry i and recomputes its former neighbours.
func (b *SlidingBuffer) evict(i int) {
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
	b.evicted++

	b.adjust(i - 1)
	b.adjust(i)
}

// adjust recomputes the cost of entry i if it is interior.
func (b *SlidingBuffer) adjust(i int) {
	if i <= 0 || i >= len(b.entries)-1 {
		return
	}
	b.entries[i].Cost = track.SED(b.entries[i-1].Point, b.entries[i].Point, b.entries[i+1].Point)
}

// minIndex returns the interior entry with the lowest cost, lowest index on
// ties.
func (b *SlidingBuffer) minIndex() int {
	best := 1
	for i := 2; i < len(b.entries)-1; i++ {
		if b.entries[i].Cost < b.entries[best].Cost {
			best = i
		}
	}
	return best
}

// Points returns the retained points in order.
func (b *SlidingBuffer) Points() []track.Point {
	points := make([]track.Point, len(b.entries))
	for i, e := range b.entries {
		points[i] = e.Point
	}
	return points
}

// Entries returns a copy of the buffer contents.
func (b *SlidingBuffer) Entries() []SlidingEntry {
	return append([]SlidingEntry(nil), b.entries...)
}

// Len returns the number of retained entries.
func (b *SlidingBuffer) Len() int { return len(b.entries) }

// MaxSize returns the size limit.
func (b *SlidingBuffer) MaxSize() int { return b.maxSize }

// Evicted returns the number of points dropped so far.
func (b *SlidingBuffer) Evicted() int { return b.evicted }
