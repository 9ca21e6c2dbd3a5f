package simplify

import (
	"math"

	"github.com/planbiir/gsquish/internal/track"
)

// initialCapacity is the buffer capacity before the ratio schedule takes over.
const initialCapacity = 4

// BufferState is the lifecycle phase of a PriorityBuffer.
type BufferState int

const (
	StateGrowing BufferState = iota
	StateAtCapacity
	StateConverging
	StateDone
)

func (s BufferState) String() string {
	switch s {
	case StateGrowing:
		return "growing"
	case StateAtCapacity:
		return "at-capacity"
	case StateConverging:
		return "converging"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// BufferEntry is a retained point with its removal cost and the error it has
// absorbed from evicted neighbours.
type BufferEntry struct {
	Point        track.Point
	Cost         float64
	Compensation float64
	// Anchor entries are never eviction candidates. The head is an anchor for
	// the whole run; the tail only until the next point arrives.
	Anchor bool
}

// PriorityStats counts what a PriorityBuffer did.
type PriorityStats struct {
	Inserted        int     `json:"inserted"`
	Evicted         int     `json:"evicted"`
	Converged       int     `json:"converged"`
	MaxCompensation float64 `json:"max_compensation"`
}

// PriorityBuffer is the SQUISH-E engine: a capacity-bounded buffer that
// evicts the entry with the lowest cost and propagates that cost to the
// surviving neighbours.
//
// Thread safety: NOT goroutine-safe.
type PriorityBuffer struct {
	ratio      float64
	errorBound float64

	capacity int
	entries  []BufferEntry
	state    BufferState
	stats    PriorityStats
}

// NewPriorityBuffer creates an empty buffer. ratio is the target compression
// ratio (input points per retained point); errorBound is the largest cost the
// convergence phase may still evict.
func NewPriorityBuffer(ratio, errorBound float64) (*PriorityBuffer, error) {
	if err := positive(nameSquishE, "ratio", ratio); err != nil {
		return nil, err
	}
	if math.IsNaN(errorBound) {
		return nil, &InvalidParameterError{Algorithm: nameSquishE, Param: "error_bound", Value: errorBound, Reason: "NaN"}
	}
	if err := nonNegative(nameSquishE, "error_bound", errorBound); err != nil {
		return nil, err
	}

	return &PriorityBuffer{
		ratio:      ratio,
		errorBound: errorBound,
		capacity:   initialCapacity,
		entries:    make([]BufferEntry, 0, initialCapacity),
	}, nil
}

// Push inserts the next point of the stream.
func (b *PriorityBuffer) Push(p track.Point) error {
	if b.state >= StateConverging {
		return ErrFinished
	}

	if float64(b.stats.Inserted)/b.ratio >= float64(b.capacity) {
		b.capacity++
	}

	b.entries = append(b.entries, BufferEntry{Point: p, Cost: math.Inf(1), Anchor: true})
	b.stats.Inserted++

	if n := len(b.entries); n > 2 {
		// The previous tail now has two neighbours.
		b.entries[n-2].Anchor = false
		b.adjust(n - 2)
	}

	if len(b.entries) >= b.capacity {
		b.state = StateAtCapacity
		b.evict(b.minIndex())
		b.stats.Evicted++
	}
	if len(b.entries) < b.capacity {
		b.state = StateGrowing
	}
	return nil
}

// Finish ends the stream and runs the convergence phase: the cheapest entry
// is evicted for as long as its cost stays within the error bound.
func (b *PriorityBuffer) Finish() ([]track.Point, error) {
	if b.state == StateDone {
		return b.Points(), nil
	}
	if len(b.entries) < 2 {
		return nil, ErrTooFewPoints
	}

	b.state = StateConverging
	for len(b.entries) > 2 {
		i := b.minIndex()
		if b.entries[i].Cost > b.errorBound {
			break
		}
		b.evict(i)
		b.stats.Converged++
	}
	b.state = StateDone

	return b.Points(), nil
}

// evict removes entry i, hands its cost to both neighbours as compensation
// and recomputes their costs against their new neighbours.
func (b *PriorityBuffer) evict(i int) {
	cost := b.entries[i].Cost

	// Permanent anchors never become interior, so they carry no compensation.
	// The streaming tail does: it turns interior on the next push.
	if i-1 > 0 {
		b.compensate(i-1, cost)
	}
	if i+1 < len(b.entries)-1 || b.state < StateConverging {
		b.compensate(i+1, cost)
	}

	b.entries = append(b.entries[:i], b.entries[i+1:]...)

	b.adjust(i - 1)
	b.adjust(i)
}

func (b *PriorityBuffer) compensate(i int, cost float64) {
	e := &b.entries[i]
	e.Compensation = math.Max(e.Compensation, cost)
	b.stats.MaxCompensation = math.Max(b.stats.MaxCompensation, e.Compensation)
}

// adjust recomputes the cost of entry i. Anchors keep their infinite cost.
func (b *PriorityBuffer) adjust(i int) {
	e := &b.entries[i]
	if e.Anchor {
		return
	}
	e.Cost = track.SED(b.entries[i-1].Point, e.Point, b.entries[i+1].Point) + e.Compensation
}

// minIndex returns the interior entry with the lowest cost. Ties go to the
// lowest index. Callers guarantee at least one interior entry.
func (b *PriorityBuffer) minIndex() int {
	best := -1
	for i := 1; i < len(b.entries)-1; i++ {
		if b.entries[i].Anchor {
			continue
		}
		if best == -1 || b.entries[i].Cost < b.entries[best].Cost {
			best = i
		}
	}
	return best
}

// Points returns the retained points in order.
func (b *PriorityBuffer) Points() []track.Point {
	points := make([]track.Point, len(b.entries))
	for i, e := range b.entries {
		points[i] = e.Point
	}
	return points
}

// Entries returns a copy of the buffer contents.
func (b *PriorityBuffer) Entries() []BufferEntry {
	return append([]BufferEntry(nil), b.entries...)
}

// Len returns the number of retained entries.
func (b *PriorityBuffer) Len() int { return len(b.entries) }

// Capacity returns the current capacity of the schedule.
func (b *PriorityBuffer) Capacity() int { return b.capacity }

// State returns the lifecycle phase. At-capacity only lasts for the eviction
// inside Push, so between pushes a streaming buffer reports StateGrowing.
func (b *PriorityBuffer) State() BufferState { return b.state }

// Stats returns the insertion and eviction counters.
func (b *PriorityBuffer) Stats() PriorityStats { return b.stats }
