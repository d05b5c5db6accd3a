package filter

import (
	"github.com/tauraamui/medianstream/pkg/pixel"
)

// RingPolicy decides what happens to the ring between frames.
type RingPolicy int

const (
	// PersistRing carries the ring over from one frame to the next, as
	// an uninterrupted stream would.
	PersistRing RingPolicy = iota
	// ResetRingPerFrame zeroes all slots before each frame so every frame
	// is filtered independently of the previous one.
	ResetRingPerFrame
)

func (p RingPolicy) String() string {
	if p == ResetRingPerFrame {
		return "reset"
	}
	return "persist"
}

// RowReader fills dst with the next input row.
type RowReader func(dst pixel.Row) error

// RowEmitter receives each filtered row. The row is reused after return.
type RowEmitter func(row pixel.Row) error

// Engine filters one plane sized frame at a time, row by row, holding no
// more than three input rows.
type Engine struct {
	ring     *RowRing
	nRow     int
	height   int
	policy   RingPolicy
	filtered pixel.Row
	frames   uint64
}

func NewEngine(policy RingPolicy) *Engine {
	return &Engine{
		ring:     NewRowRing(),
		height:   pixel.Height,
		policy:   policy,
		filtered: pixel.NewRow(),
	}
}

func (e *Engine) Policy() RingPolicy { return e.policy }

// Frames returns how many frames have been fully filtered.
func (e *Engine) Frames() uint64 { return e.frames }

// FilterFrame reads height rows through next and emits height filtered
// rows through emit. The engine itself cannot fail, any error returned
// comes from next or emit and leaves the frame unfinished.
func (e *Engine) FilterFrame(next RowReader, emit RowEmitter) error {
	if e.policy == ResetRingPerFrame {
		e.ring.ClearAll()
	}

	// the slot before nRow becomes the row above row 0: zero on a fresh or
	// reset ring, the previous frame's last row otherwise
	if err := next(e.ring.Read(e.nRow)); err != nil {
		return err
	}

	for j := 0; j < e.height; j++ {
		e.nRow = (e.nRow + 1) % ringSize
		if j < e.height-1 {
			if err := next(e.ring.Read(e.nRow)); err != nil {
				return err
			}
		} else {
			// below the last row is black
			e.ring.Clear(e.nRow)
		}

		ComputeFilteredRow(e.ring, e.nRow, e.filtered)
		if err := emit(e.filtered); err != nil {
			return err
		}
	}

	e.frames++
	return nil
}
