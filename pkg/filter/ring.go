package filter

import "github.com/tauraamui/medianstream/pkg/pixel"

const ringSize = 3

// RowRing stores the last three rows seen. Slots are addressed by index
// arithmetic only, rows are never shifted between slots.
type RowRing struct {
	rows [ringSize]pixel.Row
}

func NewRowRing() *RowRing {
	r := RowRing{}
	for i := range r.rows {
		r.rows[i] = pixel.NewRow()
	}
	return &r
}

// Write copies row into slot.
func (r *RowRing) Write(slot int, row pixel.Row) {
	copy(r.rows[slot], row)
}

// Read returns the stored row itself, not a copy.
func (r *RowRing) Read(slot int) pixel.Row {
	return r.rows[slot]
}

// Clear zeroes slot.
func (r *RowRing) Clear(slot int) {
	row := r.rows[slot]
	for i := range row {
		row[i] = 0
	}
}

func (r *RowRing) ClearAll() {
	for i := range r.rows {
		r.Clear(i)
	}
}

// ResolveSlot maps a vertical offset in -1..1 from center onto a
// physical slot, wrapping modulo 3.
func (r *RowRing) ResolveSlot(center, offset int) int {
	return ((center+offset)%ringSize + ringSize) % ringSize
}
