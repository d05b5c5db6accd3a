package filter

import "github.com/tauraamui/medianstream/pkg/pixel"

// ComputeFilteredRow slides a 3x3 window along the rows held in ring
// around centerSlot and writes the median of each window into dst.
// Samples left of column 0 or right of the last column are 0. The ring
// must already hold valid rows above and below, vertical padding is the
// engine's job.
func ComputeFilteredRow(ring *RowRing, centerSlot int, dst pixel.Row) {
	var (
		window [9]uint8
		rows   [3]pixel.Row
	)
	for k := -1; k <= 1; k++ {
		rows[k+1] = ring.Read(ring.ResolveSlot(centerSlot, k))
	}

	width := len(dst)
	for i := 0; i < width; i++ {
		n := 0
		for _, row := range rows {
			for l := -1; l <= 1; l++ {
				col := i + l
				if col >= 0 && col < width {
					window[n] = row[col]
				} else {
					window[n] = 0
				}
				n++
			}
		}
		dst[i] = Median9(&window)
	}
}

// Median9 returns the 5th smallest of a. The contents of a are modified.
// Fixed 19 step compare/exchange network, see
// https://stackoverflow.com/questions/45453537
func Median9(a *[9]uint8) uint8 {
	if a[0] > a[1] {
		a[0], a[1] = a[1], a[0]
	}
	if a[3] > a[4] {
		a[3], a[4] = a[4], a[3]
	}
	if a[6] > a[7] {
		a[6], a[7] = a[7], a[6]
	}
	if a[1] > a[2] {
		a[1], a[2] = a[2], a[1]
	}
	if a[4] > a[5] {
		a[4], a[5] = a[5], a[4]
	}
	if a[7] > a[8] {
		a[7], a[8] = a[8], a[7]
	}
	if a[0] > a[1] {
		a[0], a[1] = a[1], a[0]
	}
	if a[3] > a[4] {
		a[3], a[4] = a[4], a[3]
	}
	if a[6] > a[7] {
		a[6], a[7] = a[7], a[6]
	}
	if a[0] > a[3] {
		a[3] = a[0]
	}
	if a[3] > a[6] {
		a[6] = a[3]
	}
	if a[1] > a[4] {
		a[1], a[4] = a[4], a[1]
	}
	if a[4] > a[7] {
		a[4] = a[7]
	}
	if a[1] > a[4] {
		a[4] = a[1]
	}
	if a[5] > a[8] {
		a[5] = a[8]
	}
	if a[2] > a[5] {
		a[2] = a[5]
	}
	if a[2] > a[4] {
		a[2], a[4] = a[4], a[2]
	}
	if a[4] > a[6] {
		a[4] = a[6]
	}
	if a[2] > a[4] {
		a[4] = a[2]
	}
	return a[4]
}
