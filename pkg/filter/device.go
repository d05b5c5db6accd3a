package filter

import (
	"context"

	"github.com/tauraamui/medianstream/pkg/log"
	"github.com/tauraamui/medianstream/pkg/pixel"
	"github.com/tauraamui/medianstream/pkg/stream"
)

// Device runs an Engine between two byte channels: packed rows in from
// one, packed filtered rows out to the other. Every plane of every frame
// is just another frame sized block of rows to the device.
type Device struct {
	engine *Engine
	in     *stream.Endpoint
	out    *stream.Endpoint
	inBuf  []byte
	outBuf []byte
}

func NewDevice(engine *Engine, in, out *stream.Endpoint) *Device {
	return &Device{
		engine: engine,
		in:     in,
		out:    out,
		inBuf:  make([]byte, pixel.RowBytes),
		outBuf: make([]byte, pixel.RowBytes),
	}
}

func (d *Device) Engine() *Engine { return d.engine }

// Run filters frames until ctx is cancelled or a transfer fails. A
// transfer blocked inside a channel is only released by closing it.
func (d *Device) Run(ctx context.Context) error {
	next := func(dst pixel.Row) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.in.ReceiveExact(d.inBuf); err != nil {
			return err
		}
		pixel.DecodeRow(dst, d.inBuf)
		return nil
	}

	emit := func(row pixel.Row) error {
		pixel.EncodeRow(d.outBuf, row)
		return d.out.SendExact(d.outBuf)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.engine.FilterFrame(next, emit); err != nil {
			return err
		}
		log.Debug("Filtered plane frame %d", d.engine.Frames())
	}
}
