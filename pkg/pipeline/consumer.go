package pipeline

import (
	"context"

	"github.com/tauraamui/medianstream/pkg/log"
	"github.com/tauraamui/medianstream/pkg/pixel"
	"github.com/tauraamui/medianstream/pkg/stream"
	"github.com/tauraamui/medianstream/pkg/video/videobackend"
	"github.com/tauraamui/medianstream/pkg/video/videoframe"
)

// ConsumerProcess assembles whole frames from rx and presents them to
// sink. Sink failures are logged, transfer failures end the process.
func ConsumerProcess(rx *stream.Endpoint, sink videobackend.Sink, stats *Stats) func(context.Context) error {
	return func(ctx context.Context) error {
		log.Info("Consuming filtered frames from [%s]", rx.Name())
		buf := make([]byte, pixel.RowBytes)
		for {
			if ctx.Err() != nil {
				return nil
			}

			frame := videoframe.New()
			if err := receiveFrame(rx, frame, buf); err != nil {
				if ctx.Err() == nil {
					log.Error("Consumer halted: %v", err)
					stats.recordErr(err)
				}
				return err
			}

			frame.Seq = stats.frameDelivered()
			if err := sink.Present(frame); err != nil {
				log.Error("Unable to present frame %d: %v", frame.Seq, err)
			}
		}
	}
}

func receiveFrame(rx *stream.Endpoint, frame *videoframe.Frame, buf []byte) error {
	for p := 0; p < pixel.Planes; p++ {
		for y := 0; y < pixel.Height; y++ {
			if err := rx.ReceiveExact(buf); err != nil {
				return err
			}
			pixel.DecodeRow(frame.Row(p, y), buf)
		}
	}
	return nil
}
