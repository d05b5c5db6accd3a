package pipeline

import (
	"context"
	"time"

	"github.com/tauraamui/medianstream/pkg/log"
	"github.com/tauraamui/medianstream/pkg/pixel"
	"github.com/tauraamui/medianstream/pkg/stream"
	"github.com/tauraamui/medianstream/pkg/video/videobackend"
	"github.com/tauraamui/medianstream/pkg/video/videoframe"
)

var sourceRetryDelay = 100 * time.Millisecond

// ProducerProcess pulls frames from src forever and sends them plane by
// plane, row by row, down tx.
func ProducerProcess(src videobackend.Source, tx *stream.Endpoint, stats *Stats) func(context.Context) error {
	return func(ctx context.Context) error {
		log.Info("Producing frames from source [%s] into [%s]", src.UUID(), tx.Name())
		buf := make([]byte, pixel.RowBytes)
		for {
			if ctx.Err() != nil {
				return nil
			}

			frame, err := src.NextFrame(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error("Unable to retrieve frame from source: %v", err)
				time.Sleep(sourceRetryDelay)
				continue
			}

			if err := sendFrame(tx, frame, buf); err != nil {
				if ctx.Err() == nil {
					log.Error("Producer halted: %v", err)
					stats.recordErr(err)
				}
				return err
			}
			stats.frameSent()
			log.Debug("Sent frame to [%s]", tx.Name())
		}
	}
}

func sendFrame(tx *stream.Endpoint, frame *videoframe.Frame, buf []byte) error {
	for p := 0; p < pixel.Planes; p++ {
		for y := 0; y < pixel.Height; y++ {
			pixel.EncodeRow(buf, frame.Row(p, y))
			if err := tx.SendExact(buf); err != nil {
				return err
			}
		}
	}
	return nil
}
