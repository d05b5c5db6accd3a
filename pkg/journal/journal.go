// Package journal records a summary row for every frame presented to a
// sink.
package journal

import (
	"time"

	"github.com/tauraamui/medianstream/pkg/database/models"
	"github.com/tauraamui/medianstream/pkg/log"
	"github.com/tauraamui/medianstream/pkg/pixel"
	"github.com/tauraamui/medianstream/pkg/video/videobackend"
	"github.com/tauraamui/medianstream/pkg/video/videoframe"
	"gonum.org/v1/gonum/stat"
)

type Recorder interface {
	Create(*models.FrameRecord) error
}

var now = time.Now

type recordingSink struct {
	sessionID string
	next      videobackend.Sink
	recorder  Recorder
	samples   []float64
}

// Wrap returns a sink that records each frame before passing it to next.
// A failure to record is logged and never stops delivery.
func Wrap(sessionID string, next videobackend.Sink, recorder Recorder) videobackend.Sink {
	return &recordingSink{
		sessionID: sessionID,
		next:      next,
		recorder:  recorder,
		samples:   make([]float64, pixel.Width*pixel.Height),
	}
}

func (s *recordingSink) Present(frame *videoframe.Frame) error {
	means := PlaneMeans(frame, s.samples)
	record := models.FrameRecord{
		SessionID:   s.sessionID,
		Seq:         frame.Seq,
		RedMean:     means[videoframe.Red],
		GreenMean:   means[videoframe.Green],
		BlueMean:    means[videoframe.Blue],
		DeliveredAt: now(),
	}
	if err := s.recorder.Create(&record); err != nil {
		log.Error("Unable to journal frame %d: %v", frame.Seq, err)
	}
	return s.next.Present(frame)
}

func (s *recordingSink) Close() error {
	return s.next.Close()
}

// PlaneMeans returns the mean sample value of each plane. scratch is
// reused when it is large enough.
func PlaneMeans(frame *videoframe.Frame, scratch []float64) [pixel.Planes]float64 {
	n := pixel.Width * pixel.Height
	if len(scratch) < n {
		scratch = make([]float64, n)
	}
	scratch = scratch[:n]

	means := [pixel.Planes]float64{}
	for p := 0; p < pixel.Planes; p++ {
		for y := 0; y < pixel.Height; y++ {
			row := frame.Row(p, y)
			for x, v := range row {
				scratch[y*pixel.Width+x] = float64(v)
			}
		}
		means[p] = stat.Mean(scratch, nil)
	}
	return means
}
