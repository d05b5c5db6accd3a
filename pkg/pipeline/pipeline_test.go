package pipeline_test

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tauraamui/medianstream/internal/xerror"
	"github.com/tauraamui/medianstream/pkg/filter"
	"github.com/tauraamui/medianstream/pkg/log"
	"github.com/tauraamui/medianstream/pkg/pipeline"
	"github.com/tauraamui/medianstream/pkg/pixel"
	"github.com/tauraamui/medianstream/pkg/stream"
	"github.com/tauraamui/medianstream/pkg/video/videoframe"
)

type listSource struct {
	id     string
	frames chan *videoframe.Frame
}

func newListSource(frames ...*videoframe.Frame) *listSource {
	src := &listSource{id: uuid.NewString(), frames: make(chan *videoframe.Frame, len(frames))}
	for _, f := range frames {
		src.frames <- f
	}
	return src
}

func (s *listSource) UUID() string { return s.id }

func (s *listSource) NextFrame(ctx context.Context) (*videoframe.Frame, error) {
	select {
	case f := <-s.frames:
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *listSource) Close() error { return nil }

type chanSink struct {
	frames chan *videoframe.Frame
}

func newChanSink() *chanSink { return &chanSink{frames: make(chan *videoframe.Frame, 8)} }

func (s *chanSink) Present(f *videoframe.Frame) error {
	s.frames <- f
	return nil
}

func (s *chanSink) Close() error { return nil }

func (s *chanSink) next(t *testing.T) *videoframe.Frame {
	t.Helper()
	select {
	case f := <-s.frames:
		return f
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for delivered frame")
		return nil
	}
}

func uniformPlanes(values [pixel.Planes]uint8) *videoframe.Frame {
	f := videoframe.New()
	for p := 0; p < pixel.Planes; p++ {
		for y := 0; y < pixel.Height; y++ {
			row := f.Row(p, y)
			for x := range row {
				row[x] = values[p]
			}
		}
	}
	return f
}

func isCorner(x, y int) bool {
	return (x == 0 || x == pixel.Width-1) && (y == 0 || y == pixel.Height-1)
}

func startLoopback(t *testing.T, policy filter.RingPolicy, frames ...*videoframe.Frame) (*chanSink, *pipeline.Stats, pipeline.Process) {
	t.Helper()
	host, device := stream.Loopback()
	sink := newChanSink()
	stats := pipeline.NewStats(uuid.NewString())
	proc := pipeline.NewDuplexProcess(pipeline.Options{
		Source: newListSource(frames...),
		Sink:   sink,
		Host:   host,
		Device: device,
		Policy: policy,
		Stats:  stats,
	}).Setup()
	proc.Start()
	t.Cleanup(func() {
		proc.Stop()
		proc.Wait()
	})
	return sink, stats, proc
}

func TestMain(m *testing.M) {
	restore := log.Silence()
	code := m.Run()
	restore()
	os.Exit(code)
}

func TestZeroFrameComesBackZero(t *testing.T) {
	is := is.New(t)
	sink, _, _ := startLoopback(t, filter.PersistRing, videoframe.New())

	out := sink.next(t)
	is.True(out.Equal(videoframe.New()))
}

func TestIsolatedBrightPixelIsRemoved(t *testing.T) {
	is := is.New(t)
	in := videoframe.New()
	in.Set(pixel.Planes-1, 320, 240, 255)
	in.Set(0, 0, 0, 255)

	sink, _, _ := startLoopback(t, filter.PersistRing, in)

	out := sink.next(t)
	is.True(out.Equal(videoframe.New()))
}

func TestFramesArriveInOrderWithPlanesInPlace(t *testing.T) {
	values := [][pixel.Planes]uint8{
		{10, 20, 30},
		{40, 50, 60},
		{70, 80, 90},
	}
	in := []*videoframe.Frame{}
	for _, v := range values {
		in = append(in, uniformPlanes(v))
	}

	sink, stats, _ := startLoopback(t, filter.ResetRingPerFrame, in...)

	for i, v := range values {
		out := sink.next(t)
		assert.Equal(t, uint64(i+1), out.Seq)
		for p := 0; p < pixel.Planes; p++ {
			for _, pt := range [][2]int{{0, 0}, {pixel.Width - 1, 0}, {0, pixel.Height - 1}, {pixel.Width - 1, pixel.Height - 1}} {
				require.Equal(t, uint8(0), out.At(p, pt[0], pt[1]), "frame %d plane %d corner %v", i, p, pt)
			}
			for _, pt := range [][2]int{{1, 0}, {0, 1}, {320, 240}, {pixel.Width - 2, pixel.Height - 1}} {
				require.False(t, isCorner(pt[0], pt[1]))
				require.Equal(t, v[p], out.At(p, pt[0], pt[1]), "frame %d plane %d at %v", i, p, pt)
			}
		}
	}

	assert.Eventually(t, func() bool {
		snap := stats.Snapshot()
		return snap.FramesSent == 3 && snap.FramesDelivered == 3
	}, 5*time.Second, 10*time.Millisecond)
}

func TestPersistedRingOnlyTouchesTopRows(t *testing.T) {
	sink, _, _ := startLoopback(t, filter.PersistRing,
		uniformPlanes([pixel.Planes]uint8{100, 100, 100}),
		uniformPlanes([pixel.Planes]uint8{200, 200, 200}),
	)

	sink.next(t)
	out := sink.next(t)

	// the previous plane's last row still sits in the ring
	assert.Equal(t, uint8(100), out.At(0, 0, 0))
	assert.Equal(t, uint8(200), out.At(1, 0, 0))
	assert.Equal(t, uint8(0), out.At(0, 0, pixel.Height-1))
	assert.Equal(t, uint8(200), out.At(0, 320, 240))
}

func TestConsumerEndOfStreamHaltsPipeline(t *testing.T) {
	is := is.New(t)
	host := &stream.Channels{
		Tx: stream.NewSender(stream.ChannelA, io.Discard),
		Rx: stream.NewReceiver(stream.ChannelB, strings.NewReader("short")),
	}
	stats := pipeline.NewStats("")
	proc := pipeline.NewDuplexProcess(pipeline.Options{
		Source: newListSource(videoframe.New()),
		Sink:   newChanSink(),
		Host:   host,
		Stats:  stats,
	}).Setup()
	proc.Start()

	select {
	case <-proc.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("pipeline did not halt")
	}

	err := proc.Err()
	is.True(err != nil)
	is.True(errors.Is(err, xerror.TransportError))
	is.True(errors.Is(err, stream.ErrUnexpectedEOS))
	is.True(len(stats.Snapshot().LastError) > 0)
	is.Equal(stats.Snapshot().FramesDelivered, uint64(0))
}

func TestStopReleasesBlockedTransfers(t *testing.T) {
	is := is.New(t)
	host, _ := stream.Loopback()
	proc := pipeline.NewDuplexProcess(pipeline.Options{
		Source: newListSource(videoframe.New()),
		Sink:   newChanSink(),
		Host:   host,
	}).Setup()
	proc.Start()

	// nobody drives the device side so both ends block
	time.Sleep(50 * time.Millisecond)
	proc.Stop()

	select {
	case <-proc.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("pipeline did not stop")
	}
	is.NoErr(proc.Err())
}

func TestStopBeforeStartDoesNotBlock(t *testing.T) {
	is := is.New(t)
	host, device := stream.Loopback()
	proc := pipeline.NewDuplexProcess(pipeline.Options{
		Source: newListSource(),
		Sink:   newChanSink(),
		Host:   host,
		Device: device,
	}).Setup()

	proc.Stop()
	proc.Wait()
	is.NoErr(proc.Err())
}
