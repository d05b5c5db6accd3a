package videobackend

import (
	"context"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/medianstream/pkg/pixel"
	"github.com/tauraamui/medianstream/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// OpenCV mats hold 8 bit samples in blue, green, red order.
var bgrOrder = [pixel.Planes]int{videoframe.Blue, videoframe.Green, videoframe.Red}

// OpenCV opens a capture device or stream address, giving up when ctx is
// cancelled before the device answers.
func OpenCV(ctx context.Context, addr string) (Source, error) {
	src := openCVSource{}
	if err := src.connect(ctx, addr); err != nil {
		return nil, err
	}
	return &src, nil
}

type openCVSource struct {
	uuid string
	mu   sync.Mutex
	vc   *gocv.VideoCapture
	mat  gocv.Mat
	size gocv.Mat
}

type openVideoStreamResult struct {
	vc  *gocv.VideoCapture
	err error
}

var openVideoCapture = func(addr string) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(addr)
}

func (s *openCVSource) connect(cancel context.Context, addr string) error {
	connAndError := make(chan openVideoStreamResult, 1)
	go func() {
		vc, err := openVideoCapture(addr)
		connAndError <- openVideoStreamResult{vc: vc, err: err}
	}()

	select {
	case r := <-connAndError:
		if r.err != nil {
			return xerror.Errorf("unable to open capture device %s: %w", addr, r.err)
		}
		s.vc = r.vc
		s.mat = gocv.NewMat()
		s.size = gocv.NewMat()
		return nil
	case <-cancel.Done():
		return xerror.New("connection cancelled")
	}
}

func (s *openCVSource) UUID() string {
	if len(s.uuid) == 0 {
		s.uuid = uuid.NewString()
	}
	return s.uuid
}

func (s *openCVSource) NextFrame(ctx context.Context) (*videoframe.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.vc.IsOpened() || !s.vc.Read(&s.mat) || s.mat.Empty() {
		return nil, xerror.New("unable to read from capture device")
	}

	gocv.Resize(s.mat, &s.size, image.Pt(pixel.Width, pixel.Height), 0, 0, gocv.InterpolationLinear)
	return videoframe.FromInterleaved(s.size.ToBytes(), bgrOrder), nil
}

func (s *openCVSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mat.Close()
	s.size.Close()
	return s.vc.Close()
}

// Window shows each presented frame in a desktop window.
func Window(title string) Sink {
	return &windowSink{title: title}
}

type windowSink struct {
	title  string
	window *gocv.Window
}

func (w *windowSink) Present(frame *videoframe.Frame) error {
	if w.window == nil {
		w.window = gocv.NewWindow(w.title)
		w.window.MoveWindow(350, 250)
	}

	mat, err := gocv.NewMatFromBytes(pixel.Height, pixel.Width, gocv.MatTypeCV8UC3, frame.Interleaved(bgrOrder))
	if err != nil {
		return xerror.Errorf("unable to convert frame into OpenCV mat: %w", err)
	}
	defer mat.Close()

	w.window.IMShow(mat)
	w.window.WaitKey(30)
	return nil
}

func (w *windowSink) Close() error {
	if w.window == nil {
		return nil
	}
	return w.window.Close()
}
