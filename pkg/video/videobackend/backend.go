package videobackend

import (
	"context"

	"github.com/spf13/afero"
	"github.com/tauraamui/medianstream/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var fs = afero.NewOsFs()

// Source hands out one whole frame per call, blocking until it has one.
type Source interface {
	UUID() string
	NextFrame(context.Context) (*videoframe.Frame, error)
	Close() error
}

// Sink takes ownership of every frame presented to it.
type Sink interface {
	Present(*videoframe.Frame) error
	Close() error
}

const (
	MockSource   = "mock"
	OpenCVSource = "opencv"

	DiscardSink  = "discard"
	SnapshotSink = "snapshot"
	WindowSink   = "window"
)

type SinkSettings struct {
	Kind          string
	Title         string
	Location      string
	SnapshotEvery int
}

func ResolveSource(ctx context.Context, kind, title, device string) (Source, error) {
	switch kind {
	case MockSource, "":
		return Mock(title), nil
	case OpenCVSource:
		return OpenCV(ctx, device)
	default:
		return nil, xerror.Errorf("unknown frame source kind: %s", kind)
	}
}

func ResolveSink(sett SinkSettings) (Sink, error) {
	switch sett.Kind {
	case DiscardSink, "":
		return Discard(), nil
	case SnapshotSink:
		return Snapshot(sett.Location, sett.SnapshotEvery)
	case WindowSink:
		return Window(sett.Title), nil
	default:
		return nil, xerror.Errorf("unknown frame sink kind: %s", sett.Kind)
	}
}

func Discard() Sink { return discardSink{} }

type discardSink struct{}

func (discardSink) Present(*videoframe.Frame) error { return nil }

func (discardSink) Close() error { return nil }
