package videobackend

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/tauraamui/medianstream/pkg/log"
	"github.com/tauraamui/medianstream/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// Snapshot writes every nth presented frame to location as a PNG file.
func Snapshot(location string, every int) (Sink, error) {
	if len(location) == 0 {
		return nil, xerror.New("snapshot sink requires a location")
	}
	if every < 1 {
		every = 1
	}
	if err := fs.MkdirAll(location, os.ModeDir|os.ModePerm); err != nil {
		return nil, xerror.Errorf("unable to create snapshot location %s: %w", location, err)
	}
	return &snapshotSink{location: location, every: uint64(every)}, nil
}

type snapshotSink struct {
	location  string
	every     uint64
	presented uint64
}

func (s *snapshotSink) FileName(seq uint64) string {
	return filepath.Join(s.location, fmt.Sprintf("frame-%08d.png", seq))
}

func (s *snapshotSink) Present(frame *videoframe.Frame) error {
	s.presented++
	if (s.presented-1)%s.every != 0 {
		return nil
	}

	path := s.FileName(frame.Seq)
	file, err := fs.Create(path)
	if err != nil {
		return xerror.Errorf("unable to create snapshot file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, frame.ToRGBA()); err != nil {
		return xerror.Errorf("unable to encode snapshot %s: %w", path, err)
	}
	log.Debug("Wrote frame snapshot: %s", path)
	return nil
}

func (s *snapshotSink) Close() error { return nil }
