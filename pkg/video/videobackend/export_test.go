package videobackend

import (
	"time"

	"github.com/spf13/afero"
)

func OverloadFS(overload afero.Fs) func() {
	fsRef := fs
	fs = overload
	return func() { fs = fsRef }
}

func OverloadNow(overload func() time.Time) func() {
	nowRef := now
	now = overload
	return func() { now = nowRef }
}

func SnapshotFileName(s Sink, seq uint64) string {
	return s.(*snapshotSink).FileName(seq)
}
