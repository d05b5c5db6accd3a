package server

import (
	"context"

	"github.com/spf13/afero"
	"github.com/tauraamui/medianstream/pkg/database/dbconn"
	"github.com/tauraamui/medianstream/pkg/video/videobackend"
)

func OverloadFS(overload afero.Fs) func() {
	fsRef := fs
	fs = overload
	return func() { fs = fsRef }
}

func OverloadConnectJournal(overload func() (dbconn.GormWrapper, error)) func() {
	connectJournalRef := connectJournal
	connectJournal = overload
	return func() { connectJournal = connectJournalRef }
}

func OverloadResolveSource(overload func(context.Context, string, string, string) (videobackend.Source, error)) func() {
	resolveSourceRef := resolveSource
	resolveSource = overload
	return func() { resolveSource = resolveSourceRef }
}

func OverloadResolveSink(overload func(videobackend.SinkSettings) (videobackend.Sink, error)) func() {
	resolveSinkRef := resolveSink
	resolveSink = overload
	return func() { resolveSink = resolveSinkRef }
}
