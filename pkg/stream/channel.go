package stream

import (
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/tauraamui/medianstream/internal/xerror"
	"github.com/tauraamui/medianstream/pkg/log"
)

const (
	ChannelA = "channel-a"
	ChannelB = "channel-b"
)

// Channels is one side of the duplex link. Tx writes into the channel the
// far side reads from, Rx reads from the channel the far side writes to.
type Channels struct {
	Tx      *Endpoint
	Rx      *Endpoint
	closers []io.Closer
}

func (c *Channels) Close() error {
	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenDevices opens the write side of channel A and the read side of
// channel B from device files. Both are held until Close.
func OpenDevices(fs afero.Fs, writePath, readPath string) (*Channels, error) {
	log.Info("Opening channel device for writing: %s", writePath)
	w, err := fs.OpenFile(writePath, os.O_WRONLY, 0)
	if err != nil {
		return nil, xerror.Wrap(xerror.ConfigurationError, err, "unable to open channel device").
			WithParam("path", writePath)
	}

	log.Info("Opening channel device for reading: %s", readPath)
	r, err := fs.OpenFile(readPath, os.O_RDONLY, 0)
	if err != nil {
		w.Close() //nolint
		return nil, xerror.Wrap(xerror.ConfigurationError, err, "unable to open channel device").
			WithParam("path", readPath)
	}

	return &Channels{
		Tx:      NewSender(ChannelA, w),
		Rx:      NewReceiver(ChannelB, r),
		closers: []io.Closer{w, r},
	}, nil
}

// Loopback creates two in-process pipes. The host side feeds channel A
// and drains channel B, the device side does the opposite.
func Loopback() (host *Channels, device *Channels) {
	aReader, aWriter := io.Pipe()
	bReader, bWriter := io.Pipe()

	host = &Channels{
		Tx:      NewSender(ChannelA, aWriter),
		Rx:      NewReceiver(ChannelB, bReader),
		closers: []io.Closer{aWriter, bReader},
	}
	device = &Channels{
		Tx:      NewSender(ChannelB, bWriter),
		Rx:      NewReceiver(ChannelA, aReader),
		closers: []io.Closer{bWriter, aReader},
	}
	return host, device
}
