package stream

import (
	"errors"
	"io"
	"sync/atomic"
	"syscall"

	"github.com/tauraamui/medianstream/internal/xerror"
	"github.com/tauraamui/medianstream/pkg/log"
)

var (
	// ErrInterrupted may be returned by a channel to signal a transfer
	// that should simply be retried.
	ErrInterrupted = errors.New("transfer interrupted")
	// ErrUnexpectedEOS is the cause of a TransportError raised when a
	// channel reports end of stream. The protocol has no legitimate end.
	ErrUnexpectedEOS = errors.New("unexpected end of stream")
)

// Endpoint owns one end of a unidirectional byte channel and moves
// exact byte counts across it regardless of partial transfers.
type Endpoint struct {
	name          string
	r             io.Reader
	w             io.Writer
	interruptions uint64
	transferred   uint64
}

func NewSender(name string, w io.Writer) *Endpoint {
	return &Endpoint{name: name, w: w}
}

func NewReceiver(name string, r io.Reader) *Endpoint {
	return &Endpoint{name: name, r: r}
}

func (e *Endpoint) Name() string { return e.name }

func (e *Endpoint) Interruptions() uint64 { return atomic.LoadUint64(&e.interruptions) }

func (e *Endpoint) Transferred() uint64 { return atomic.LoadUint64(&e.transferred) }

func isRetryable(err error) bool {
	return errors.Is(err, ErrInterrupted) || errors.Is(err, syscall.EINTR)
}

// SendExact writes all of buf, retrying interrupted writes. Any other
// failure is returned as a TransportError.
func (e *Endpoint) SendExact(buf []byte) error {
	if e.w == nil {
		return xerror.New(xerror.TransportError, "endpoint is not writable").WithParam("channel", e.name)
	}

	done := 0
	for done < len(buf) {
		n, err := e.w.Write(buf[done:])
		if n > 0 {
			done += n
			atomic.AddUint64(&e.transferred, uint64(n))
		}

		if err != nil {
			if isRetryable(err) {
				e.interrupted()
				continue
			}
			return xerror.Wrap(xerror.TransportError, err, "write to channel failed").
				WithParam("channel", e.name).WithParam("done", done).WithParam("want", len(buf))
		}

		if n <= 0 {
			return xerror.Wrap(xerror.TransportError, io.ErrShortWrite, "write to channel made no progress").
				WithParam("channel", e.name).WithParam("done", done).WithParam("want", len(buf))
		}
	}
	return nil
}

// ReceiveExact fills buf completely, retrying interrupted reads. A read
// reporting end of stream, or zero bytes, is fatal.
func (e *Endpoint) ReceiveExact(buf []byte) error {
	if e.r == nil {
		return xerror.New(xerror.TransportError, "endpoint is not readable").WithParam("channel", e.name)
	}

	done := 0
	for done < len(buf) {
		n, err := e.r.Read(buf[done:])
		if n > 0 {
			done += n
			atomic.AddUint64(&e.transferred, uint64(n))
		}

		if err != nil {
			if isRetryable(err) {
				e.interrupted()
				continue
			}
			if errors.Is(err, io.EOF) {
				if done == len(buf) {
					return nil
				}
				return e.eos(done, len(buf))
			}
			return xerror.Wrap(xerror.TransportError, err, "read from channel failed").
				WithParam("channel", e.name).WithParam("done", done).WithParam("want", len(buf))
		}

		if n == 0 {
			return e.eos(done, len(buf))
		}
	}
	return nil
}

func (e *Endpoint) interrupted() {
	atomic.AddUint64(&e.interruptions, 1)
	log.Debug("Transfer on channel [%s] interrupted, retrying...", e.name)
}

func (e *Endpoint) eos(done, want int) error {
	return xerror.Wrap(xerror.TransportError, ErrUnexpectedEOS, "channel reached end of stream").
		WithParam("channel", e.name).WithParam("done", done).WithParam("want", want)
}
