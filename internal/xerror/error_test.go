package xerror_test

import (
	"errors"
	"io"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/medianstream/internal/xerror"
)

func TestNewErrorPrintsKindAndMessage(t *testing.T) {
	is := is.New(t)

	err := xerror.New(xerror.TransportError, "write to channel failed")
	is.Equal(err.Error(), "Kind: TRANSPORT_ERROR | write to channel failed")
}

func TestNewErrorWithParamsPrintsSortedParams(t *testing.T) {
	is := is.New(t)

	err := xerror.New(
		xerror.ConfigurationError, "bad dimensions",
	).WithParam("width", 641).WithParam("height", 480)

	is.Equal(err.Error(), "Kind: CONFIGURATION_ERROR | bad dimensions, Params: [height: {480} | width: {641}]")
}

func TestWithParamsNilClearsParams(t *testing.T) {
	is := is.New(t)

	err := xerror.New(xerror.ConfigurationError, "bad").WithParam("a", 1).WithParams(nil)
	is.Equal(err.Error(), "Kind: CONFIGURATION_ERROR | bad")
}

func TestWrappedErrorMatchesKindAndCause(t *testing.T) {
	is := is.New(t)

	err := xerror.Wrap(xerror.TransportError, io.ErrClosedPipe, "read from channel failed")
	is.True(errors.Is(err, xerror.TransportError))
	is.True(!errors.Is(err, xerror.ConfigurationError))
	is.True(errors.Is(err, io.ErrClosedPipe))
	is.Equal(err.Error(), "Kind: TRANSPORT_ERROR | read from channel failed: io: read/write on closed pipe")
}

func TestKindMatchesThroughFmtWrapping(t *testing.T) {
	is := is.New(t)

	inner := xerror.New(xerror.ConfigurationError, "channel unavailable")
	outer := errorsJoin(inner)
	is.True(errors.Is(outer, xerror.ConfigurationError))

	var kinded xerror.I
	is.True(errors.As(outer, &kinded))
	is.Equal(kinded.Kind(), xerror.ConfigurationError)
}

func TestStackTraceIsCaptured(t *testing.T) {
	is := is.New(t)

	err := xerror.New(xerror.TransportError, "boom")
	is.True(len(err.StackTrace()) > len("boom"))
}

type wrapped struct{ err error }

func (w wrapped) Error() string { return "outer: " + w.err.Error() }
func (w wrapped) Unwrap() error { return w.err }

func errorsJoin(err error) error { return wrapped{err} }
