package xerror

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type Kind string

const (
	TransportError     Kind = "transport_error"
	ConfigurationError Kind = "configuration_error"
)

// Error implements error so a bare Kind can be used as an errors.Is target.
func (k Kind) Error() string { return strings.ToUpper(string(k)) }

type I interface {
	error
	Kind() Kind
	Unwrap() error
	WithParam(string, interface{}) I
	WithParams(map[string]interface{}) I
	StackTrace() string
}

type x struct {
	kind   Kind
	errMsg string
	cause  error
	stack  error
	params map[string]interface{}
}

func New(k Kind, msg string) I {
	return &x{kind: k, errMsg: msg, stack: errors.New(msg)}
}

func Newf(k Kind, format string, a ...interface{}) I {
	return New(k, fmt.Sprintf(format, a...))
}

// Wrap attaches kind and message to err. A nil err still yields an error.
func Wrap(k Kind, err error, msg string) I {
	return &x{kind: k, errMsg: msg, cause: err, stack: errors.WithStack(err)}
}

func (e *x) Kind() Kind { return e.kind }

func (e *x) Unwrap() error { return e.cause }

// Is matches against a bare Kind or another kinded error of the same kind.
func (e *x) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.kind == t
	case *x:
		return e.kind == t.kind
	}
	return false
}

// WithParams will merge the given params into the existing set.
// Passing nil clears the params completely.
func (e *x) WithParams(p map[string]interface{}) I {
	if p == nil {
		e.params = nil
		return e
	}
	if e.params == nil {
		e.params = map[string]interface{}{}
	}
	for k, v := range p {
		e.params[k] = v
	}
	return e
}

func (e *x) WithParam(key string, v interface{}) I {
	if e.params == nil {
		e.params = map[string]interface{}{}
	}
	e.params[key] = v
	return e
}

func (e *x) Error() string {
	msg := fmt.Sprintf("Kind: %s | %s", e.kind.Error(), e.errMsg)
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}

	if len(e.params) == 0 {
		return msg
	}

	keys := make([]string, 0, len(e.params))
	for k := range e.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make([]string, 0, len(keys))
	for _, k := range keys {
		params = append(params, fmt.Sprintf("%s: {%+v}", k, e.params[k]))
	}
	return fmt.Sprintf("%s, Params: [%s]", msg, strings.Join(params, " | "))
}

func (e *x) StackTrace() string {
	if e.stack == nil {
		return ""
	}
	return fmt.Sprintf("%+v", e.stack)
}
