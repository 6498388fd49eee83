package reading

import (
	"errors"
	"fmt"
)

// Error taxonomy for gateway failures. Each class carries enough for the
// caller to render a distinct diagnostic; nothing is swallowed.

// TransportError is a network-layer failure (DNS, connection, timeout).
// Recoverable by the user retrying; never auto-retried unless configured.
type TransportError struct {
	err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.err
}

// ServerError means the remote API rejected the request. The raw response
// body is preserved verbatim for diagnosis.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
}

// DecodeError means a 2xx response body did not match the expected
// chat-completion shape.
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string {
	return "decode response: " + e.err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

// ErrNoContent means the response was well-formed but carried no usable
// reading text. Kept distinct from DecodeError so the caller can say
// "no reading generated" instead of a generic failure.
var ErrNoContent = errors.New("completion contained no content")

// IsTransport reports whether err is a network-layer failure.
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}
