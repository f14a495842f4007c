package client

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is the sentinel error wrapped by [TransportError].
	ErrTransport = errors.New("transport failure")
	// ErrSerialization is the sentinel error wrapped by [SerializationError].
	ErrSerialization = errors.New("serializing request data")
	// ErrDecode is the sentinel error wrapped by [DecodeError].
	ErrDecode = errors.New("decoding response")

	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrUnknownEvent      = errors.New("unknown event")
	ErrHandlerSignature  = errors.New("handler signature does not match event")
)

// TransportError is published on [EventError] when the exchange fails
// at the connection level: dialing, TLS, writing the request or reading
// the response body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrTransport, e.Op, e.Err)
}

// Unwrap returns both the sentinel and the underlying cause so callers
// can match either with errors.Is.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// SerializationError is returned synchronously by a call when the merged
// data cannot be encoded as JSON. No request is sent.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrSerialization, e.Err)
}

func (e *SerializationError) Unwrap() []error {
	return []error{ErrSerialization, e.Err}
}

// DecodeStage identifies which decoding step failed.
type DecodeStage string

const (
	StageGzip DecodeStage = "gzip"
	StageText DecodeStage = "text"
	StageJSON DecodeStage = "json"
)

// DecodeError is published on [EventError] when a complete response
// cannot be decompressed or parsed.
type DecodeError struct {
	Stage DecodeStage
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrDecode, e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}
