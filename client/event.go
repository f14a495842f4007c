package client

import (
	"fmt"
	"net/http"
	"reflect"

	evbus "github.com/asaskevich/EventBus"
)

// Event names a lifecycle channel a handler can subscribe to.
type Event string

const (
	// EventRequest fires once per call, before the request is sent.
	EventRequest Event = "request"
	// EventData fires for every chunk read from the response body.
	EventData Event = "data"
	// EventEnd fires once the response has been read and decoded.
	EventEnd Event = "end"
	// EventError fires when the call fails. No event follows it.
	EventError Event = "error"
)

// RequestInfo is the payload of [EventRequest].
type RequestInfo struct {
	CallID  string
	Request *http.Request
	Options Descriptor
}

// DataInfo accompanies every chunk published on [EventData].
type DataInfo struct {
	CallID   string
	Request  *http.Request
	Response *http.Response
	Options  Descriptor
}

// EndInfo accompanies the decoded body published on [EventEnd].
type EndInfo struct {
	CallID   string
	Request  *http.Request
	Response *http.Response
}

// ErrorInfo accompanies the error published on [EventError]. Response is
// nil unless the failure happened after the response headers arrived.
type ErrorInfo struct {
	CallID   string
	Request  *http.Request
	Response *http.Response
	Options  Descriptor
}

type (
	RequestHandler func(RequestInfo)
	DataHandler    func([]byte, DataInfo)
	EndHandler     func(Body, EndInfo)
	ErrorHandler   func(error, ErrorInfo)
)

// channel is the client's private event registry. Handlers run
// synchronously in subscription order; the bus serializes delivery, so
// handlers for concurrent calls never run at the same time.
type channel struct {
	bus evbus.Bus
}

func newChannel() *channel {
	return &channel{bus: evbus.New()}
}

// subscribe registers fn for ev after checking that fn has the payload
// shape ev publishes.
func (ch *channel) subscribe(ev Event, fn any) error {
	var h any
	switch ev {
	case EventRequest:
		switch f := fn.(type) {
		case RequestHandler:
			h = (func(RequestInfo))(f)
		case func(RequestInfo):
			h = f
		}
	case EventData:
		switch f := fn.(type) {
		case DataHandler:
			h = (func([]byte, DataInfo))(f)
		case func([]byte, DataInfo):
			h = f
		}
	case EventEnd:
		switch f := fn.(type) {
		case EndHandler:
			h = (func(Body, EndInfo))(f)
		case func(Body, EndInfo):
			h = f
		}
	case EventError:
		switch f := fn.(type) {
		case ErrorHandler:
			h = (func(error, ErrorInfo))(f)
		case func(error, ErrorInfo):
			h = f
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev)
	}

	if h == nil || reflect.ValueOf(h).IsNil() {
		return fmt.Errorf("%w: %s got %T", ErrHandlerSignature, ev, fn)
	}

	if err := ch.bus.Subscribe(string(ev), h); err != nil {
		return fmt.Errorf("subscribing to %s: %w", ev, err)
	}

	return nil
}

// publish delivers args to every handler of ev. It is a no-op when
// nothing is subscribed.
func (ch *channel) publish(ev Event, args ...any) {
	ch.bus.Publish(string(ev), args...)
}
