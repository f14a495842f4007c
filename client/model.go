package client

import (
	"fmt"
	"maps"
	"net/http"
)

// defaultReadBufferSize is the size of the buffer each call reads the
// response body into. Every successful read becomes one data event.
const defaultReadBufferSize = 32 << 10 // 32KB

// Method is an HTTP verb accepted by [Client.Request].
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

func (m Method) String() string { return string(m) }

// State is the position of a call in its lifecycle.
type State int32

const (
	StateIdle State = iota
	StateSending
	StateStreaming
	StateDecoding
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateDecoding:
		return "decoding"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Terminal reports whether no further events follow s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Descriptor describes the request handed to the transport. It is
// published with the request, data and error events as Options.
type Descriptor struct {
	Method   Method
	Hostname string
	Port     int
	Path     string
	Headers  map[string]string
	Body     string
}

func (d Descriptor) clone() Descriptor {
	d.Headers = maps.Clone(d.Headers)
	return d
}
