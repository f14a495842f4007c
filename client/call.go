package client

import (
	"sync"
	"sync/atomic"
)

// Call is an in-flight or completed exchange started by [Client.Request].
// Its outcome is reported through the client's events; Call only lets a
// caller observe progress and block until the terminal event has been
// delivered.
type Call struct {
	id     string
	method Method
	state  atomic.Int32
	done   chan struct{}
	err    error
}

func newCall(id string, method Method) *Call {
	return &Call{
		id:     id,
		method: method,
		done:   make(chan struct{}),
	}
}

// ID returns the identifier published as CallID in every event of this call.
func (c *Call) ID() string { return c.id }

// Method returns the verb the call was made with.
func (c *Call) Method() Method { return c.method }

// State returns the current lifecycle state.
func (c *Call) State() State { return State(c.state.Load()) }

// Done returns a channel that is closed after the terminal event of the
// call has been delivered to every handler.
func (c *Call) Done() <-chan struct{} { return c.done }

// Err blocks until the call completes and returns the error published on
// [EventError], or nil if [EventEnd] was published. Calling Err from a
// handler of the same client deadlocks.
func (c *Call) Err() error {
	<-c.done
	return c.err
}

func (c *Call) setState(s State) { c.state.Store(int32(s)) }

// finish records the outcome and releases waiters. It must be called
// exactly once, after the terminal event.
func (c *Call) finish(err error) {
	c.err = err
	close(c.done)
}

// tracker counts calls that have not delivered their terminal event.
// Unlike a sync.WaitGroup, calls may start while wait is blocked.
type tracker struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (t *tracker) add() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.n == 0 {
		t.idle = make(chan struct{})
	}
	t.n++
}

func (t *tracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n--
	if t.n == 0 {
		close(t.idle)
	}
}

// wait blocks until the count observed on entry has drained to zero.
func (t *tracker) wait() {
	t.mu.Lock()
	if t.n == 0 {
		t.mu.Unlock()
		return
	}
	idle := t.idle
	t.mu.Unlock()
	<-idle
}
