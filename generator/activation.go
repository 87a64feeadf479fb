package generator

import (
	"errors"
	"runtime"

	"slotvm/eval"
	"slotvm/frame"
	"slotvm/trace"
	"slotvm/types"
)

// State represents the lifecycle state of an activation
type State int

const (
	StateCreated State = iota
	StateRunning
	StateSuspended
	StateCompleted
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateCompleted:
		return "completed"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrReentrant is returned when a generator body resumes or closes its own
// activation while it is running
var ErrReentrant = errors.New("generator already running")

// errClosed unwinds a suspended body after Close
var errClosed = errors.New("generator closed")

type result struct {
	value types.Value
	done  bool
	err   error
}

// Activation is one run of a generator Function.
//
// The body executes on its own goroutine, but control is handed back and
// forth over unbuffered channels: Next blocks until the body yields or
// finishes, and the body blocks in Yield until the next Next. Exactly one
// side runs at any time, so the frame is never touched concurrently.
//
// Callers should Close an activation they stop resuming. An activation that
// becomes unreachable without being closed is closed by a runtime cleanup
// after garbage collection, which lets its body goroutine exit and releases
// the frame.
type Activation struct {
	*activation
}

// activation is the state shared with the body goroutine. It never points
// back at its Activation handle, so dropping the handle makes it collectable.
type activation struct {
	ID int64
	fn *Function

	frame  *frame.Frame
	ctx    *eval.Context
	tracer *trace.Tracer

	state    State
	started  bool
	busy     bool
	err      error
	requests chan struct{}
	results  chan result
}

func newActivation(id int64, fn *Function, f *frame.Frame, base *eval.Context) *Activation {
	a := &activation{
		ID:       id,
		fn:       fn,
		frame:    f,
		tracer:   base.Tracer,
		state:    StateCreated,
		requests: make(chan struct{}),
		results:  make(chan result),
	}
	a.ctx = base.ForGenerator(a)

	h := &Activation{a}
	runtime.AddCleanup(h, (*activation).abandon, a)
	return h
}

// Next resumes the body until it yields a value or finishes.
// done is true once the generator is exhausted or closed; a body that
// failed returns its error on this and every later call.
func (h *Activation) Next() (value types.Value, done bool, err error) {
	value, done, err = h.activation.next()
	runtime.KeepAlive(h)
	return value, done, err
}

// Close discards the activation. A suspended body is unwound; the frame is
// released either way. Closing twice is a no-op.
func (h *Activation) Close() error {
	err := h.activation.close()
	runtime.KeepAlive(h)
	return err
}

// Function returns the template the activation was started from
func (a *activation) Function() *Function {
	return a.fn
}

// State returns the current lifecycle state
func (a *activation) State() State {
	return a.state
}

// Frame returns the materialized frame, or nil once the activation has
// finished and released it
func (a *activation) Frame() *frame.Frame {
	return a.frame
}

func (a *activation) setState(s State) {
	if a.state == s {
		return
	}
	a.tracer.Generator(a.ID, a.fn.Name, a.state, s)
	a.state = s
}

func (a *activation) next() (types.Value, bool, error) {
	if a.busy {
		return nil, true, ErrReentrant
	}
	switch a.state {
	case StateCompleted, StateClosed:
		return nil, true, nil
	case StateFailed:
		return nil, true, a.err
	}

	a.busy = true
	if !a.started {
		a.started = true
		go a.run()
	}
	a.setState(StateRunning)

	a.requests <- struct{}{}
	res, ok := <-a.results
	a.busy = false

	switch {
	case !ok || (res.done && res.err == nil):
		a.finish(StateCompleted)
		return nil, true, nil
	case res.err != nil:
		a.err = res.err
		a.finish(StateFailed)
		return nil, true, res.err
	default:
		a.setState(StateSuspended)
		return res.value, false, nil
	}
}

func (a *activation) close() error {
	if a.busy {
		return ErrReentrant
	}
	switch a.state {
	case StateCompleted, StateClosed, StateFailed:
		return nil
	}
	close(a.requests)
	if a.started {
		// Wait for the body goroutine to unwind
		for range a.results {
		}
	}
	a.finish(StateClosed)
	return nil
}

// abandon runs when the handle has been garbage collected
func (a *activation) abandon() {
	_ = a.close()
}

// Yield is called by the body: it publishes v to Next and blocks until
// resumed. It fails with errClosed when the activation is closed instead.
func (a *activation) Yield(v types.Value) error {
	a.results <- result{value: v}
	if !a.awaitRequest() {
		return errClosed
	}
	return nil
}

func (a *activation) run() {
	defer close(a.results)

	if !a.awaitRequest() {
		return
	}
	var err error
	if a.fn.Body != nil {
		_, err = a.fn.Body.Execute(a.ctx)
	}
	if errors.Is(err, errClosed) {
		return
	}
	a.results <- result{done: true, err: err}
}

func (a *activation) awaitRequest() bool {
	_, ok := <-a.requests
	return ok
}

func (a *activation) finish(s State) {
	a.setState(s)
	a.frame = nil
}
