package generator

import (
	"fmt"
	"sort"
	"weak"

	"slotvm/eval"
	"slotvm/frame"
	"slotvm/profile"
	"slotvm/trace"
	"slotvm/types"
)

// Options configures a Manager
type Options struct {
	Tracer     *trace.Tracer
	Profiler   *profile.Profiler
	CheckKinds bool // build frames that verify accessor kinds on read
}

// Manager starts generator activations and tracks the live ones by ID.
// Each interpreter instance owns its own Manager.
//
// Tracking does not keep an activation alive: once the caller drops every
// reference to it, it disappears from the manager and is closed.
type Manager struct {
	activations map[int64]weak.Pointer[Activation]
	nextID      int64
	opts        Options
}

// NewManager creates an empty manager
func NewManager(opts Options) *Manager {
	return &Manager{
		activations: make(map[int64]weak.Pointer[Activation]),
		nextID:      1,
		opts:        opts,
	}
}

// Start creates an activation of fn with a fresh materialized frame and
// binds args to its parameters. The body does not run until Next.
func (m *Manager) Start(fn *Function, args ...types.Value) (*Activation, error) {
	f := frame.New(fn.Descriptor, frame.CheckKinds(m.opts.CheckKinds)).Materialize()
	if err := fn.bind(f, args); err != nil {
		return nil, err
	}

	base := &eval.Context{Tracer: m.opts.Tracer, Profiler: m.opts.Profiler}
	a := newActivation(m.nextID, fn, f, base)
	m.nextID++
	m.activations[a.ID] = weak.Make(a)
	return a, nil
}

// Get retrieves an activation by ID, nil when unknown or collected
func (m *Manager) Get(id int64) *Activation {
	return m.activations[id].Value()
}

// Discard closes an activation and forgets it
func (m *Manager) Discard(id int64) error {
	a := m.Get(id)
	if a == nil {
		delete(m.activations, id)
		return fmt.Errorf("generator activation %d not found", id)
	}
	if err := a.Close(); err != nil {
		return err
	}
	delete(m.activations, id)
	return nil
}

// Close closes every tracked activation and forgets them all. The first
// error is returned; the remaining activations are still closed.
func (m *Manager) Close() error {
	var first error
	for _, a := range m.Active() {
		if err := a.Close(); err != nil && first == nil {
			first = err
		}
	}
	m.activations = make(map[int64]weak.Pointer[Activation])
	return first
}

// Sweep forgets activations that have finished, failed, been closed, or
// been dropped by their callers
func (m *Manager) Sweep() {
	for id, p := range m.activations {
		a := p.Value()
		if a == nil {
			delete(m.activations, id)
			continue
		}
		switch a.State() {
		case StateCompleted, StateClosed, StateFailed:
			delete(m.activations, id)
		}
	}
}

// Active returns the tracked activations still referenced by a caller,
// ordered by ID
func (m *Manager) Active() []*Activation {
	out := make([]*Activation, 0, len(m.activations))
	for id, p := range m.activations {
		a := p.Value()
		if a == nil {
			delete(m.activations, id)
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Drain resumes a until it is exhausted and returns every yielded value
func Drain(a *Activation) ([]types.Value, error) {
	var out []types.Value
	for {
		v, done, err := a.Next()
		if err != nil {
			return out, err
		}
		if done {
			return out, nil
		}
		out = append(out, v)
	}
}
