package eval

import (
	"sync/atomic"

	"slotvm/frame"
	"slotvm/profile"
	"slotvm/trace"
	"slotvm/types"
)

// specialization is the write path a WriteLocal node has settled on.
// It only ever moves toward specObject, mirroring the slot kind lattice.
type specialization int

const (
	specUninitialized specialization = iota
	specBoolean
	specInt
	specDouble
	specObject
)

func specFor(k frame.Kind) specialization {
	switch k {
	case frame.KindBoolean:
		return specBoolean
	case frame.KindInt:
		return specInt
	case frame.KindDouble:
		return specDouble
	case frame.KindObject:
		return specObject
	default:
		return specUninitialized
	}
}

// Kind returns the slot kind the specialization writes
func (s specialization) Kind() frame.Kind {
	switch s {
	case specBoolean:
		return frame.KindBoolean
	case specInt:
		return frame.KindInt
	case specDouble:
		return frame.KindDouble
	case specObject:
		return frame.KindObject
	default:
		return frame.KindIllegal
	}
}

func (s specialization) String() string {
	if s == specUninitialized {
		return "Uninitialized"
	}
	return s.Kind().String()
}

var nextSiteID int64

// WriteLocal assigns the value of Value to a local slot, storing it in the
// narrowest representation the slot allows and widening the slot when an
// incompatible value shows up.
//
// The slot kind lives in the frame descriptor and is shared by all write
// nodes for the slot. The node additionally caches the path it settled on;
// once that is Object it stops consulting the registry altogether.
type WriteLocal struct {
	Value    Node
	slot     *frame.Slot
	resolver FrameResolver
	spec     specialization
	site     profile.Site

	stats    *profile.WriteStats
	statsFor *profile.Profiler
}

// NewWriteLocal creates a write to slot in the current call's frame
func NewWriteLocal(slot *frame.Slot, value Node) *WriteLocal {
	return newWrite(slot, value, LocalFrame)
}

// NewWriteGeneratorLocal creates a write to slot in the materialized frame
// of the executing generator activation
func NewWriteGeneratorLocal(slot *frame.Slot, value Node) *WriteLocal {
	return newWrite(slot, value, GeneratorFrame)
}

func newWrite(slot *frame.Slot, value Node, r FrameResolver) *WriteLocal {
	return &WriteLocal{
		Value:    value,
		slot:     slot,
		resolver: r,
		site: profile.Site{
			Owner: slot.Descriptor().Name(),
			Slot:  slot.Name,
			ID:    int(atomic.AddInt64(&nextSiteID, 1)),
		},
	}
}

// Slot returns the target slot
func (n *WriteLocal) Slot() *frame.Slot {
	return n.slot
}

// Resolver reports which frame the node targets
func (n *WriteLocal) Resolver() FrameResolver {
	return n.resolver
}

// Specialization returns the kind of the path the node currently uses,
// Illegal before its first write
func (n *WriteLocal) Specialization() frame.Kind {
	return n.spec.Kind()
}

// Site identifies the node in profiler output
func (n *WriteLocal) Site() profile.Site {
	return n.site
}

// MakeRead returns a read node for the same slot and frame
func (n *WriteLocal) MakeRead() *ReadLocal {
	return &ReadLocal{slot: n.slot, resolver: n.resolver}
}

// Execute evaluates the right-hand side and writes it
func (n *WriteLocal) Execute(ctx *Context) (types.Value, error) {
	v, err := n.Value.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return n.ExecuteWrite(ctx, v)
}

// ExecuteWrite writes an already evaluated value, resolving the target
// frame from ctx
func (n *WriteLocal) ExecuteWrite(ctx *Context, v types.Value) (types.Value, error) {
	f, err := n.resolver.resolve(ctx, n.slot.Index)
	if err != nil {
		return nil, err
	}
	return n.write(f, v, n.statsIn(ctx.Profiler), ctx.Tracer)
}

// Write stores v into f through node and returns v unchanged. It is the
// entry point for callers that already hold the target frame.
func Write(node *WriteLocal, f *frame.Frame, v types.Value) (types.Value, error) {
	return node.write(f, v, nil, nil)
}

func (n *WriteLocal) statsIn(p *profile.Profiler) *profile.WriteStats {
	if p == nil {
		return nil
	}
	if n.statsFor != p {
		n.stats = p.Stats(n.site)
		n.statsFor = p
	}
	return n.stats
}

// write runs the guarded specializations in order: unwritten slot,
// matching primitive kind, Object, and finally the mismatch that widens
// the slot to Object and rewrites the node.
func (n *WriteLocal) write(f *frame.Frame, v types.Value, stats *profile.WriteStats, tr *trace.Tracer) (types.Value, error) {
	if v == nil {
		v = types.None
	}
	desc := n.slot.Descriptor()
	if f.Descriptor() != desc {
		return nil, &frame.InternalError{Op: "Write", Slot: n.slot.Index, Err: frame.ErrDescriptorMismatch}
	}

	// Rewritten to the absorbing case: no guards left to check.
	if n.spec == specObject {
		if err := f.SetObject(n.slot.Index, v); err != nil {
			return nil, err
		}
		stats.Record(frame.KindObject, true)
		return v, nil
	}

	required := frame.KindOfValue(v)
	current := n.slot.Kind()

	switch {
	case current == frame.KindIllegal:
		kind := desc.Widen(n.slot, required)
		stats.Widened()
		n.adopt(kind, stats, tr)
		if err := store(f, n.slot.Index, kind, v); err != nil {
			return nil, err
		}
		stats.Record(kind, false)

	case current == required && current != frame.KindObject:
		if n.spec != specFor(current) {
			n.adopt(current, stats, tr)
		}
		if err := store(f, n.slot.Index, current, v); err != nil {
			return nil, err
		}
		stats.Record(current, true)

	case current == frame.KindObject:
		// Another node widened the slot, or this is the first write after
		// an Object widening.
		n.adopt(frame.KindObject, stats, tr)
		if err := f.SetObject(n.slot.Index, v); err != nil {
			return nil, err
		}
		stats.Record(frame.KindObject, false)

	default:
		kind := desc.Widen(n.slot, required)
		stats.Widened()
		n.adopt(kind, stats, tr)
		if err := f.SetObject(n.slot.Index, v); err != nil {
			return nil, err
		}
		stats.Record(frame.KindObject, false)
	}
	return v, nil
}

// adopt moves the node's cached specialization to match kind
func (n *WriteLocal) adopt(kind frame.Kind, stats *profile.WriteStats, tr *trace.Tracer) {
	next := specFor(kind)
	if next == n.spec {
		return
	}
	if n.spec != specUninitialized {
		stats.Rewritten()
		tr.Respecialize(n.site.Owner, n.slot.Name, n.spec, next)
	}
	n.spec = next
}

// store writes v with the accessor for kind. Primitive kinds are only
// passed here when v is known to be of that kind.
func store(f *frame.Frame, slot int, kind frame.Kind, v types.Value) error {
	switch kind {
	case frame.KindBoolean:
		return f.SetBoolean(slot, v.(types.BoolValue).Val)
	case frame.KindInt:
		return f.SetInt(slot, v.(types.IntValue).Val)
	case frame.KindDouble:
		return f.SetDouble(slot, v.(types.FloatValue).Val)
	default:
		return f.SetObject(slot, v)
	}
}
