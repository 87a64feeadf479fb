package eval

import (
	"slotvm/frame"
	"slotvm/types"
)

// ReadLocal reads a local slot through the accessor its current kind selects
type ReadLocal struct {
	slot     *frame.Slot
	resolver FrameResolver
}

// NewReadLocal creates a read of slot in the current call's frame
func NewReadLocal(slot *frame.Slot) *ReadLocal {
	return &ReadLocal{slot: slot, resolver: LocalFrame}
}

// NewReadGeneratorLocal creates a read of slot in the executing generator's
// materialized frame
func NewReadGeneratorLocal(slot *frame.Slot) *ReadLocal {
	return &ReadLocal{slot: slot, resolver: GeneratorFrame}
}

// Slot returns the slot being read
func (n *ReadLocal) Slot() *frame.Slot {
	return n.slot
}

func (n *ReadLocal) Execute(ctx *Context) (types.Value, error) {
	f, err := n.resolver.resolve(ctx, n.slot.Index)
	if err != nil {
		return nil, err
	}
	if f.Descriptor() != n.slot.Descriptor() {
		return nil, &frame.InternalError{Op: "Read", Slot: n.slot.Index, Err: frame.ErrDescriptorMismatch}
	}
	return f.Get(n.slot.Index)
}
