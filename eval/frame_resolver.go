package eval

import (
	"slotvm/frame"
)

// FrameResolver selects which frame a local variable node reads and writes
type FrameResolver int

const (
	// LocalFrame targets the transient frame of the current call
	LocalFrame FrameResolver = iota
	// GeneratorFrame targets the materialized frame owned by the generator
	// activation being executed, so locals survive suspend and resume
	GeneratorFrame
)

func (r FrameResolver) String() string {
	if r == GeneratorFrame {
		return "generator"
	}
	return "local"
}

// resolve is a field read on the context; it never allocates
func (r FrameResolver) resolve(ctx *Context, slot int) (*frame.Frame, error) {
	switch r {
	case GeneratorFrame:
		if ctx.Generator == nil {
			return nil, &frame.InternalError{Op: "ResolveGeneratorFrame", Slot: slot, Err: frame.ErrNoGeneratorFrame}
		}
		if f := ctx.Generator.Frame(); f != nil {
			return f, nil
		}
		return nil, &frame.InternalError{Op: "ResolveGeneratorFrame", Slot: slot, Err: frame.ErrNoGeneratorFrame}
	default:
		if ctx.Frame == nil {
			return nil, &frame.InternalError{Op: "ResolveFrame", Slot: slot, Err: frame.ErrNoFrame}
		}
		return ctx.Frame, nil
	}
}
