package eval

import (
	"slotvm/frame"
	"slotvm/profile"
	"slotvm/trace"
	"slotvm/types"
)

// GeneratorActivation is the part of a suspended computation the
// evaluator needs: the materialized frame that generator locals live in,
// and a way to hand a value back to whoever resumed it.
type GeneratorActivation interface {
	Frame() *frame.Frame
	Yield(v types.Value) error
}

// Context is the state of one activation segment, passed to every node.
//
// Frame is the transient frame of an ordinary call. When executing a
// generator body, Generator is set and generator nodes route their reads
// and writes to its materialized frame instead.
type Context struct {
	Frame     *frame.Frame
	Generator GeneratorActivation
	Tracer    *trace.Tracer
	Profiler  *profile.Profiler
}

// NewContext creates a context for an ordinary (non-generator) call
func NewContext(f *frame.Frame) *Context {
	return &Context{Frame: f}
}

// ForGenerator returns a copy of ctx that executes inside gen
func (ctx *Context) ForGenerator(gen GeneratorActivation) *Context {
	c := *ctx
	c.Generator = gen
	return &c
}
