package eval

import (
	"slotvm/frame"
	"slotvm/types"
)

// Yield hands the value of Value to the caller resuming the generator and
// suspends until the next resume. It evaluates to None.
type Yield struct {
	Value Node
}

// NewYield creates a yield node
func NewYield(value Node) *Yield {
	return &Yield{Value: value}
}

func (n *Yield) Execute(ctx *Context) (types.Value, error) {
	if ctx.Generator == nil {
		return nil, &frame.InternalError{Op: "Yield", Slot: -1, Err: frame.ErrNoGeneratorFrame}
	}
	v, err := n.Value.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Generator.Yield(v); err != nil {
		return nil, err
	}
	return types.None, nil
}
