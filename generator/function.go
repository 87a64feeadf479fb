// Package generator runs generator function bodies as suspendable
// activations. Each activation owns a materialized frame that keeps the
// generator's locals alive between resumes.
package generator

import (
	"fmt"

	"slotvm/eval"
	"slotvm/frame"
	"slotvm/types"
)

// Function is a generator function template. Every call of the template
// starts a new Activation with its own frame; the descriptor, and so the
// slot kinds, are shared between activations.
type Function struct {
	Name       string
	Descriptor *frame.Descriptor
	Body       eval.Node

	params []*eval.WriteLocal
}

// NewFunction creates a template whose first slots receive the arguments.
// Every parameter name must already be a slot of desc.
func NewFunction(name string, desc *frame.Descriptor, params []string, body eval.Node) (*Function, error) {
	fn := &Function{Name: name, Descriptor: desc, Body: body}
	for _, p := range params {
		slot, ok := desc.FindSlot(p)
		if !ok {
			return nil, fmt.Errorf("generator %s: parameter %q is not a slot of %s", name, p, desc.Name())
		}
		fn.params = append(fn.params, eval.NewWriteGeneratorLocal(slot, nil))
	}
	return fn, nil
}

// Arity returns the number of parameters
func (fn *Function) Arity() int {
	return len(fn.params)
}

// bind stores args into the parameter slots of f
func (fn *Function) bind(f *frame.Frame, args []types.Value) error {
	if len(args) != len(fn.params) {
		return fmt.Errorf("generator %s: expected %d arguments, got %d", fn.Name, len(fn.params), len(args))
	}
	for i, w := range fn.params {
		if _, err := eval.Write(w, f, args[i]); err != nil {
			return fmt.Errorf("generator %s: binding parameter %s: %w", fn.Name, w.Slot().Name, err)
		}
	}
	return nil
}
