package eval

import (
	"slotvm/types"
)

// Node is an executable tree node
type Node interface {
	Execute(ctx *Context) (types.Value, error)
}

// Literal evaluates to a constant
type Literal struct {
	Value types.Value
}

// NewLiteral creates a literal node
func NewLiteral(v types.Value) *Literal {
	return &Literal{Value: v}
}

func (n *Literal) Execute(ctx *Context) (types.Value, error) {
	return n.Value, nil
}

// Block executes its statements in order and evaluates to the last value.
// An empty block evaluates to None.
type Block struct {
	Body []Node
}

// NewBlock creates a block node
func NewBlock(body ...Node) *Block {
	return &Block{Body: body}
}

func (n *Block) Execute(ctx *Context) (types.Value, error) {
	var result types.Value = types.None
	for _, stmt := range n.Body {
		v, err := stmt.Execute(ctx)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Repeat executes Body Count times and evaluates to the last value
type Repeat struct {
	Count int
	Body  Node
}

// NewRepeat creates a counted loop node
func NewRepeat(count int, body Node) *Repeat {
	return &Repeat{Count: count, Body: body}
}

func (n *Repeat) Execute(ctx *Context) (types.Value, error) {
	var result types.Value = types.None
	for i := 0; i < n.Count; i++ {
		v, err := n.Body.Execute(ctx)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}
