package eval

import (
	"fmt"
	"math/big"

	"slotvm/types"
)

// Add evaluates Left + Right. Integer addition that overflows int64
// produces a BigIntValue, and big results that fit again shrink back to
// IntValue, so the kind a slot sees depends on the magnitude of the value.
type Add struct {
	Left, Right Node
}

// NewAdd creates an addition node
func NewAdd(left, right Node) *Add {
	return &Add{Left: left, Right: right}
}

func (n *Add) Execute(ctx *Context) (types.Value, error) {
	l, err := n.Left.Execute(ctx)
	if err != nil {
		return nil, err
	}
	r, err := n.Right.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return addValues(l, r)
}

func addValues(left, right types.Value) (types.Value, error) {
	// String concatenation
	if ls, ok := left.(types.StrValue); ok {
		if rs, ok := right.(types.StrValue); ok {
			return types.NewStr(ls.Value() + rs.Value()), nil
		}
		return nil, operandError(left, right)
	}

	switch l := left.(type) {
	case types.IntValue:
		switch r := right.(type) {
		case types.IntValue:
			sum := l.Val + r.Val
			// Signed overflow: both operands share a sign the result lacks
			if (l.Val >= 0) == (r.Val >= 0) && (sum >= 0) != (l.Val >= 0) {
				return normalizeBig(new(big.Int).Add(big.NewInt(l.Val), big.NewInt(r.Val))), nil
			}
			return types.NewInt(sum), nil
		case types.BigIntValue:
			return normalizeBig(new(big.Int).Add(big.NewInt(l.Val), r.Big())), nil
		case types.FloatValue:
			return types.NewFloat(float64(l.Val) + r.Val), nil
		}
	case types.BigIntValue:
		switch r := right.(type) {
		case types.IntValue:
			return normalizeBig(new(big.Int).Add(l.Big(), big.NewInt(r.Val))), nil
		case types.BigIntValue:
			return normalizeBig(new(big.Int).Add(l.Big(), r.Big())), nil
		case types.FloatValue:
			f, _ := new(big.Float).SetInt(l.Big()).Float64()
			return types.NewFloat(f + r.Val), nil
		}
	case types.FloatValue:
		switch r := right.(type) {
		case types.IntValue:
			return types.NewFloat(l.Val + float64(r.Val)), nil
		case types.BigIntValue:
			f, _ := new(big.Float).SetInt(r.Big()).Float64()
			return types.NewFloat(l.Val + f), nil
		case types.FloatValue:
			return types.NewFloat(l.Val + r.Val), nil
		}
	}
	return nil, operandError(left, right)
}

func normalizeBig(v *big.Int) types.Value {
	if v.IsInt64() {
		return types.NewInt(v.Int64())
	}
	return types.NewBigInt(v)
}

func operandError(left, right types.Value) error {
	return fmt.Errorf("unsupported operand types for +: %s and %s", left.Type(), right.Type())
}
