package types

import "strconv"

// IntValue is a machine integer. Every IntValue fits the int frame storage.
type IntValue struct {
	Val int64
}

// Type returns the type code for integers
func (i IntValue) Type() TypeCode {
	return TYPE_INT
}

func (i IntValue) String() string {
	return strconv.FormatInt(i.Val, 10)
}

// Equal checks deep equality. An IntValue never equals a BigIntValue,
// even when the magnitudes match.
func (i IntValue) Equal(other Value) bool {
	o, ok := other.(IntValue)
	return ok && i.Val == o.Val
}

// Truthy: 0 is falsy, all other integers are truthy
func (i IntValue) Truthy() bool {
	return i.Val != 0
}

// NewInt creates a new IntValue
func NewInt(val int64) IntValue {
	return IntValue{Val: val}
}
