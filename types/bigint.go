package types

import "math/big"

// BigIntValue is an arbitrary precision integer. It has no unboxed frame
// representation, so a slot that receives one is stored as an object.
type BigIntValue struct {
	val *big.Int
}

// NewBigInt wraps a copy of v
func NewBigInt(v *big.Int) BigIntValue {
	return BigIntValue{val: new(big.Int).Set(v)}
}

// ParseBigInt parses a base 10 integer literal of any size
func ParseBigInt(s string) (BigIntValue, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return BigIntValue{}, false
	}
	return BigIntValue{val: v}, true
}

func (b BigIntValue) Type() TypeCode {
	return TYPE_BIGINT
}

func (b BigIntValue) String() string {
	if b.val == nil {
		return "0"
	}
	return b.val.String()
}

func (b BigIntValue) Equal(other Value) bool {
	o, ok := other.(BigIntValue)
	if !ok {
		return false
	}
	return b.Big().Cmp(o.Big()) == 0
}

func (b BigIntValue) Truthy() bool {
	return b.val != nil && b.val.Sign() != 0
}

// Big returns a copy of the underlying integer
func (b BigIntValue) Big() *big.Int {
	if b.val == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.val)
}
