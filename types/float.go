package types

import (
	"math"
	"strconv"
	"strings"
)

// FloatValue represents a double precision float
type FloatValue struct {
	Val float64
}

// Type returns the type code for floats
func (f FloatValue) Type() TypeCode {
	return TYPE_FLOAT
}

// String returns the literal representation. Whole numbers keep a
// trailing ".0" so they never print like integers.
func (f FloatValue) String() string {
	switch {
	case math.IsNaN(f.Val):
		return "NaN"
	case math.IsInf(f.Val, 1):
		return "Inf"
	case math.IsInf(f.Val, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f.Val, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Equal checks deep equality with IEEE 754 semantics (NaN != NaN)
func (f FloatValue) Equal(other Value) bool {
	o, ok := other.(FloatValue)
	if !ok {
		return false
	}
	return f.Val == o.Val
}

// Truthy: non-zero, non-NaN floats are truthy
func (f FloatValue) Truthy() bool {
	return f.Val != 0 && !math.IsNaN(f.Val)
}

// NewFloat creates a new FloatValue
func NewFloat(val float64) FloatValue {
	return FloatValue{Val: val}
}
