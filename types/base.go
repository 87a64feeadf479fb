package types

// Value is the interface all runtime values implement
type Value interface {
	Type() TypeCode
	String() string   // Literal representation
	Equal(Value) bool // Deep equality
	Truthy() bool     // Truthiness rules
}

// IsPrimitive reports whether v has an unboxed frame representation
// (bool, int or float). Everything else lives in object storage.
func IsPrimitive(v Value) bool {
	switch v.(type) {
	case BoolValue, IntValue, FloatValue:
		return true
	default:
		return false
	}
}
