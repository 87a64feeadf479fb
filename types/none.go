package types

// NoneValue is the "no value" sentinel. It is always stored as an object.
type NoneValue struct{}

// None is the shared sentinel instance
var None = NoneValue{}

func (v NoneValue) Type() TypeCode {
	return TYPE_NONE
}

func (v NoneValue) String() string {
	return "None"
}

func (v NoneValue) Equal(other Value) bool {
	_, ok := other.(NoneValue)
	return ok
}

func (v NoneValue) Truthy() bool {
	return false
}

// IsNone reports whether v is the sentinel
func IsNone(v Value) bool {
	_, ok := v.(NoneValue)
	return ok
}
