package types

// TypeCode identifies the runtime type of a value
type TypeCode int

const (
	TYPE_INT    TypeCode = 0
	TYPE_STR    TypeCode = 2
	TYPE_LIST   TypeCode = 4
	TYPE_FLOAT  TypeCode = 9
	TYPE_BOOL   TypeCode = 14
	TYPE_BIGINT TypeCode = 15
	TYPE_NONE   TypeCode = 16
)

// String returns the string representation of the type code
func (t TypeCode) String() string {
	switch t {
	case TYPE_INT:
		return "INT"
	case TYPE_STR:
		return "STR"
	case TYPE_LIST:
		return "LIST"
	case TYPE_FLOAT:
		return "FLOAT"
	case TYPE_BOOL:
		return "BOOL"
	case TYPE_BIGINT:
		return "BIGINT"
	case TYPE_NONE:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}
