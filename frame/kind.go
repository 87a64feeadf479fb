package frame

import (
	"fmt"

	"slotvm/types"
)

// Kind is the storage representation currently used by a slot.
//
// Kinds form a lattice: Illegal is the bottom, Object the top, and the three
// primitive kinds are incomparable siblings in between. A slot only ever moves
// up the lattice.
type Kind int

const (
	KindIllegal Kind = iota // never written
	KindBoolean
	KindInt
	KindDouble
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindIllegal:
		return "Illegal"
	case KindBoolean:
		return "Boolean"
	case KindInt:
		return "Int"
	case KindDouble:
		return "Double"
	case KindObject:
		return "Object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsPrimitive reports whether k has its own unboxed backing array
func (k Kind) IsPrimitive() bool {
	return k == KindBoolean || k == KindInt || k == KindDouble
}

// ParseKind converts a kind name ("Int", "Object", ...) back to a Kind
func ParseKind(s string) (Kind, bool) {
	for k := KindIllegal; k <= KindObject; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindIllegal, false
}

// Join returns the least upper bound of a and b. Two different primitive
// kinds join to Object because their storage cells are disjoint.
func Join(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a == KindIllegal:
		return b
	case b == KindIllegal:
		return a
	default:
		return KindObject
	}
}

// KindOfValue returns the narrowest kind able to hold v.
// Anything that is not exactly a bool, int or float (big integers, the None
// sentinel, strings, lists, nil) needs object storage.
func KindOfValue(v types.Value) Kind {
	switch v.(type) {
	case types.BoolValue:
		return KindBoolean
	case types.IntValue:
		return KindInt
	case types.FloatValue:
		return KindDouble
	default:
		return KindObject
	}
}
