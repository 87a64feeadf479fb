package types

import "strings"

// ListValue is an immutable list. Mutating operations return a copy.
type ListValue struct {
	elements []Value
}

// NewList creates a new list value
func NewList(elements []Value) ListValue {
	return ListValue{elements: elements}
}

func (l ListValue) String() string {
	parts := make([]string, len(l.elements))
	for i, elem := range l.elements {
		parts[i] = elem.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l ListValue) Type() TypeCode {
	return TYPE_LIST
}

// Truthy: non-empty lists are truthy
func (l ListValue) Truthy() bool {
	return len(l.elements) > 0
}

// Equal compares element by element
func (l ListValue) Equal(other Value) bool {
	o, ok := other.(ListValue)
	if !ok || len(l.elements) != len(o.elements) {
		return false
	}
	for i := range l.elements {
		if !l.elements[i].Equal(o.elements[i]) {
			return false
		}
	}
	return true
}

// Len returns the length of the list
func (l ListValue) Len() int {
	return len(l.elements)
}

// Get returns the element at a 0-based index, or nil when out of range
func (l ListValue) Get(i int) Value {
	if i < 0 || i >= len(l.elements) {
		return nil
	}
	return l.elements[i]
}

// Append returns a new list with v appended
func (l ListValue) Append(v Value) ListValue {
	elems := make([]Value, len(l.elements)+1)
	copy(elems, l.elements)
	elems[len(l.elements)] = v
	return ListValue{elements: elems}
}

// Elements returns the backing slice for iteration
func (l ListValue) Elements() []Value {
	return l.elements
}
