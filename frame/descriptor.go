package frame

import (
	"fmt"

	"slotvm/trace"
)

// Slot is one addressable local variable of a function. Its kind is shared
// by every node that reads or writes the slot.
type Slot struct {
	Index int
	Name  string
	kind  Kind
	desc  *Descriptor
}

// Kind returns the slot's current storage kind
func (s *Slot) Kind() Kind {
	return s.kind
}

// Descriptor returns the descriptor that owns the slot
func (s *Slot) Descriptor() *Descriptor {
	return s.desc
}

func (s *Slot) String() string {
	return fmt.Sprintf("%s[%d]:%s", s.Name, s.Index, s.kind)
}

// KindView is the read-only side of the slot kind registry, handed to
// diagnostic collaborators that report specialization state.
type KindView interface {
	Name() string
	Size() int
	SlotName(index int) string
	KindOf(index int) Kind
}

// Descriptor describes the slots of one function and records the kind each
// slot has been specialized to. Frames are sized from it; once the first
// frame exists the slot set is frozen.
type Descriptor struct {
	name   string
	slots  []*Slot
	byName map[string]*Slot
	frozen bool
	tracer *trace.Tracer
}

// NewDescriptor creates a descriptor with the given slots, all Illegal
func NewDescriptor(name string, slotNames ...string) *Descriptor {
	d := &Descriptor{
		name:   name,
		slots:  make([]*Slot, 0, len(slotNames)),
		byName: make(map[string]*Slot, len(slotNames)),
	}
	for _, n := range slotNames {
		if _, err := d.AddSlot(n); err != nil {
			panic(err) // duplicate names in a literal slot list are a caller bug
		}
	}
	return d
}

// Name returns the name of the function the descriptor belongs to
func (d *Descriptor) Name() string {
	return d.name
}

// SetTracer attaches a tracer that receives widening events
func (d *Descriptor) SetTracer(t *trace.Tracer) {
	d.tracer = t
}

// AddSlot appends a new Illegal slot. It fails once a frame has been built.
func (d *Descriptor) AddSlot(name string) (*Slot, error) {
	if d.frozen {
		return nil, internalErr("AddSlot", len(d.slots), ErrFrozenDescriptor)
	}
	if _, ok := d.byName[name]; ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateSlot, name, d.name)
	}
	s := &Slot{Index: len(d.slots), Name: name, kind: KindIllegal, desc: d}
	d.slots = append(d.slots, s)
	d.byName[name] = s
	return s, nil
}

// Freeze fixes the slot count. frame.New calls it implicitly.
func (d *Descriptor) Freeze() {
	d.frozen = true
}

// Size returns the number of slots
func (d *Descriptor) Size() int {
	return len(d.slots)
}

// FindSlot looks a slot up by name
func (d *Descriptor) FindSlot(name string) (*Slot, bool) {
	s, ok := d.byName[name]
	return s, ok
}

// Slot returns the slot at index
func (d *Descriptor) Slot(index int) (*Slot, error) {
	if index < 0 || index >= len(d.slots) {
		return nil, internalErr("Slot", index, ErrSlotOutOfRange)
	}
	return d.slots[index], nil
}

// Slots returns the slots in index order
func (d *Descriptor) Slots() []*Slot {
	out := make([]*Slot, len(d.slots))
	copy(out, d.slots)
	return out
}

// SlotName returns the name of the slot at index, or "" when out of range
func (d *Descriptor) SlotName(index int) string {
	if index < 0 || index >= len(d.slots) {
		return ""
	}
	return d.slots[index].Name
}

// KindOf returns the current kind of the slot at index.
// Unknown indices report Illegal, the same as a never-written slot.
func (d *Descriptor) KindOf(index int) Kind {
	if index < 0 || index >= len(d.slots) {
		return KindIllegal
	}
	return d.slots[index].kind
}

// Widen moves s to Join(current, candidate) and returns the new kind.
// The kind never moves down; Object absorbs everything.
func (d *Descriptor) Widen(s *Slot, candidate Kind) Kind {
	from := s.kind
	to := Join(from, candidate)
	if to != from {
		s.kind = to
		d.tracer.Widen(d.name, s.Name, from, to)
	}
	return to
}
