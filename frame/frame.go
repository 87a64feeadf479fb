package frame

import "slotvm/types"

// Frame holds the locals of one activation in per-kind backing arrays.
//
// Every frame also tags each slot with the array its own live value sits
// in. The slot kind in the descriptor is shared by all frames built from
// it, so a slot can widen to Object through one frame while another frame
// still holds a primitive there; the tag keeps that primitive readable.
// The cells of the other arrays at the same index are stale.
//
// Typed setters update the tag but never the descriptor; keeping the kind
// in step with the storage is the write node's job.
type Frame struct {
	desc         *Descriptor
	tags         []Kind
	booleans     []bool
	ints         []int64
	doubles      []float64
	objects      []types.Value
	checkKinds   bool
	materialized bool
}

// Option configures a new frame
type Option func(*Frame)

// CheckKinds makes typed getters fail with ErrKindMismatch when the accessor
// disagrees with the slot kind.
func CheckKinds(enabled bool) Option {
	return func(f *Frame) {
		f.checkKinds = enabled
	}
}

// New allocates a frame for desc and freezes the descriptor's slot set
func New(desc *Descriptor, opts ...Option) *Frame {
	desc.Freeze()
	n := desc.Size()
	f := &Frame{
		desc:     desc,
		tags:     make([]Kind, n),
		booleans: make([]bool, n),
		ints:     make([]int64, n),
		doubles:  make([]float64, n),
		objects:  make([]types.Value, n),
	}
	for i := range f.objects {
		f.objects[i] = types.None
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Descriptor returns the frame's descriptor
func (f *Frame) Descriptor() *Descriptor {
	return f.desc
}

// Materialize promotes the frame so it can outlive the activation that
// created it. Storage is shared, not copied: the returned frame is f.
func (f *Frame) Materialize() *Frame {
	f.materialized = true
	return f
}

// IsMaterialized reports whether Materialize has been called
func (f *Frame) IsMaterialized() bool {
	return f.materialized
}

// Tag returns the kind of the array holding this frame's value for slot,
// Illegal when the frame never stored one. Out of range slots report
// Illegal.
func (f *Frame) Tag(slot int) Kind {
	if slot < 0 || slot >= len(f.tags) {
		return KindIllegal
	}
	return f.tags[slot]
}

// live is the kind a typed read of slot has to agree with: the frame's own
// tag once it stored something, the shared slot kind before that
func (f *Frame) live(slot int) Kind {
	if tag := f.tags[slot]; tag != KindIllegal {
		return tag
	}
	return f.desc.KindOf(slot)
}

func (f *Frame) check(op string, slot int, want Kind) error {
	if slot < 0 || slot >= len(f.objects) {
		return internalErr(op, slot, ErrSlotOutOfRange)
	}
	if f.checkKinds && want != KindIllegal && f.live(slot) != want {
		return internalErr(op, slot, ErrKindMismatch)
	}
	return nil
}

// GetBoolean reads the boolean cell of slot
func (f *Frame) GetBoolean(slot int) (bool, error) {
	if err := f.check("GetBoolean", slot, KindBoolean); err != nil {
		return false, err
	}
	return f.booleans[slot], nil
}

// SetBoolean writes the boolean cell of slot
func (f *Frame) SetBoolean(slot int, v bool) error {
	if err := f.check("SetBoolean", slot, KindIllegal); err != nil {
		return err
	}
	f.booleans[slot] = v
	f.tags[slot] = KindBoolean
	return nil
}

// GetInt reads the int cell of slot
func (f *Frame) GetInt(slot int) (int64, error) {
	if err := f.check("GetInt", slot, KindInt); err != nil {
		return 0, err
	}
	return f.ints[slot], nil
}

// SetInt writes the int cell of slot
func (f *Frame) SetInt(slot int, v int64) error {
	if err := f.check("SetInt", slot, KindIllegal); err != nil {
		return err
	}
	f.ints[slot] = v
	f.tags[slot] = KindInt
	return nil
}

// GetDouble reads the double cell of slot
func (f *Frame) GetDouble(slot int) (float64, error) {
	if err := f.check("GetDouble", slot, KindDouble); err != nil {
		return 0, err
	}
	return f.doubles[slot], nil
}

// SetDouble writes the double cell of slot
func (f *Frame) SetDouble(slot int, v float64) error {
	if err := f.check("SetDouble", slot, KindIllegal); err != nil {
		return err
	}
	f.doubles[slot] = v
	f.tags[slot] = KindDouble
	return nil
}

// GetObject reads slot as an object. When the slot has widened to Object
// but this frame's value is still a primitive, the primitive is boxed.
func (f *Frame) GetObject(slot int) (types.Value, error) {
	if err := f.check("GetObject", slot, KindIllegal); err != nil {
		return nil, err
	}
	tag := f.tags[slot]
	if f.checkKinds && f.desc.KindOf(slot) != KindObject {
		return nil, internalErr("GetObject", slot, ErrKindMismatch)
	}
	if tag.IsPrimitive() {
		return f.box(slot, tag), nil
	}
	return f.objects[slot], nil
}

// SetObject writes the object cell of slot
func (f *Frame) SetObject(slot int, v types.Value) error {
	if err := f.check("SetObject", slot, KindIllegal); err != nil {
		return err
	}
	f.objects[slot] = v
	f.tags[slot] = KindObject
	return nil
}

// Get reads this frame's live value for slot, selected by the frame's tag,
// and boxes it
func (f *Frame) Get(slot int) (types.Value, error) {
	if err := f.check("Get", slot, KindIllegal); err != nil {
		return nil, err
	}
	tag := f.tags[slot]
	if tag == KindIllegal {
		return nil, internalErr("Get", slot, ErrUnwritten)
	}
	return f.box(slot, tag), nil
}

func (f *Frame) box(slot int, tag Kind) types.Value {
	switch tag {
	case KindBoolean:
		return types.NewBool(f.booleans[slot])
	case KindInt:
		return types.NewInt(f.ints[slot])
	case KindDouble:
		return types.NewFloat(f.doubles[slot])
	default:
		return f.objects[slot]
	}
}
