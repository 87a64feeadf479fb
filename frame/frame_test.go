package frame

import (
	"errors"
	"testing"

	"slotvm/types"
)

func TestTypedAccessorsRoundTrip(t *testing.T) {
	d := NewDescriptor("f", "b", "i", "d", "o")
	f := New(d)

	if err := f.SetBoolean(0, true); err != nil {
		t.Fatal(err)
	}
	if err := f.SetInt(1, 42); err != nil {
		t.Fatal(err)
	}
	if err := f.SetDouble(2, 2.5); err != nil {
		t.Fatal(err)
	}
	if err := f.SetObject(3, types.NewStr("hi")); err != nil {
		t.Fatal(err)
	}

	if v, _ := f.GetBoolean(0); v != true {
		t.Errorf("GetBoolean = %v", v)
	}
	if v, _ := f.GetInt(1); v != 42 {
		t.Errorf("GetInt = %d", v)
	}
	if v, _ := f.GetDouble(2); v != 2.5 {
		t.Errorf("GetDouble = %v", v)
	}
	if v, _ := f.GetObject(3); !v.Equal(types.NewStr("hi")) {
		t.Errorf("GetObject = %v", v)
	}
}

func TestSettersDoNotTouchKinds(t *testing.T) {
	d := NewDescriptor("f", "x")
	f := New(d)
	if err := f.SetInt(0, 1); err != nil {
		t.Fatal(err)
	}
	if d.KindOf(0) != KindIllegal {
		t.Errorf("typed setter changed kind to %s", d.KindOf(0))
	}
}

func TestOutOfRange(t *testing.T) {
	f := New(NewDescriptor("f", "x"))

	checks := map[string]error{
		"SetBoolean": f.SetBoolean(1, true),
		"SetInt":     f.SetInt(-1, 1),
		"SetDouble":  f.SetDouble(5, 1),
		"SetObject":  f.SetObject(1, types.None),
	}
	_, checks["GetInt"] = f.GetInt(1)
	_, checks["GetObject"] = f.GetObject(7)
	_, checks["Get"] = f.Get(1)

	for op, err := range checks {
		t.Run(op, func(t *testing.T) {
			if !errors.Is(err, ErrSlotOutOfRange) {
				t.Fatalf("expected ErrSlotOutOfRange, got %v", err)
			}
			var ie *InternalError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *InternalError, got %T", err)
			}
			if ie.Op != op {
				t.Errorf("expected op %s, got %s", op, ie.Op)
			}
		})
	}
}

func TestKindChecks(t *testing.T) {
	d := NewDescriptor("f", "x")
	f := New(d, CheckKinds(true))
	s, _ := d.FindSlot("x")

	d.Widen(s, KindInt)
	_ = f.SetInt(0, 3)

	if _, err := f.GetDouble(0); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("expected ErrKindMismatch, got %v", err)
	}
	if v, err := f.GetInt(0); err != nil || v != 3 {
		t.Errorf("GetInt = %d, %v", v, err)
	}

	unchecked := New(d)
	if _, err := unchecked.GetDouble(0); err != nil {
		t.Errorf("unchecked frame should not fail on mismatch, got %v", err)
	}
}

func TestGetBoxesByKind(t *testing.T) {
	d := NewDescriptor("f", "b", "i", "d", "o", "never")
	f := New(d)
	slots := d.Slots()

	d.Widen(slots[0], KindBoolean)
	_ = f.SetBoolean(0, true)
	d.Widen(slots[1], KindInt)
	_ = f.SetInt(1, 7)
	d.Widen(slots[2], KindDouble)
	_ = f.SetDouble(2, 0.25)
	d.Widen(slots[3], KindObject)
	_ = f.SetObject(3, types.NewInt(9))

	want := []types.Value{types.NewBool(true), types.NewInt(7), types.NewFloat(0.25), types.NewInt(9)}
	for i, w := range want {
		got, err := f.Get(i)
		if err != nil {
			t.Fatalf("slot %d: %v", i, err)
		}
		if !got.Equal(w) {
			t.Errorf("slot %d: got %v, want %v", i, got, w)
		}
	}

	if _, err := f.Get(4); !errors.Is(err, ErrUnwritten) {
		t.Errorf("expected ErrUnwritten for never-written slot, got %v", err)
	}
}

func TestMaterializeSharesStorage(t *testing.T) {
	d := NewDescriptor("gen", "x")
	f := New(d)
	if f.IsMaterialized() {
		t.Fatal("new frame should not be materialized")
	}

	m := f.Materialize()
	if m != f || !m.IsMaterialized() {
		t.Fatal("Materialize should promote the frame in place")
	}

	_ = m.SetInt(0, 11)
	if v, _ := f.GetInt(0); v != 11 {
		t.Errorf("write through materialized frame not visible: %d", v)
	}
	if m.Descriptor() != d {
		t.Error("descriptor should be preserved")
	}
}

func TestObjectCellsDefaultToNone(t *testing.T) {
	f := New(NewDescriptor("f", "x"))
	v, err := f.GetObject(0)
	if err != nil {
		t.Fatal(err)
	}
	if !types.IsNone(v) {
		t.Errorf("expected None, got %v", v)
	}
}

func TestTagsArePerFrame(t *testing.T) {
	d := NewDescriptor("gen", "u")
	s, _ := d.FindSlot("u")
	f1 := New(d, CheckKinds(true))
	f2 := New(d, CheckKinds(true))

	d.Widen(s, KindInt)
	_ = f1.SetInt(0, 1)
	// Another frame widens the shared slot kind
	d.Widen(s, KindObject)
	_ = f2.SetObject(0, types.NewStr("s"))

	if f1.Tag(0) != KindInt || f2.Tag(0) != KindObject {
		t.Fatalf("tags = %s, %s, want Int, Object", f1.Tag(0), f2.Tag(0))
	}
	if v, err := f1.Get(0); err != nil || !v.Equal(types.NewInt(1)) {
		t.Errorf("f1.Get = (%v, %v), want 1", v, err)
	}
	if v, err := f1.GetObject(0); err != nil || !v.Equal(types.NewInt(1)) {
		t.Errorf("f1.GetObject = (%v, %v), want boxed 1", v, err)
	}
	if v, err := f1.GetInt(0); err != nil || v != 1 {
		t.Errorf("f1.GetInt = (%d, %v), want 1", v, err)
	}
	if v, _ := f2.Get(0); !v.Equal(types.NewStr("s")) {
		t.Errorf("f2.Get = %v, want \"s\"", v)
	}

	// Storing through the object path retags the frame
	_ = f1.SetObject(0, types.NewInt(2))
	if f1.Tag(0) != KindObject {
		t.Errorf("tag after SetObject = %s, want Object", f1.Tag(0))
	}
	if _, err := f1.GetInt(0); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("GetInt after retag error = %v, want ErrKindMismatch", err)
	}
	if f1.Tag(9) != KindIllegal {
		t.Error("out of range tag should be Illegal")
	}
}
