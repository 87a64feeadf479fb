package frame

import (
	"testing"

	"slotvm/types"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		a, b, want Kind
	}{
		{KindIllegal, KindIllegal, KindIllegal},
		{KindIllegal, KindBoolean, KindBoolean},
		{KindInt, KindIllegal, KindInt},
		{KindInt, KindInt, KindInt},
		{KindBoolean, KindInt, KindObject},
		{KindInt, KindDouble, KindObject},
		{KindDouble, KindBoolean, KindObject},
		{KindObject, KindInt, KindObject},
		{KindIllegal, KindObject, KindObject},
		{KindObject, KindObject, KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"+"+tt.b.String(), func(t *testing.T) {
			if got := Join(tt.a, tt.b); got != tt.want {
				t.Errorf("Join(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
			}
			if got := Join(tt.b, tt.a); got != tt.want {
				t.Errorf("Join(%s, %s) = %s, want %s (not commutative)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestKindOfValue(t *testing.T) {
	huge, _ := types.ParseBigInt("170141183460469231731687303715884105727")
	tests := []struct {
		name string
		v    types.Value
		want Kind
	}{
		{"bool", types.NewBool(true), KindBoolean},
		{"int", types.NewInt(5), KindInt},
		{"float", types.NewFloat(3.14), KindDouble},
		{"bigint", huge, KindObject},
		{"small bigint", types.NewBigInt(huge.Big().SetInt64(1)), KindObject},
		{"none", types.None, KindObject},
		{"str", types.NewStr("s"), KindObject},
		{"nil", nil, KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOfValue(tt.v); got != tt.want {
				t.Errorf("KindOfValue(%v) = %s, want %s", tt.v, got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for k := KindIllegal; k <= KindObject; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %s, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("Long"); ok {
		t.Error("unknown kind name should not parse")
	}
}

func TestKindIsPrimitive(t *testing.T) {
	if KindIllegal.IsPrimitive() || KindObject.IsPrimitive() {
		t.Error("Illegal and Object are not primitive")
	}
	if !KindBoolean.IsPrimitive() || !KindInt.IsPrimitive() || !KindDouble.IsPrimitive() {
		t.Error("Boolean, Int and Double are primitive")
	}
}

