package types

import "testing"

func TestTypeCodes(t *testing.T) {
	tests := []struct {
		code TypeCode
		val  int
		name string
	}{
		{TYPE_INT, 0, "INT"},
		{TYPE_STR, 2, "STR"},
		{TYPE_LIST, 4, "LIST"},
		{TYPE_FLOAT, 9, "FLOAT"},
		{TYPE_BOOL, 14, "BOOL"},
		{TYPE_BIGINT, 15, "BIGINT"},
		{TYPE_NONE, 16, "NONE"},
	}

	for _, tt := range tests {
		if int(tt.code) != tt.val {
			t.Errorf("Type code %s should be %d, got %d", tt.name, tt.val, int(tt.code))
		}
		if tt.code.String() != tt.name {
			t.Errorf("Type code %d should stringify to %s, got %s", tt.val, tt.name, tt.code.String())
		}
	}
}

func TestValueTypes(t *testing.T) {
	big, _ := ParseBigInt("123456789012345678901234567890")
	tests := []struct {
		name string
		v    Value
		code TypeCode
	}{
		{"int", NewInt(7), TYPE_INT},
		{"float", NewFloat(3.14), TYPE_FLOAT},
		{"bool", NewBool(true), TYPE_BOOL},
		{"str", NewStr("x"), TYPE_STR},
		{"list", NewList(nil), TYPE_LIST},
		{"bigint", big, TYPE_BIGINT},
		{"none", None, TYPE_NONE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Type() != tt.code {
				t.Errorf("%s: expected type %s, got %s", tt.name, tt.code, tt.v.Type())
			}
		})
	}
}
