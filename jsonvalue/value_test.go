package jsonvalue_test

import (
	"testing"

	"github.com/lattice-substrate/spanjson/jsonvalue"
)

func TestNumberKindAccessors(t *testing.T) {
	if got := jsonvalue.PosInt(42).PosIntValue(); got != 42 {
		t.Fatalf("PosIntValue() = %d, want 42", got)
	}
	if got := jsonvalue.NegInt(-7).NegIntValue(); got != -7 {
		t.Fatalf("NegIntValue() = %d, want -7", got)
	}
	if got := jsonvalue.Float(3.5).FloatValue(); got != 3.5 {
		t.Fatalf("FloatValue() = %v, want 3.5", got)
	}
}

func TestNumberWrongAccessorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling FloatValue on a PosInt Number")
		}
	}()
	jsonvalue.PosInt(1).FloatValue()
}

func TestValueWrongAccessorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling StringValue on a Bool Value")
		}
	}()
	jsonvalue.Bool(true).StringValue()
}

func TestObjectMemberLookup(t *testing.T) {
	members := map[string]jsonvalue.SpannedValue{
		"a": {Value: jsonvalue.Num(jsonvalue.PosInt(1))},
		"b": {Value: jsonvalue.Num(jsonvalue.PosInt(2))},
	}
	obj := jsonvalue.Obj(members, []string{"a", "b"})

	sv, ok := obj.Member("a")
	if !ok || sv.Value.NumberValue().PosIntValue() != 1 {
		t.Fatalf("Member(%q) = %v, %v", "a", sv, ok)
	}
	if _, ok := obj.Member("missing"); ok {
		t.Fatal("Member(missing) reported present")
	}
	if got := obj.ObjectKeys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("ObjectKeys() = %v, want [a b]", got)
	}
}

func TestArrayAt(t *testing.T) {
	arr := jsonvalue.Arr([]jsonvalue.SpannedValue{
		{Value: jsonvalue.Null()},
		{Value: jsonvalue.Bool(false)},
	})
	if _, ok := arr.At(5); ok {
		t.Fatal("At(5) reported present for a 2-element array")
	}
	sv, ok := arr.At(1)
	if !ok || sv.Value.Kind() != jsonvalue.KindBool {
		t.Fatalf("At(1) = %v, %v", sv, ok)
	}
}
