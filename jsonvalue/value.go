// Package jsonvalue defines the span-annotated JSON value tree: the tagged
// Value union, the tagged Number union, and SpannedValue, the node type
// every array element and object member is stored as.
package jsonvalue

import (
	"fmt"

	"github.com/lattice-substrate/spanjson/sourcepos"
)

// Kind discriminates the six kinds of JSON value represented by Value (the
// true and false productions share KindBool).
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// NumberKind discriminates the three Number representations.
type NumberKind int

const (
	NumberPosInt NumberKind = iota
	NumberNegInt
	NumberFloat
)

// Number is a tagged union over the three ways a JSON numeral is kept in
// memory. Parsing prefers PosInt/NegInt for integral literals that fit a
// uint64/int64, and widens to Float when the literal either contains a
// fraction/exponent or overflows the integer range.
type Number struct {
	kind  NumberKind
	pos   uint64
	neg   int64
	float float64
}

// PosInt builds a Number holding a non-negative integer.
func PosInt(v uint64) Number { return Number{kind: NumberPosInt, pos: v} }

// NegInt builds a Number holding a negative integer.
func NegInt(v int64) Number { return Number{kind: NumberNegInt, neg: v} }

// Float builds a Number holding a floating-point value.
func Float(v float64) Number { return Number{kind: NumberFloat, float: v} }

// Kind reports which representation n holds.
func (n Number) Kind() NumberKind { return n.kind }

// PosIntValue returns the held value, panicking if Kind() != NumberPosInt.
func (n Number) PosIntValue() uint64 {
	if n.kind != NumberPosInt {
		panic(fmt.Sprintf("jsonvalue: PosIntValue called on %v Number", n.kind))
	}
	return n.pos
}

// NegIntValue returns the held value, panicking if Kind() != NumberNegInt.
func (n Number) NegIntValue() int64 {
	if n.kind != NumberNegInt {
		panic(fmt.Sprintf("jsonvalue: NegIntValue called on %v Number", n.kind))
	}
	return n.neg
}

// FloatValue returns the held value, panicking if Kind() != NumberFloat.
func (n Number) FloatValue() float64 {
	if n.kind != NumberFloat {
		panic(fmt.Sprintf("jsonvalue: FloatValue called on %v Number", n.kind))
	}
	return n.float
}

// AsFloat64 widens any Number representation to float64, for callers that
// don't care about the original integer/float distinction.
func (n Number) AsFloat64() float64 {
	switch n.kind {
	case NumberPosInt:
		return float64(n.pos)
	case NumberNegInt:
		return float64(n.neg)
	default:
		return n.float
	}
}

func (n Number) String() string {
	switch n.kind {
	case NumberPosInt:
		return fmt.Sprintf("%d", n.pos)
	case NumberNegInt:
		return fmt.Sprintf("%d", n.neg)
	default:
		return fmt.Sprintf("%g", n.float)
	}
}

// Value is a tagged union over the six kinds of JSON value. Exactly one
// accessor is valid to call, selected by Kind(); calling the wrong one
// panics, matching the spec's "invariant violations a correctly written
// parser cannot reach" policy — a well-formed tree never mismatches.
type Value struct {
	kind Kind
	b    bool
	num  Number
	str  string
	arr  []SpannedValue
	obj  map[string]SpannedValue
	// keys preserves object member insertion order; obj is keyed by member
	// name for O(1) lookup. Both describe the same members.
	keys []string
}

// SpannedValue pairs a Value with the Span of source text it was parsed
// from, including surrounding structural bytes (quotes, brackets) per
// spec's Span-covers-the-whole-literal convention.
type SpannedValue struct {
	Value Value
	Span  sourcepos.Span
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a Value wrapping b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Num returns a Value wrapping n.
func Num(n Number) Value { return Value{kind: KindNumber, num: n} }

// Str returns a Value wrapping s.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Arr returns a Value wrapping an array of elements, in source order.
func Arr(elems []SpannedValue) Value { return Value{kind: KindArray, arr: elems} }

// Obj returns a Value wrapping an object. keys gives member order as
// encountered in source (spec §9: last-write-wins on duplicate keys, but
// order reflects first occurrence).
func Obj(members map[string]SpannedValue, keys []string) Value {
	return Value{kind: KindObject, obj: members, keys: keys}
}

// Kind reports which production v holds.
func (v Value) Kind() Kind { return v.kind }

func mustKind(v Value, want Kind) {
	if v.kind != want {
		panic(fmt.Sprintf("jsonvalue: expected %v Value, got %v", want, v.kind))
	}
}

// BoolValue returns the held bool, panicking if Kind() != KindBool.
func (v Value) BoolValue() bool {
	mustKind(v, KindBool)
	return v.b
}

// NumberValue returns the held Number, panicking if Kind() != KindNumber.
func (v Value) NumberValue() Number {
	mustKind(v, KindNumber)
	return v.num
}

// StringValue returns the held string, panicking if Kind() != KindString.
func (v Value) StringValue() string {
	mustKind(v, KindString)
	return v.str
}

// ArrayValue returns the held element slice, panicking if Kind() !=
// KindArray. The returned slice shares storage with v; callers must not
// mutate it (spec Non-goal: no post-parse mutation).
func (v Value) ArrayValue() []SpannedValue {
	mustKind(v, KindArray)
	return v.arr
}

// ObjectValue returns the held member map, panicking if Kind() != KindObject.
func (v Value) ObjectValue() map[string]SpannedValue {
	mustKind(v, KindObject)
	return v.obj
}

// ObjectKeys returns object member names in source order, panicking if
// Kind() != KindObject.
func (v Value) ObjectKeys() []string {
	mustKind(v, KindObject)
	return v.keys
}

// At returns v.ArrayValue()[i] and true, or false instead of a panic when i
// is out of range, convenient for validator-style callers walking an
// untrusted index. It still panics if Kind() != KindArray.
func (v Value) At(i int) (SpannedValue, bool) {
	arr := v.ArrayValue()
	if i < 0 || i >= len(arr) {
		return SpannedValue{}, false
	}
	return arr[i], true
}

// Member returns the named object member and whether it is present.
func (v Value) Member(key string) (SpannedValue, bool) {
	obj := v.ObjectValue()
	sv, ok := obj[key]
	return sv, ok
}
