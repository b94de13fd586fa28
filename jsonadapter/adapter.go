// Package jsonadapter implements the Serializer Adapter: a one-way lowering
// of a span-annotated jsonvalue tree to interface-level data (Lower), and a
// deterministic byte re-serialization (Canonical) used by the round-trip
// tests and the parse/canonicalize fuzz target. Neither function
// feeds back into jsonparse.Parse; spans are dropped, never reconstructed.
package jsonadapter

import (
	"fmt"
	"sort"
	"unicode/utf16"

	"github.com/lattice-substrate/spanjson/jsonfloat"
	"github.com/lattice-substrate/spanjson/jsonvalue"
)

// Lower converts a SpannedValue tree into a generic JSON-compatible value —
// nil, bool, json.Number-free float64/int64/uint64, string, []any, or
// map[string]any — suitable for handing to encoding/json, text/template, or
// any other consumer that only wants data, not provenance.
func Lower(sv *jsonvalue.SpannedValue) any {
	return lowerValue(sv.Value)
}

func lowerValue(v jsonvalue.Value) any {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return nil
	case jsonvalue.KindBool:
		return v.BoolValue()
	case jsonvalue.KindNumber:
		return lowerNumber(v.NumberValue())
	case jsonvalue.KindString:
		return v.StringValue()
	case jsonvalue.KindArray:
		elems := v.ArrayValue()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = lowerValue(e.Value)
		}
		return out
	case jsonvalue.KindObject:
		out := make(map[string]any, len(v.ObjectValue()))
		for k, m := range v.ObjectValue() {
			out[k] = lowerValue(m.Value)
		}
		return out
	default:
		panic(fmt.Sprintf("jsonadapter: unknown value kind %v", v.Kind()))
	}
}

func lowerNumber(n jsonvalue.Number) any {
	switch n.Kind() {
	case jsonvalue.NumberPosInt:
		return n.PosIntValue()
	case jsonvalue.NumberNegInt:
		return n.NegIntValue()
	default:
		return n.FloatValue()
	}
}

// Canonical re-serializes v to bytes with no insignificant whitespace and
// object members sorted by UTF-16 code-unit order, so that two trees with
// the same content always produce byte-identical output regardless of
// source member order. This determinism is a test-support device (round-
// trip tests and fuzzing) — it is not a formatting-
// preservation feature and has no effect on Parse.
func Canonical(sv *jsonvalue.SpannedValue) ([]byte, error) {
	return appendValue(nil, sv.Value)
}

func appendValue(buf []byte, v jsonvalue.Value) ([]byte, error) {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return append(buf, "null"...), nil
	case jsonvalue.KindBool:
		if v.BoolValue() {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case jsonvalue.KindNumber:
		return appendNumber(buf, v.NumberValue())
	case jsonvalue.KindString:
		return appendString(buf, v.StringValue()), nil
	case jsonvalue.KindArray:
		return appendArray(buf, v.ArrayValue())
	case jsonvalue.KindObject:
		return appendObject(buf, v.ObjectValue())
	default:
		return nil, fmt.Errorf("jsonadapter: unknown value kind %v", v.Kind())
	}
}

func appendNumber(buf []byte, n jsonvalue.Number) ([]byte, error) {
	switch n.Kind() {
	case jsonvalue.NumberPosInt:
		return append(buf, fmt.Sprintf("%d", n.PosIntValue())...), nil
	case jsonvalue.NumberNegInt:
		return append(buf, fmt.Sprintf("%d", n.NegIntValue())...), nil
	default:
		s, err := jsonfloat.Format(n.FloatValue())
		if err != nil {
			return nil, fmt.Errorf("jsonadapter: %w", err)
		}
		return append(buf, s...), nil
	}
}

// appendString escapes the JSON-mandatory characters (quote, backslash,
// and control characters below U+0020) and copies everything else through
// as raw UTF-8. Unlike a canonicalizer, it does not impose an escaping
// policy on the solidus or on any character above U+001F.
func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for _, r := range s {
		switch r {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\r':
			buf = append(buf, '\\', 'r')
		default:
			if r < 0x20 {
				buf = append(buf, fmt.Sprintf(`\u%04x`, r)...)
				continue
			}
			buf = append(buf, string(r)...)
		}
	}
	buf = append(buf, '"')
	return buf
}

func appendArray(buf []byte, elems []jsonvalue.SpannedValue) ([]byte, error) {
	buf = append(buf, '[')
	for i, e := range elems {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		buf, err = appendValue(buf, e.Value)
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, ']')
	return buf, nil
}

func appendObject(buf []byte, members map[string]jsonvalue.SpannedValue) ([]byte, error) {
	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return compareUTF16(keys[i], keys[j]) < 0
	})

	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendString(buf, k)
		buf = append(buf, ':')
		var err error
		buf, err = appendValue(buf, members[k].Value)
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, '}')
	return buf, nil
}

func compareUTF16(a, b string) int {
	ua, ub := utf16.Encode([]rune(a)), utf16.Encode([]rune(b))
	n := len(ua)
	if len(ub) < n {
		n = len(ub)
	}
	for i := 0; i < n; i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ua) < len(ub):
		return -1
	case len(ua) > len(ub):
		return 1
	default:
		return 0
	}
}
