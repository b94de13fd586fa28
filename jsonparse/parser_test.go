package jsonparse_test

import (
	"errors"
	"testing"

	"github.com/lattice-substrate/spanjson/jsonerr"
	"github.com/lattice-substrate/spanjson/jsonparse"
	"github.com/lattice-substrate/spanjson/jsonvalue"
)

func mustParse(t *testing.T, input string) *jsonvalue.SpannedValue {
	t.Helper()
	sv, err := jsonparse.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", input, err)
	}
	return sv
}

func mustParseErr(t *testing.T, input string) *jsonerr.Error {
	t.Helper()
	sv, err := jsonparse.Parse([]byte(input))
	if err == nil {
		t.Fatalf("Parse(%q) = %+v, want error", input, sv)
	}
	var jerr *jsonerr.Error
	if !errors.As(err, &jerr) {
		t.Fatalf("Parse(%q) returned non-*jsonerr.Error: %v (%T)", input, err, err)
	}
	return jerr
}

func TestParseScalars(t *testing.T) {
	cases := []struct {
		input string
		kind  jsonvalue.Kind
	}{
		{"null", jsonvalue.KindNull},
		{"true", jsonvalue.KindBool},
		{"false", jsonvalue.KindBool},
		{"0", jsonvalue.KindNumber},
		{`"hello"`, jsonvalue.KindString},
		{"[]", jsonvalue.KindArray},
		{"{}", jsonvalue.KindObject},
	}
	for _, c := range cases {
		sv := mustParse(t, c.input)
		if sv.Value.Kind() != c.kind {
			t.Errorf("Parse(%q).Kind() = %v, want %v", c.input, sv.Value.Kind(), c.kind)
		}
	}
}

func TestParseRootSpanCoversWholeLiteral(t *testing.T) {
	sv := mustParse(t, "true")
	if sv.Span.Start.Line != 1 || sv.Span.Start.Col != 1 {
		t.Fatalf("Span.Start = %+v, want {1 1}", sv.Span.Start)
	}
	if sv.Span.End.Line != 1 || sv.Span.End.Col != 4 {
		t.Fatalf("Span.End = %+v, want {1 4} (the final 'e')", sv.Span.End)
	}
}

func TestParseNumberKinds(t *testing.T) {
	sv := mustParse(t, "42")
	if got := sv.Value.NumberValue().Kind(); got != jsonvalue.NumberPosInt {
		t.Errorf("42 -> NumberKind = %v, want NumberPosInt", got)
	}
	sv = mustParse(t, "-7")
	if got := sv.Value.NumberValue().Kind(); got != jsonvalue.NumberNegInt {
		t.Errorf("-7 -> NumberKind = %v, want NumberNegInt", got)
	}
	sv = mustParse(t, "3.5")
	if got := sv.Value.NumberValue().Kind(); got != jsonvalue.NumberFloat {
		t.Errorf("3.5 -> NumberKind = %v, want NumberFloat", got)
	}
	sv = mustParse(t, "1e3")
	if got := sv.Value.NumberValue().Kind(); got != jsonvalue.NumberFloat {
		t.Errorf("1e3 -> NumberKind = %v, want NumberFloat", got)
	}
}

func TestParseNumberOverflowWidensToFloat(t *testing.T) {
	sv := mustParse(t, "99999999999999999999999999999")
	num := sv.Value.NumberValue()
	if num.Kind() != jsonvalue.NumberFloat {
		t.Fatalf("overflowing integer literal -> NumberKind = %v, want NumberFloat", num.Kind())
	}
}

func TestParseStringEscapes(t *testing.T) {
	sv := mustParse(t, `"a\tbA\n"`)
	if got, want := sv.Value.StringValue(), "a\tbA\n"; got != want {
		t.Fatalf("StringValue() = %q, want %q", got, want)
	}
}

func TestParseStringSurrogatePair(t *testing.T) {
	sv := mustParse(t, `"😀"`)
	if got, want := sv.Value.StringValue(), "\U0001F600"; got != want {
		t.Fatalf("StringValue() = %q, want %q", got, want)
	}
}

func TestParseStringEscapedSurrogatePair(t *testing.T) {
	sv := mustParse(t, "\"\\uD83D\\uDE00\"")
	if got, want := sv.Value.StringValue(), "\U0001F600"; got != want {
		t.Fatalf("StringValue() = %q, want %q", got, want)
	}
}

func TestParseStringLoneSurrogateRejected(t *testing.T) {
	mustParseErr(t, `"\uD800"`)
}

func TestParseArrayAndObject(t *testing.T) {
	sv := mustParse(t, `{"a":1,"b":[2,3]}`)
	obj := sv.Value
	a, ok := obj.Member("a")
	if !ok || a.Value.NumberValue().PosIntValue() != 1 {
		t.Fatalf("member a = %v, %v", a, ok)
	}
	b, ok := obj.Member("b")
	if !ok || b.Value.Kind() != jsonvalue.KindArray {
		t.Fatalf("member b = %v, %v", b, ok)
	}
	if len(b.Value.ArrayValue()) != 2 {
		t.Fatalf("len(b) = %d, want 2", len(b.Value.ArrayValue()))
	}
}

func TestDuplicateKeyLastWriteWins(t *testing.T) {
	sv := mustParse(t, `{"a":1,"a":2}`)
	a, ok := sv.Value.Member("a")
	if !ok || a.Value.NumberValue().PosIntValue() != 2 {
		t.Fatalf("member a = %v, %v, want 2", a, ok)
	}
	if keys := sv.Value.ObjectKeys(); len(keys) != 1 || keys[0] != "a" {
		t.Fatalf("ObjectKeys() = %v, want [a]", keys)
	}
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		name  string
		input string
		kind  jsonerr.Kind
	}{
		{"missing closing quote", `"unterminated`, jsonerr.MissingQuote},
		{"missing array bracket", `[1,2`, jsonerr.MissingArrayBracket},
		{"missing object bracket", `{"a":1`, jsonerr.MissingObjectBracket},
		{"missing comma in array", `[1 2]`, jsonerr.MissingComma},
		{"missing colon", `{"a" 1}`, jsonerr.MissingColon},
		{"invalid key", `{1:2}`, jsonerr.InvalidKey},
		{"invalid value", `{"a":}`, jsonerr.InvalidValue},
		{"not an hex", `"\u00zz"`, jsonerr.NotAnHex},
		{"chars after root", `1 2`, jsonerr.CharsAfterRoot},
		{"trailing comma array", `[1,]`, jsonerr.TrailingComma},
		{"trailing comma object", `{"a":1,}`, jsonerr.TrailingComma},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			jerr := mustParseErr(t, c.input)
			if jerr.Kind != c.kind {
				t.Fatalf("Kind = %v, want %v (err: %v)", jerr.Kind, c.kind, jerr)
			}
		})
	}
}

func TestLeadingZeroRejected(t *testing.T) {
	mustParseErr(t, "01")
}

func TestMaxDepthExceeded(t *testing.T) {
	deep := ""
	for i := 0; i < 600; i++ {
		deep += "["
	}
	_, err := jsonparse.Parse([]byte(deep))
	if err == nil {
		t.Fatal("expected max depth error, got nil")
	}
}

func TestWithMaxDepthOption(t *testing.T) {
	_, err := jsonparse.Parse([]byte("[[[1]]]"), jsonparse.WithMaxDepth(2))
	if err == nil {
		t.Fatal("expected depth-limit error with WithMaxDepth(2)")
	}
	if _, err := jsonparse.Parse([]byte("[[[1]]]"), jsonparse.WithMaxDepth(10)); err != nil {
		t.Fatalf("Parse with generous depth limit failed: %v", err)
	}
}

func TestWhitespaceAroundRootIsPermitted(t *testing.T) {
	if _, err := jsonparse.Parse([]byte("  \n\t null \n")); err != nil {
		t.Fatalf("Parse with surrounding whitespace failed: %v", err)
	}
}
