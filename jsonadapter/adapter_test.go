package jsonadapter_test

import (
	"testing"

	"github.com/lattice-substrate/spanjson/internal/testutil/golden"
	"github.com/lattice-substrate/spanjson/jsonadapter"
	"github.com/lattice-substrate/spanjson/jsonparse"
	"github.com/lattice-substrate/spanjson/jsonvalue"
)

func parseSV(t *testing.T, input string) *jsonvalue.SpannedValue {
	t.Helper()
	sv, err := jsonparse.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return sv
}

func TestLowerDropsSpansAndKeepsStructure(t *testing.T) {
	sv := parseSV(t, `{"a":1,"b":[true,null,"x"]}`)
	lowered, ok := jsonadapter.Lower(sv).(map[string]any)
	if !ok {
		t.Fatalf("Lower() = %T, want map[string]any", jsonadapter.Lower(sv))
	}
	if lowered["a"] != uint64(1) {
		t.Errorf(`lowered["a"] = %v, want uint64(1)`, lowered["a"])
	}
	b, ok := lowered["b"].([]any)
	if !ok || len(b) != 3 {
		t.Fatalf(`lowered["b"] = %v, want a 3-element []any`, lowered["b"])
	}
	if b[0] != true || b[1] != nil || b[2] != "x" {
		t.Errorf("lowered[\"b\"] = %v, want [true nil x]", b)
	}
}

func TestCanonicalIsDeterministicUnderMemberReordering(t *testing.T) {
	sv1 := parseSV(t, `{"b":2,"a":1}`)
	sv2 := parseSV(t, `{"a":1,"b":2}`)

	out1, err := jsonadapter.Canonical(sv1)
	if err != nil {
		t.Fatalf("Canonical(sv1) failed: %v", err)
	}
	out2, err := jsonadapter.Canonical(sv2)
	if err != nil {
		t.Fatalf("Canonical(sv2) failed: %v", err)
	}
	if string(out1) != string(out2) {
		t.Fatalf("Canonical differs by member order: %q vs %q", out1, out2)
	}
	const want = `{"a":1,"b":2}`
	if string(out1) != want {
		t.Fatalf("Canonical = %q, want %q", out1, want)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	sv := parseSV(t, `[1,2.5,"x\n",null,true,false,{"k":[]}]`)
	out, err := jsonadapter.Canonical(sv)
	if err != nil {
		t.Fatalf("Canonical failed: %v", err)
	}
	reparsed := parseSV(t, string(out))
	out2, err := jsonadapter.Canonical(reparsed)
	if err != nil {
		t.Fatalf("Canonical (round 2) failed: %v", err)
	}
	if string(out) != string(out2) {
		t.Fatalf("canonical output not idempotent: %q vs %q", out, out2)
	}
}

func TestCanonicalMatchesGoldenFixture(t *testing.T) {
	sv := parseSV(t, `{"z":1,"a":[1,2,3],"m":{"y":2,"x":1},"s":"hi"}`)
	out, err := jsonadapter.Canonical(sv)
	if err != nil {
		t.Fatalf("Canonical failed: %v", err)
	}
	golden.Assert(t, "testdata/canonical_fixture.golden", out)
}
