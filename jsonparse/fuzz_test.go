package jsonparse_test

import (
	"bytes"
	"testing"

	"github.com/lattice-substrate/spanjson/jsonadapter"
	"github.com/lattice-substrate/spanjson/jsonparse"
)

// FuzzParseCanonicalRoundTrip checks parse -> canonical -> parse -> canonical
// idempotence: the Serializer Adapter's deterministic output must itself be
// valid input that reduces to the same canonical bytes.
func FuzzParseCanonicalRoundTrip(f *testing.F) {
	seeds := [][]byte{
		[]byte(`null`),
		[]byte(`true`),
		[]byte(`{"a":1,"z":[3,2,1]}`),
		[]byte(`{"":1,"𐀀":2}`),
		[]byte(`"a\/b"`),
		[]byte(`1e21`),
		[]byte(`-0.5`),
		[]byte(`[[[[1]]]]`),
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in []byte) {
		if len(in) > 1<<16 {
			return
		}

		sv, err := jsonparse.Parse(in)
		if err != nil {
			return
		}

		out1, err := jsonadapter.Canonical(sv)
		if err != nil {
			t.Fatalf("Canonical(parsed): %v", err)
		}

		sv2, err := jsonparse.Parse(out1)
		if err != nil {
			t.Fatalf("reparse canonical output: %v", err)
		}
		out2, err := jsonadapter.Canonical(sv2)
		if err != nil {
			t.Fatalf("Canonical (round 2): %v", err)
		}
		if !bytes.Equal(out1, out2) {
			t.Fatalf("non-deterministic canonical bytes: %q vs %q", out1, out2)
		}
	})
}
