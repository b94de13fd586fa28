package jsonfloat_test

import (
	"math"
	"testing"

	"github.com/lattice-substrate/spanjson/jsonfloat"
)

func TestFormatKnownValues(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.0, "0"},
		{1, "1"},
		{-1, "-1"},
		{1.5, "1.5"},
		{100, "100"},
		{0.1, "0.1"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{123456789, "123456789"},
	}
	for _, c := range cases {
		got, err := jsonfloat.Format(c.in)
		if err != nil {
			t.Fatalf("Format(%v) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Format(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := jsonfloat.Format(v); err != jsonfloat.ErrNotFinite {
			t.Errorf("Format(%v) error = %v, want ErrNotFinite", v, err)
		}
	}
}
