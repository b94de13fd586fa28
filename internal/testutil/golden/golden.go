// Package golden implements golden-file assertions for tests: compare
// computed output against a checked-in fixture, or rewrite the fixture when
// run with -update.
//
// The write path is adapted from the atomic temp-file-plus-rename pattern
// used to persist canonical output in this module's domain: a fixture update
// is never left half-written if the test binary is killed mid-run.
package golden

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

var update = flag.Bool("update", false, "rewrite golden fixtures with current output")

// Assert compares got against the fixture at path (relative to the calling
// package's directory, e.g. "testdata/name.golden"). With -update, it rewrites the fixture
// instead of comparing and the test passes.
func Assert(t *testing.T, path string, got []byte) {
	t.Helper()

	if *update {
		if err := writeAtomic(path, got); err != nil {
			t.Fatalf("golden: update %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("golden: read %s: %v (run with -update to create it)", path, err)
	}
	if string(want) != string(got) {
		t.Fatalf("golden: %s mismatch\n--- want ---\n%s\n--- got ---\n%s", path, want, got)
	}
}

// writeAtomic writes data to path via a temp file in the same directory
// followed by a rename, so a fixture file is never left truncated.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".golden-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
