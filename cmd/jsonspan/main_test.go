package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunUsageExitCode(t *testing.T) {
	var stderr bytes.Buffer
	code := run(nil, strings.NewReader(""), &bytes.Buffer{}, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "usage:") {
		t.Fatalf("expected usage output, got %q", stderr.String())
	}
}

func TestRunVersionExitZero(t *testing.T) {
	var stdout bytes.Buffer
	code := run([]string{"--version"}, strings.NewReader(""), &stdout, &bytes.Buffer{})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "jsonspan") {
		t.Fatalf("expected version output, got %q", stdout.String())
	}
}

func TestRunValidFileExitZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "valid.json")
	if err := os.WriteFile(path, []byte(`{"a":[1,2,3]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var stderr bytes.Buffer
	code := run([]string{path}, strings.NewReader(""), &bytes.Buffer{}, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %q)", code, stderr.String())
	}
}

func TestRunInvalidFileReportsSpan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(path, []byte(`{"a":1`), 0o644); err != nil {
		t.Fatal(err)
	}
	var stderr bytes.Buffer
	code := run([]string{path}, strings.NewReader(""), &bytes.Buffer{}, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "missing-object-bracket") {
		t.Fatalf("expected missing-object-bracket in output, got %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "<input>:1:1:") {
		t.Fatalf("expected span start <input>:1:1: in output, got %q", stderr.String())
	}
}

func TestRunReadsFromStdin(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"-"}, strings.NewReader("null"), &bytes.Buffer{}, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %q)", code, stderr.String())
	}
}

func TestRunMissingFile(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "missing.json")}, strings.NewReader(""), &bytes.Buffer{}, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}
