// Command jsonspan parses a JSON file and reports whether it is well-formed,
// printing the first diagnostic's start position, kind and message on
// failure.
//
// Usage:
//
//	jsonspan <path-to-json-file>
//	jsonspan --version
//
// Exit codes: 0 on success, 1 on any parse failure or usage error.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lattice-substrate/spanjson/jsonerr"
	"github.com/lattice-substrate/spanjson/jsonparse"
)

var version = "v0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 1 && args[0] == "--version" {
		_ = writeLine(stdout, "jsonspan "+version)
		return 0
	}
	if len(args) != 1 {
		_ = writeLine(stderr, "usage: jsonspan <path-to-json-file>")
		return 1
	}

	input, err := readInput(args[0], stdin)
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}

	if _, err := jsonparse.Parse(input); err != nil {
		return writeClassifiedError(stderr, err)
	}
	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeClassifiedError(stderr io.Writer, err error) int {
	var jerr *jsonerr.Error
	if errors.As(err, &jerr) {
		_ = writef(stderr, "%s:%d:%d: %s: %s\n",
			"<input>", jerr.Span.Start.Line, jerr.Span.Start.Col, jerr.Kind, jerr.Message)
		return 1
	}
	_ = writef(stderr, "error: %v\n", err)
	return 1
}

func writeLine(w io.Writer, s string) error {
	return writef(w, "%s\n", s)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
