// Package jsonerr defines the closed set of diagnostics the parser surfaces,
// each carrying a Span pointing at the offending source range.
package jsonerr

import (
	"fmt"

	"github.com/lattice-substrate/spanjson/sourcepos"
)

// Kind is a closed enum of diagnostic kinds. LowLevel and Pending never
// escape the parser: they are raised by low-level scanning helpers and
// always remapped to a surfaced Kind, carrying the span of the enclosing
// construct, before Parse returns.
type Kind int

const (
	// LowLevel marks a scanner-level failure (e.g. "expected digit") that has
	// not yet been attributed to a named construct. Internal only.
	LowLevel Kind = iota
	// Pending marks a deferred failure, such as a platform int/float parse
	// rejecting a numeral the scanner already accepted lexically. Internal
	// only; always remapped before Parse returns.
	Pending

	// MissingQuote: a string value or object key was not closed with `"`.
	MissingQuote
	// MissingArrayBracket: an array was not closed with `]`.
	MissingArrayBracket
	// MissingObjectBracket: an object was not closed with `}`.
	MissingObjectBracket
	// MissingComma: two array elements, or two object members, were not
	// separated by `,`.
	MissingComma
	// MissingColon: an object member's key was not followed by `:`.
	MissingColon
	// InvalidKey: an object member's key was not a JSON string.
	InvalidKey
	// InvalidValue: a value could not be parsed as any of the seven JSON
	// value productions.
	InvalidValue
	// NotAnHex: a `\u` escape was not followed by four hex digits.
	NotAnHex
	// CharsAfterRoot: non-whitespace bytes followed the root value.
	CharsAfterRoot
	// TrailingComma: an array or object ended with a comma before its
	// closing delimiter.
	TrailingComma
)

func (k Kind) String() string {
	switch k {
	case LowLevel:
		return "low-level"
	case Pending:
		return "pending"
	case MissingQuote:
		return "missing-quote"
	case MissingArrayBracket:
		return "missing-array-bracket"
	case MissingObjectBracket:
		return "missing-object-bracket"
	case MissingComma:
		return "missing-comma"
	case MissingColon:
		return "missing-colon"
	case InvalidKey:
		return "invalid-key"
	case InvalidValue:
		return "invalid-value"
	case NotAnHex:
		return "not-an-hex"
	case CharsAfterRoot:
		return "chars-after-root"
	case TrailingComma:
		return "trailing-comma"
	default:
		return "unknown"
	}
}

// Surfaced reports whether a Kind is one Parse is allowed to return to a
// caller. LowLevel and Pending must be remapped first.
func (k Kind) Surfaced() bool {
	return k != LowLevel && k != Pending
}

// Error is the single diagnostic type the parser returns. It implements
// error and Unwrap, so callers can walk a remapped chain with errors.As/Is
// back to the low-level cause that prompted it.
type Error struct {
	Kind    Kind
	Span    sourcepos.Span
	Message string
	Cause   error
}

// New builds an Error with no wrapped cause.
func New(kind Kind, span sourcepos.Span, message string) *Error {
	return &Error{Kind: kind, Span: span, Message: message}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, span sourcepos.Span, format string, args ...any) *Error {
	return New(kind, span, fmt.Sprintf(format, args...))
}

// Wrap builds an Error that remaps cause to kind and span, preserving cause
// for Unwrap. Used when a LowLevel/Pending failure from an inner production
// is attributed to the span of an enclosing construct.
func Wrap(kind Kind, span sourcepos.Span, message string, cause error) *Error {
	return &Error{Kind: kind, Span: span, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s at %d:%d", e.Kind, e.Span.Start.Line, e.Span.Start.Col)
	}
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Span.Start.Line, e.Span.Start.Col, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Remap returns a copy of e with Kind and Span replaced, used to attribute a
// LowLevel/Pending failure raised deep in a production to the span of the
// construct the caller was attempting to parse. The original error is kept
// as Cause.
func Remap(kind Kind, span sourcepos.Span, message string, inner error) *Error {
	return Wrap(kind, span, message, inner)
}
