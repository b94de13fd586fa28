// Package lsp adapts jsonparse diagnostics to the Language Server Protocol:
// it converts this module's 1-indexed, Unicode-scalar sourcepos.Position
// into LSP's 0-indexed, UTF-16-code-unit protocol.Position, and runs a
// textDocument/didChange -> Parse -> publishDiagnostics server loop.
//
// spec.md's own framing for why spans exist at all — "the primary consumer
// is a validator that must point users to the exact location of an
// offending element" — is realized literally here: an editor is that
// validator, and PublishDiagnostics is how it points.
package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
	"golang.org/x/text/encoding/unicode"

	"github.com/lattice-substrate/spanjson/sourcepos"
)

var utf16Encoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()

// utf16Units returns the number of UTF-16 code units needed to encode s,
// using golang.org/x/text/encoding/unicode rather than hand-rolling
// surrogate-pair counting: each encoded unit is 2 bytes.
func utf16Units(s string) uint32 {
	encoded, err := utf16Encoder.String(s)
	if err != nil {
		// Malformed UTF-8 cannot reach here in practice (text comes from an
		// LSP client's own didOpen/didChange payload), but fall back to a
		// rune count rather than panicking on a diagnostics path.
		return uint32(len([]rune(s)))
	}
	return uint32(len(encoded) / 2)
}

// toLSPPosition converts a 1-indexed, Unicode-scalar-column sourcepos
// Position into LSP's 0-indexed, UTF-16-code-unit-column Position, given the
// full document text.
func toLSPPosition(text string, pos sourcepos.Position) protocol.Position {
	lines := splitLines(text)
	lineIdx := pos.Line - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	if lineIdx >= len(lines) {
		return protocol.Position{Line: uint32(len(lines)), Character: 0}
	}

	line := lines[lineIdx]
	runes := []rune(line)
	col := pos.Col - 1
	if col < 0 {
		col = 0
	}
	if col > len(runes) {
		col = len(runes)
	}
	prefix := string(runes[:col])

	return protocol.Position{Line: uint32(lineIdx), Character: utf16Units(prefix)}
}

// toLSPRange converts a sourcepos.Span to an LSP Range. LSP ranges are
// exclusive on the end; this module's spans are inclusive of the last
// character, so the end position is advanced by one Unicode scalar value
// before conversion.
func toLSPRange(text string, span sourcepos.Span) protocol.Range {
	end := span.End
	end.Col++
	return protocol.Range{
		Start: toLSPPosition(text, span.Start),
		End:   toLSPPosition(text, end),
	}
}

func splitLines(text string) []string {
	lines := []string{}
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	lines = append(lines, text[start:])
	return lines
}
