// Package sourcepos tracks a cursor's line/column position over UTF-8 JSON
// source text as it is consumed, and exposes the inclusive (start, end) span
// pairs the rest of this module attaches to every parsed value.
package sourcepos

import (
	"bytes"
	"unicode/utf8"
)

// Position is a 1-indexed line and column. Line counts '\n' bytes; column
// counts Unicode scalar values (runes), not bytes and not UTF-16 code units.
type Position struct {
	Line int
	Col  int
}

// Start is the position of the first byte of a freshly constructed Input.
var Start = Position{Line: 1, Col: 1}

// Span is an inclusive range between two positions. A zero-width span (Start
// == End) anchors a diagnostic to a single point rather than a range.
type Span struct {
	Start Position
	End   Position
}

// Input is an immutable cursor over UTF-8 source bytes. Every method that
// advances the cursor returns a new Input rather than mutating the receiver,
// so callers can freely backtrack during a recoverable parse attempt.
type Input struct {
	data []byte
	pos  int
	at   Position
}

// New returns an Input positioned at the start of data.
func New(data []byte) Input {
	return Input{data: data, pos: 0, at: Start}
}

// Pos returns the current position of the cursor.
func (in Input) Pos() Position { return in.at }

// Offset returns the current byte offset into the original source.
func (in Input) Offset() int { return in.pos }

// Len returns the number of bytes remaining.
func (in Input) Len() int { return len(in.data) - in.pos }

// Done reports whether the cursor has consumed all of the source.
func (in Input) Done() bool { return in.pos >= len(in.data) }

// Rest returns the unconsumed tail of the source.
func (in Input) Rest() []byte { return in.data[in.pos:] }

// PeekByte returns the next unconsumed byte and whether one exists. It does
// not advance the cursor.
func (in Input) PeekByte() (byte, bool) {
	if in.Done() {
		return 0, false
	}
	return in.data[in.pos], true
}

// PeekByteAt returns the byte offset bytes past the cursor, and whether it
// exists, without advancing the cursor.
func (in Input) PeekByteAt(offset int) (byte, bool) {
	idx := in.pos + offset
	if idx < 0 || idx >= len(in.data) {
		return 0, false
	}
	return in.data[idx], true
}

// Advance returns a new Input with the cursor moved past n bytes, updating
// line/column by scanning the consumed range. n must not exceed in.Len().
//
// Column tracks Unicode scalar values: counting runes, not bytes, since '\n'
// is always a standalone ASCII byte and never occurs inside a multi-byte
// UTF-8 sequence, a byte-level scan for it is safe even though the consumed
// range may otherwise contain multi-byte runes.
func (in Input) Advance(n int) Input {
	if n <= 0 {
		return in
	}
	consumed := in.data[in.pos : in.pos+n]
	line, col := in.at.Line, in.at.Col

	rest := consumed
	for {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			col += utf8.RuneCount(rest)
			break
		}
		line++
		col = 1
		rest = rest[idx+1:]
	}

	return Input{data: in.data, pos: in.pos + n, at: Position{Line: line, Col: col}}
}

// AdvanceRune advances past exactly one UTF-8-encoded rune, returning its
// decoded value alongside the new Input. If the cursor is exhausted it
// returns utf8.RuneError with a size-0 advance.
func (in Input) AdvanceRune() (rune, Input) {
	if in.Done() {
		return utf8.RuneError, in
	}
	r, size := utf8.DecodeRune(in.Rest())
	return r, in.Advance(size)
}

// SpanFrom builds a Span starting at start and ending at the last character
// actually consumed moving from start to in, per this module's inclusive-end
// convention (in.at itself is the position one step past that character).
func (in Input) SpanFrom(start Input) Span {
	return Span{Start: start.at, End: in.LastConsumedPos()}
}

// LastConsumedPos returns the position of the byte/rune immediately
// preceding in's own position: the correct inclusive Span end when in sits
// just past the last real character of a construct (e.g. at EOF, or just
// past a closing delimiter). If nothing has been consumed yet, it returns
// in's own (Start) position.
func (in Input) LastConsumedPos() Position {
	if in.pos == 0 {
		return in.at
	}
	_, size := utf8.DecodeLastRune(in.data[:in.pos])
	if size <= 0 {
		size = 1
	}
	return New(in.data).Advance(in.pos - size).Pos()
}

// SliceTo returns the raw bytes consumed moving from in to end, i.e.
// in.data[in.pos:end.pos]. Both must originate from the same Input.
func (in Input) SliceTo(end Input) []byte {
	return in.data[in.pos:end.pos]
}

// Point returns a zero-width Span anchored at the current position.
func (in Input) Point() Span {
	return Span{Start: in.at, End: in.at}
}
