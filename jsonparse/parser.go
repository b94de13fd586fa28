// Package jsonparse implements the hand-written recursive-descent JSON
// parser at the core of this module: it turns UTF-8 source bytes into a
// jsonvalue.SpannedValue tree where every scalar, array, and object carries
// the source span it was parsed from.
//
// The parser follows a commit/retry discipline. value's dispatch byte
// ('{', '[', '"', a digit, '-', or the first letter of a keyword)
// deterministically selects one of the seven productions; once selected,
// failure inside that production is fatal (it is never retried as a
// different production) and is remapped to one of the closed jsonerr.Kind
// values, carrying the span of the construct the parser had committed to.
package jsonparse

import (
	"fmt"
	"strconv"

	"github.com/lattice-substrate/spanjson/jsonerr"
	"github.com/lattice-substrate/spanjson/jsonvalue"
	"github.com/lattice-substrate/spanjson/sourcepos"
)

// DefaultMaxDepth is the recursion depth cap applied when Limits.MaxDepth is
// left at its zero value. It bounds array/object nesting so that adversarial
// input cannot exhaust the goroutine stack.
const DefaultMaxDepth = 512

// Limits configures resource bounds on a Parse call.
type Limits struct {
	// MaxDepth caps array/object nesting depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Option configures a Parse call.
type Option func(*Limits)

// WithMaxDepth overrides the default nesting depth cap.
func WithMaxDepth(depth int) Option {
	return func(l *Limits) { l.MaxDepth = depth }
}

// Parse parses data as a single JSON value and returns its span-annotated
// tree. Leading and trailing whitespace around the root value is permitted;
// any other trailing bytes are a CharsAfterRoot error. Parse recovers
// nothing past the first fatal diagnostic (spec Non-goal: no error
// recovery).
func Parse(data []byte, opts ...Option) (*jsonvalue.SpannedValue, error) {
	limits := Limits{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&limits)
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = DefaultMaxDepth
	}

	p := &parser{in: sourcepos.New(data), maxDepth: limits.MaxDepth}
	p.skipWhitespace()

	sv, err := p.parseValue()
	if err != nil {
		if jerr, ok := err.(*jsonerr.Error); ok && !jerr.Kind.Surfaced() {
			panic(fmt.Sprintf("jsonparse: internal %v error escaped unmapped: %v", jerr.Kind, jerr))
		}
		return nil, err
	}

	p.skipWhitespace()
	if !p.in.Done() {
		trailingStart := p.in
		var lastPos sourcepos.Position
		for !p.in.Done() {
			_, lastPos = p.consumeRune()
		}
		trailing := string(trailingStart.SliceTo(p.in))
		return nil, jsonerr.Newf(jsonerr.CharsAfterRoot, sourcepos.Span{Start: trailingStart.Pos(), End: lastPos},
			"unexpected characters after root value: %q", trailing)
	}
	return sv, nil
}

type parser struct {
	in       sourcepos.Input
	depth    int
	maxDepth int
}

func (p *parser) peek() (byte, bool) { return p.in.PeekByte() }

// consumeByte advances past one byte and returns that byte's own position,
// suitable as a Span.End for single-byte constructs.
func (p *parser) consumeByte() sourcepos.Position {
	pos := p.in.Pos()
	p.in = p.in.Advance(1)
	return pos
}

// consumeRune advances past one UTF-8 rune and returns it alongside its own
// position.
func (p *parser) consumeRune() (rune, sourcepos.Position) {
	pos := p.in.Pos()
	r, next := p.in.AdvanceRune()
	p.in = next
	return r, pos
}

func (p *parser) skipWhitespace() {
	for {
		b, ok := p.peek()
		if !ok {
			return
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			p.in = p.in.Advance(1)
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isDelimiter reports whether b terminates a value/key/keyword token: either
// whitespace or one of the structural bytes legally allowed to follow one.
// Used to bound the "consume to delimiter, then parse the whole token"
// recovery scan so a malformed token like 123ab is reported as a single
// InvalidValue rather than a valid prefix plus a stray suffix.
func isDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', ',', ':', ']', '}':
		return true
	}
	return false
}

// scanToDelimiter consumes runes from the current position up to (but not
// including) the next delimiter byte or end of input. ok is false if the
// cursor was already sitting at a delimiter or EOF, in which case nothing is
// consumed and token/end are zero.
func (p *parser) scanToDelimiter() (token string, end sourcepos.Position, ok bool) {
	begin := p.in
	for {
		b, peeked := p.peek()
		if !peeked || isDelimiter(b) {
			break
		}
		_, end = p.consumeRune()
		ok = true
	}
	return string(begin.SliceTo(p.in)), end, ok
}

// parseValue dispatches on the next byte to one of the seven productions.
func (p *parser) parseValue() (*jsonvalue.SpannedValue, error) {
	start := p.in
	b, ok := p.peek()
	if !ok {
		return nil, jsonerr.New(jsonerr.InvalidValue, start.Point(), "unexpected end of input, expected a value")
	}

	switch {
	case b == '{':
		return p.parseObject(start)
	case b == '[':
		return p.parseArray(start)
	case b == '"':
		return p.parseString(start)
	case b == 't':
		return p.parseKeyword(start, "true", jsonvalue.Bool(true))
	case b == 'f':
		return p.parseKeyword(start, "false", jsonvalue.Bool(false))
	case b == 'n':
		return p.parseKeyword(start, "null", jsonvalue.Null())
	case b == '-' || isDigit(b):
		return p.parseNumber(start)
	case isDelimiter(b):
		// A structural byte sits where a value was expected (e.g. a stray
		// ',' in an array); there is no token text to extend, so the
		// offending byte itself is the whole report.
		_, end := p.consumeRune()
		return nil, jsonerr.Newf(jsonerr.InvalidValue, sourcepos.Span{Start: start.Pos(), End: end},
			"unexpected character %q, expected a value", b)
	default:
		token, end, _ := p.scanToDelimiter()
		return nil, jsonerr.Newf(jsonerr.InvalidValue, sourcepos.Span{Start: start.Pos(), End: end},
			"invalid value %q", token)
	}
}

// parseKeyword matches word starting at the already-dispatched first byte.
// On a mismatch, any remaining non-delimiter bytes are folded into the
// already-matched prefix and the whole token is reported as one
// InvalidValue, so e.g. "truthy" is reported as a single malformed token
// rather than "true" followed by a stray "thy".
func (p *parser) parseKeyword(start sourcepos.Input, word string, value jsonvalue.Value) (*jsonvalue.SpannedValue, error) {
	last := start.Pos()
	for i := 0; i < len(word); i++ {
		b, ok := p.peek()
		if !ok || b != word[i] {
			if _, scannedEnd, scanned := p.scanToDelimiter(); scanned {
				last = scannedEnd
			}
			token := string(start.SliceTo(p.in))
			return nil, jsonerr.Newf(jsonerr.InvalidValue, sourcepos.Span{Start: start.Pos(), End: last},
				"invalid value %q", token)
		}
		last = p.consumeByte()
	}
	if b, ok := p.peek(); ok && !isDelimiter(b) {
		_, last, _ = p.scanToDelimiter()
		token := string(start.SliceTo(p.in))
		return nil, jsonerr.Newf(jsonerr.InvalidValue, sourcepos.Span{Start: start.Pos(), End: last},
			"invalid value %q", token)
	}
	return &jsonvalue.SpannedValue{Value: value, Span: sourcepos.Span{Start: start.Pos(), End: last}}, nil
}

// parseNumber implements the `number` production using consume-then-parse:
// the whole token is scanned up to the next delimiter first, then the
// captured text is validated against the number grammar. This way a
// malformed token like "123ab" is reported as one InvalidValue spanning the
// entire token, rather than a valid "123" followed by a stray "ab".
func (p *parser) parseNumber(start sourcepos.Input) (*jsonvalue.SpannedValue, error) {
	token, end, _ := p.scanToDelimiter()
	span := sourcepos.Span{Start: start.Pos(), End: end}

	negative, hasFraction, hasExponent, gerr := parseNumberGrammar(token)
	if gerr != nil {
		return nil, jsonerr.Remap(jsonerr.InvalidValue, span, fmt.Sprintf("invalid number literal %q", token), gerr)
	}

	num, err := buildNumber(token, negative, hasFraction, hasExponent)
	if err != nil {
		pending := jsonerr.Wrap(jsonerr.Pending, sourcepos.Span{}, "platform float parse rejected numeral", err)
		return nil, jsonerr.Remap(jsonerr.InvalidValue, span, fmt.Sprintf("invalid number literal %q", token), pending)
	}
	return &jsonvalue.SpannedValue{Value: jsonvalue.Num(num), Span: span}, nil
}

// parseNumberGrammar validates token against the `number` production: an
// optional '-' sign, an integer part (a lone '0' or a non-zero digit
// followed by digits, never a leading zero before further digits), an
// optional fraction, an optional exponent, and nothing else. It reports a
// LowLevel failure (no position of its own — the caller owns the token's
// span) on the first grammar violation; it does not consume from a parser,
// since by the time it runs the whole token has already been scanned off
// the input.
func parseNumberGrammar(token string) (negative, hasFraction, hasExponent bool, err error) {
	i, n := 0, len(token)

	if i < n && token[i] == '-' {
		negative = true
		i++
	}
	if i >= n || !isDigit(token[i]) {
		return negative, false, false, jsonerr.New(jsonerr.LowLevel, sourcepos.Span{}, "expected a digit")
	}
	if token[i] == '0' {
		i++
	} else {
		for i < n && isDigit(token[i]) {
			i++
		}
	}

	if i < n && token[i] == '.' {
		i++
		fracStart := i
		for i < n && isDigit(token[i]) {
			i++
		}
		if i == fracStart {
			return negative, false, false, jsonerr.New(jsonerr.LowLevel, sourcepos.Span{}, "expected digits after decimal point")
		}
		hasFraction = true
	}

	if i < n && (token[i] == 'e' || token[i] == 'E') {
		i++
		if i < n && (token[i] == '+' || token[i] == '-') {
			i++
		}
		expStart := i
		for i < n && isDigit(token[i]) {
			i++
		}
		if i == expStart {
			return negative, hasFraction, false, jsonerr.New(jsonerr.LowLevel, sourcepos.Span{}, "expected digits after exponent sign")
		}
		hasExponent = true
	}

	if i != n {
		return negative, hasFraction, hasExponent, jsonerr.New(jsonerr.LowLevel, sourcepos.Span{}, "unexpected trailing characters in number")
	}
	return negative, hasFraction, hasExponent, nil
}

// buildNumber converts the matched numeral text into a Number, preferring
// an exact integer representation and widening to Float only when the
// literal has a fraction/exponent or its integer part overflows the
// platform's 64-bit integer range. Overflow is itself a "platform parser
// rejects a numeral the scanner already accepted lexically" case (the
// internal Pending condition), resolved here by falling back to Float
// rather than surfacing an error.
func buildNumber(literal string, negative, hasFraction, hasExponent bool) (jsonvalue.Number, error) {
	if !hasFraction && !hasExponent {
		if !negative {
			if v, err := strconv.ParseUint(literal, 10, 64); err == nil {
				return jsonvalue.PosInt(v), nil
			}
		} else {
			if v, err := strconv.ParseInt(literal, 10, 64); err == nil {
				if v == 0 {
					return jsonvalue.PosInt(0), nil
				}
				return jsonvalue.NegInt(v), nil
			}
		}
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return jsonvalue.Number{}, err
	}
	return jsonvalue.Float(f), nil
}

// parseString implements the `string` production. The opening quote has
// already been confirmed present by the caller's dispatch (either value's
// dispatch on '"', or key_value's explicit check); this method consumes it.
func (p *parser) parseString(start sourcepos.Input) (*jsonvalue.SpannedValue, error) {
	s, end, err := p.scanStringBody(start)
	if err != nil {
		return nil, err
	}
	return &jsonvalue.SpannedValue{Value: jsonvalue.Str(s), Span: sourcepos.Span{Start: start.Pos(), End: end}}, nil
}

// scanStringBody consumes the opening quote, the body (handling escapes),
// and the closing quote, returning the decoded text and the position of the
// closing quote.
func (p *parser) scanStringBody(start sourcepos.Input) (string, sourcepos.Position, error) {
	p.in = p.in.Advance(1) // opening quote, already verified by caller.

	var buf []rune
	for {
		b, ok := p.peek()
		if !ok {
			return "", sourcepos.Position{}, jsonerr.New(jsonerr.MissingQuote, p.in.SpanFrom(start),
				"unterminated string: missing closing quote")
		}
		if b == '"' {
			closePos := p.consumeByte()
			return string(buf), closePos, nil
		}
		if b == '\\' {
			r, err := p.parseEscape(start)
			if err != nil {
				return "", sourcepos.Position{}, err
			}
			buf = append(buf, r)
			continue
		}
		if b < 0x20 {
			return "", sourcepos.Position{}, jsonerr.Newf(jsonerr.InvalidValue, p.in.Point(),
				"unescaped control character 0x%02x in string", b)
		}
		r, _ := p.consumeRune()
		buf = append(buf, r)
	}
}

// parseEscape handles one '\' escape sequence, including \uXXXX and
// surrogate-pair combination. Lone (unpaired) surrogates are rejected: this
// parser's one deliberate tightening beyond the bare JSON grammar, which
// technically permits an unpaired escaped surrogate.
func (p *parser) parseEscape(stringStart sourcepos.Input) (rune, error) {
	p.in = p.in.Advance(1) // backslash
	b, ok := p.peek()
	if !ok {
		return 0, jsonerr.New(jsonerr.MissingQuote, p.in.SpanFrom(stringStart), "unterminated escape sequence")
	}
	switch b {
	case '"':
		p.in = p.in.Advance(1)
		return '"', nil
	case '\\':
		p.in = p.in.Advance(1)
		return '\\', nil
	case '/':
		p.in = p.in.Advance(1)
		return '/', nil
	case 'b':
		p.in = p.in.Advance(1)
		return '\b', nil
	case 'f':
		p.in = p.in.Advance(1)
		return '\f', nil
	case 'n':
		p.in = p.in.Advance(1)
		return '\n', nil
	case 'r':
		p.in = p.in.Advance(1)
		return '\r', nil
	case 't':
		p.in = p.in.Advance(1)
		return '\t', nil
	case 'u':
		p.in = p.in.Advance(1)
		return p.parseUnicodeEscape(stringStart)
	default:
		return 0, jsonerr.Newf(jsonerr.InvalidValue, p.in.Point(), "invalid escape character %q", b)
	}
}

func (p *parser) readHex4(stringStart sourcepos.Input) (uint16, error) {
	escStart := p.in
	var v uint16
	for i := 0; i < 4; i++ {
		b, ok := p.peek()
		if !ok {
			return 0, jsonerr.New(jsonerr.MissingQuote, p.in.SpanFrom(stringStart), "unterminated unicode escape")
		}
		var digit uint16
		switch {
		case b >= '0' && b <= '9':
			digit = uint16(b - '0')
		case b >= 'a' && b <= 'f':
			digit = uint16(b-'a') + 10
		case b >= 'A' && b <= 'F':
			digit = uint16(b-'A') + 10
		default:
			return 0, jsonerr.New(jsonerr.NotAnHex, p.in.SpanFrom(escStart), "invalid hex digit in \\u escape")
		}
		v = v<<4 | digit
		p.in = p.in.Advance(1)
	}
	return v, nil
}

const (
	surrogateHighLo = 0xD800
	surrogateHighHi = 0xDBFF
	surrogateLowLo  = 0xDC00
	surrogateLowHi  = 0xDFFF
)

func (p *parser) parseUnicodeEscape(stringStart sourcepos.Input) (rune, error) {
	unitStart := p.in
	hi, err := p.readHex4(stringStart)
	if err != nil {
		return 0, err
	}

	if hi < surrogateHighLo || hi > surrogateHighHi {
		if hi >= surrogateLowLo && hi <= surrogateLowHi {
			return 0, jsonerr.New(jsonerr.InvalidValue, p.in.SpanFrom(unitStart), "lone low surrogate in \\u escape")
		}
		return rune(hi), nil
	}

	// High surrogate: must be immediately followed by \uDC00-\uDFFF.
	if b, ok := p.peek(); !ok || b != '\\' {
		return 0, jsonerr.New(jsonerr.InvalidValue, p.in.SpanFrom(unitStart), "lone high surrogate in \\u escape")
	}
	p.in = p.in.Advance(1)
	if b, ok := p.peek(); !ok || b != 'u' {
		return 0, jsonerr.New(jsonerr.InvalidValue, p.in.SpanFrom(unitStart), "lone high surrogate in \\u escape")
	}
	p.in = p.in.Advance(1)
	lo, err := p.readHex4(stringStart)
	if err != nil {
		return 0, err
	}
	if lo < surrogateLowLo || lo > surrogateLowHi {
		return 0, jsonerr.New(jsonerr.InvalidValue, p.in.SpanFrom(unitStart), "unpaired high surrogate in \\u escape")
	}
	combined := ((rune(hi) - surrogateHighLo) << 10) | (rune(lo) - surrogateLowLo) + 0x10000
	return combined, nil
}

func (p *parser) pushDepth(openAt sourcepos.Input) error {
	p.depth++
	if p.depth > p.maxDepth {
		return jsonerr.Newf(jsonerr.InvalidValue, openAt.Point(),
			"maximum nesting depth %d exceeded", p.maxDepth)
	}
	return nil
}

func (p *parser) popDepth() { p.depth-- }

// parseArray implements the `array` production.
func (p *parser) parseArray(start sourcepos.Input) (*jsonvalue.SpannedValue, error) {
	if err := p.pushDepth(start); err != nil {
		return nil, err
	}
	defer p.popDepth()

	p.in = p.in.Advance(1) // '['
	p.skipWhitespace()

	var elems []jsonvalue.SpannedValue

	if b, ok := p.peek(); ok && b == ']' {
		end := p.consumeByte()
		return &jsonvalue.SpannedValue{Value: jsonvalue.Arr(elems), Span: sourcepos.Span{Start: start.Pos(), End: end}}, nil
	}

	for {
		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, *elem)
		p.skipWhitespace()

		b, ok := p.peek()
		if !ok {
			return nil, jsonerr.New(jsonerr.MissingArrayBracket, p.in.SpanFrom(start), "unterminated array: missing ']'")
		}
		switch b {
		case ',':
			p.in = p.in.Advance(1)
			p.skipWhitespace()
			if b, ok := p.peek(); ok && b == ']' {
				return nil, jsonerr.New(jsonerr.TrailingComma, p.in.Point(), "trailing comma before ']'")
			}
			continue
		case ']':
			end := p.consumeByte()
			return &jsonvalue.SpannedValue{Value: jsonvalue.Arr(elems), Span: sourcepos.Span{Start: start.Pos(), End: end}}, nil
		default:
			return nil, jsonerr.Newf(jsonerr.MissingComma, p.in.SpanFrom(start), "expected ',' or ']', found %q", b)
		}
	}
}

// parseObject implements the `object` and `key_value` productions.
func (p *parser) parseObject(start sourcepos.Input) (*jsonvalue.SpannedValue, error) {
	if err := p.pushDepth(start); err != nil {
		return nil, err
	}
	defer p.popDepth()

	p.in = p.in.Advance(1) // '{'
	p.skipWhitespace()

	members := map[string]jsonvalue.SpannedValue{}
	var keys []string

	if b, ok := p.peek(); ok && b == '}' {
		end := p.consumeByte()
		return &jsonvalue.SpannedValue{Value: jsonvalue.Obj(members, keys), Span: sourcepos.Span{Start: start.Pos(), End: end}}, nil
	}

	for {
		key, value, err := p.parseKeyValue(start)
		if err != nil {
			return nil, err
		}
		if _, dup := members[key]; !dup {
			keys = append(keys, key)
		}
		members[key] = *value // last write wins on duplicate keys.
		p.skipWhitespace()

		b, ok := p.peek()
		if !ok {
			return nil, jsonerr.New(jsonerr.MissingObjectBracket, p.in.SpanFrom(start), "unterminated object: missing '}'")
		}
		switch b {
		case ',':
			p.in = p.in.Advance(1)
			p.skipWhitespace()
			if b, ok := p.peek(); ok && b == '}' {
				return nil, jsonerr.New(jsonerr.TrailingComma, p.in.Point(), "trailing comma before '}'")
			}
			continue
		case '}':
			end := p.consumeByte()
			return &jsonvalue.SpannedValue{Value: jsonvalue.Obj(members, keys), Span: sourcepos.Span{Start: start.Pos(), End: end}}, nil
		default:
			return nil, jsonerr.Newf(jsonerr.MissingComma, p.in.SpanFrom(start), "expected ',' or '}', found %q", b)
		}
	}
}

// parseKeyValue implements the `key_value` production. A key that is not a
// JSON string is consumed up to the next delimiter so the whole malformed
// token (e.g. "12" in {12: "world"}) is reported as one InvalidKey, rather
// than a zero-width error that drops the offending text.
func (p *parser) parseKeyValue(objectStart sourcepos.Input) (string, *jsonvalue.SpannedValue, error) {
	keyStart := p.in
	b, ok := p.peek()
	if !ok || b != '"' {
		token, end, scanned := p.scanToDelimiter()
		if !scanned {
			_, end = p.consumeRune()
			token = string(keyStart.SliceTo(p.in))
		}
		return "", nil, jsonerr.Newf(jsonerr.InvalidKey, sourcepos.Span{Start: keyStart.Pos(), End: end},
			"object key must be a string, found %q", token)
	}
	keySV, err := p.parseString(keyStart)
	if err != nil {
		return "", nil, err
	}

	p.skipWhitespace()
	if b, ok := p.peek(); !ok || b != ':' {
		return "", nil, jsonerr.New(jsonerr.MissingColon, p.in.Point(), "expected ':' after object key")
	}
	p.in = p.in.Advance(1)
	p.skipWhitespace()

	value, err := p.parseValue()
	if err != nil {
		return "", nil, err
	}
	return keySV.Value.StringValue(), value, nil
}
