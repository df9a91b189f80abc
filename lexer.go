// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift

import (
	"errors"
	"fmt"
	"iter"
	"strconv"

	"github.com/creachadair/jsift/internal/escape"
	"go4.org/mem"
)

// lexState is a state of the lexer automaton.
type lexState byte

const (
	stYielded lexState = iota // idle: the last token, if any, was emitted

	// Strings.
	stString   // inside a string
	stEscape   // after a reverse solidus in a string
	stUnicode1 // after \u, awaiting four hex digits
	stUnicode2
	stUnicode3
	stUnicode4

	// Numbers.
	stNegative      // leading minus sign
	stZero          // a lone leading zero
	stInteger       // integer digits
	stPoint         // decimal point, awaiting a digit
	stDecimal       // fraction digits
	stExponent      // exponent marker, awaiting a sign or digit
	stExponentSign  // exponent sign, awaiting a digit
	stExponentValue // exponent digits

	// Constants, one state per letter consumed.
	stTrue1
	stTrue2
	stTrue3
	stFalse1
	stFalse2
	stFalse3
	stFalse4
	stNull1
	stNull2
	stNull3

	// Complete literals, awaiting a flush.
	stYieldString
	stYieldNumber
	stYieldTrue
	stYieldFalse
	stYieldNull
)

var lexStateStr = [...]string{
	stYielded:       "Yielded",
	stString:        "PartialString",
	stEscape:        "EscapedChar",
	stUnicode1:      "EscapedUnicode1",
	stUnicode2:      "EscapedUnicode2",
	stUnicode3:      "EscapedUnicode3",
	stUnicode4:      "EscapedUnicode4",
	stNegative:      "PartialNumberNegative",
	stZero:          "PartialNumberZero",
	stInteger:       "PartialNumberInteger",
	stPoint:         "PartialNumberPoint",
	stDecimal:       "PartialNumberDecimal",
	stExponent:      "PartialNumberExponent",
	stExponentSign:  "PartialNumberExponentSign",
	stExponentValue: "PartialNumberExponentValue",
	stTrue1:         "PartialTrue1",
	stTrue2:         "PartialTrue2",
	stTrue3:         "PartialTrue3",
	stFalse1:        "PartialFalse1",
	stFalse2:        "PartialFalse2",
	stFalse3:        "PartialFalse3",
	stFalse4:        "PartialFalse4",
	stNull1:         "PartialNull1",
	stNull2:         "PartialNull2",
	stNull3:         "PartialNull3",
	stYieldString:   "YieldableString",
	stYieldNumber:   "YieldableNumber",
	stYieldTrue:     "YieldableTrue",
	stYieldFalse:    "YieldableFalse",
	stYieldNull:     "YieldableNull",
}

func (s lexState) String() string {
	if int(s) < len(lexStateStr) {
		return lexStateStr[s]
	}
	return fmt.Sprintf("lexState(%d)", s)
}

func (s lexState) inString() bool   { return s >= stString && s <= stUnicode4 }
func (s lexState) inNumber() bool   { return s >= stNegative && s <= stExponentValue }
func (s lexState) inConstant() bool { return s >= stTrue1 && s <= stNull3 }
func (s lexState) yieldable() bool  { return s >= stYieldString }

// numberDone reports whether s is a number state at which the number seen so
// far is complete.
func (s lexState) numberDone() bool {
	return s == stZero || s == stInteger || s == stDecimal || s == stExponentValue
}

// constantStep gives, for each partial constant state, the letter that must
// come next and the state it leads to.
var constantStep = map[lexState]struct {
	want byte
	next lexState
}{
	stTrue1:  {'r', stTrue2},
	stTrue2:  {'u', stTrue3},
	stTrue3:  {'e', stYieldTrue},
	stFalse1: {'a', stFalse2},
	stFalse2: {'l', stFalse3},
	stFalse3: {'s', stFalse4},
	stFalse4: {'e', stYieldFalse},
	stNull1:  {'u', stNull2},
	stNull2:  {'l', stNull3},
	stNull3:  {'l', stYieldNull},
}

// A Lexer turns a stream of byte chunks into a sequence of tokens. The state
// of the lexer persists across calls to Write, so that a token may be split
// across chunks at any point: the tokens produced for a stream do not depend
// on how the stream is divided into chunks.
//
// A Lexer is not safe for concurrent use.
type Lexer struct {
	state lexState
	buf   []byte // text of the pending literal
	start int    // offset where the pending literal began

	pos       int // offset of the next input byte
	line, col int // 0-based line and column of the next input byte

	out  []Token // tokens produced but not yet drained
	next int     // index of the first undelivered token in out
	rest []byte  // input held over from an abandoned Write
	err  error   // sticky error
}

// NewLexer constructs a new idle Lexer.
func NewLexer() *Lexer { return new(Lexer) }

// Write returns a sequence of the tokens completed by chunk, in order. The
// sequence is lazy: input is consumed as tokens are pulled from it. If the
// caller stops early, the unconsumed input is retained and processed before
// the next chunk.
//
// If the input is invalid, the sequence ends with an error of concrete type
// *SyntaxError. After an error, every further Write or Close reports the same
// error.
func (l *Lexer) Write(chunk []byte) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l.scan(chunk, yield)
	}
}

// Close returns a sequence of the tokens completed by the end of the stream,
// followed by a single Eof token. Only a number can be completed by the end of
// the stream; if any other literal is pending, the sequence ends with an
// error. Offsets in tokens from later calls continue from the end of the
// stream.
func (l *Lexer) Close() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		if !l.scan(nil, yield) {
			return
		}
		if err := l.finish(); err != nil {
			l.err = err
			yield(Token{}, err)
			return
		}
		if l.deliver(yield) {
			yield(MakeToken(Eof).At(l.pos, l.pos), nil)
		}
	}
}

// scan consumes any held-over input followed by chunk, delivering tokens to
// yield. It reports whether the caller should continue.
func (l *Lexer) scan(chunk []byte, yield func(Token, error) bool) bool {
	if l.err != nil {
		yield(Token{}, l.err)
		return false
	}
	data := chunk
	if len(l.rest) != 0 {
		data = append(l.rest, chunk...)
		l.rest = nil
	}
	if !l.deliver(yield) {
		l.hold(data)
		return false
	}
	for i, b := range data {
		if err := l.step(b); err != nil {
			l.err = err
			yield(Token{}, err)
			return false
		}
		if !l.deliver(yield) {
			l.hold(data[i+1:])
			return false
		}
	}
	return true
}

// hold retains a copy of unconsumed input for the next call.
func (l *Lexer) hold(data []byte) {
	if len(data) != 0 {
		l.rest = append([]byte(nil), data...)
	}
}

// deliver sends pending output tokens to yield, and reports whether all of
// them were accepted.
func (l *Lexer) deliver(yield func(Token, error) bool) bool {
	for l.next < len(l.out) {
		tok := l.out[l.next]
		l.next++
		if !yield(tok, nil) {
			return false
		}
	}
	l.out, l.next = l.out[:0], 0
	return true
}

// step advances the automaton by one input byte.
func (l *Lexer) step(b byte) error {
	if err := l.transition(b); err != nil {
		return err
	}
	var err error
	if l.state.yieldable() {
		err = l.flush(l.pos + 1)
	}
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return err
}

func (l *Lexer) transition(b byte) error {
	c := classify(b)
	if l.state.inString() {
		return l.toStringByte(b, c)
	}
	switch c {
	case classSeparator:
		return l.toSeparator(b)
	case classSpace:
		return l.toSpace()
	case classNumeric:
		return l.toNumeric(b)
	case classAlpha:
		return l.toAlpha(b)
	case classQuote:
		return l.toQuote(b)
	default:
		if l.state == stYielded {
			return l.fail(ErrInvalidToken, "unexpected %q", b)
		}
		return l.fail(ErrInvalidTransition, "unexpected %q", b)
	}
}

func (l *Lexer) toStringByte(b byte, c class) error {
	switch l.state {
	case stString:
		switch {
		case b == '"':
			l.state = stYieldString // the closing quote is not buffered
			return nil
		case b == '\\':
			l.state = stEscape
		case c == classControl || (c == classSpace && b != ' '):
			return l.fail(ErrInvalidTransition, "unescaped control %q in string", b)
		}

	case stEscape:
		switch b {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			l.state = stString
		case 'u':
			l.state = stUnicode1
		default:
			return l.fail(ErrInvalidTransition, "invalid %q after escape", b)
		}

	default: // stUnicode1 ... stUnicode4
		if !isHexDigit(b) {
			return l.fail(ErrInvalidTransition, "invalid Unicode escape: %q is not a hex digit", b)
		}
		if l.state == stUnicode4 {
			l.state = stString
		} else {
			l.state++
		}
	}
	l.buf = append(l.buf, b)
	return nil
}

func (l *Lexer) toSeparator(b byte) error {
	if err := l.endLiteral(); err != nil {
		return err
	}
	var k Kind
	switch b {
	case ',':
		k = Comma
	case ':':
		k = Colon
	case '{':
		k = ObjectStart
	case '}':
		k = ObjectEnd
	case '[':
		k = ArrayStart
	case ']':
		k = ArrayEnd
	}
	l.out = append(l.out, MakeToken(k).At(l.pos, l.pos+1))
	return nil
}

func (l *Lexer) toSpace() error { return l.endLiteral() }

// endLiteral handles a terminator (whitespace or a separator) outside a
// string. A complete number is flushed; any other partial literal is an error.
func (l *Lexer) endLiteral() error {
	switch {
	case l.state == stYielded:
		return nil
	case l.state.numberDone():
		l.state = stYieldNumber
		return l.flush(l.pos)
	case l.state.inNumber():
		return l.fail(ErrInvalidTransition, "incomplete number %q", l.buf)
	default:
		return l.fail(ErrInvalidTransition, "incomplete constant %q", l.buf)
	}
}

func (l *Lexer) toNumeric(b byte) error {
	switch l.state {
	case stYielded:
		switch {
		case b == '-':
			l.state = stNegative
		case b == '0':
			l.state = stZero
		case isDigit(b):
			l.state = stInteger
		case isExpMark(b):
			return l.toAlpha(b)
		default:
			return l.fail(ErrInvalidToken, "unexpected %q", b)
		}
		l.start = l.pos

	case stNegative:
		switch {
		case b == '0':
			l.state = stZero
		case isDigit(b):
			l.state = stInteger
		default:
			return l.fail(ErrInvalidTransition, "got %q, want digit", b)
		}

	case stZero:
		switch {
		case b == '.':
			l.state = stPoint
		case isExpMark(b):
			l.state = stExponent
		case isDigit(b):
			return l.fail(ErrInvalidTransition, "extra leading zeroes")
		default:
			return l.fail(ErrInvalidTransition, "unexpected %q after zero", b)
		}

	case stInteger:
		switch {
		case isDigit(b):
		case b == '.':
			l.state = stPoint
		case isExpMark(b):
			l.state = stExponent
		default:
			return l.fail(ErrInvalidTransition, "unexpected %q in number", b)
		}

	case stPoint:
		if !isDigit(b) {
			return l.fail(ErrInvalidTransition, "no digits after decimal point")
		}
		l.state = stDecimal

	case stDecimal:
		switch {
		case isDigit(b):
		case isExpMark(b):
			l.state = stExponent
		default:
			return l.fail(ErrInvalidTransition, "unexpected %q in fraction", b)
		}

	case stExponent:
		switch {
		case isDigit(b):
			l.state = stExponentValue
		case b == '-' || b == '+':
			l.state = stExponentSign
		default:
			return l.fail(ErrInvalidTransition, "got %q, want sign or digit", b)
		}

	case stExponentSign, stExponentValue:
		if !isDigit(b) {
			return l.fail(ErrInvalidTransition, "missing exponent digits")
		}
		l.state = stExponentValue

	default:
		if isExpMark(b) && l.state.inConstant() {
			return l.toAlpha(b) // the "e" of true or false
		}
		return l.fail(ErrInvalidTransition, "unexpected %q", b)
	}
	l.buf = append(l.buf, b)
	return nil
}

func (l *Lexer) toAlpha(b byte) error {
	switch {
	case l.state == stYielded:
		switch b {
		case 't':
			l.state = stTrue1
		case 'f':
			l.state = stFalse1
		case 'n':
			l.state = stNull1
		default:
			return l.fail(ErrInvalidToken, "unexpected %q", b)
		}
		l.start = l.pos

	case l.state.inConstant():
		step := constantStep[l.state]
		if b != step.want {
			return l.fail(ErrInvalidTransition, "unknown constant %q", append(l.buf, b))
		}
		l.state = step.next

	default:
		return l.fail(ErrInvalidTransition, "unexpected %q", b)
	}
	l.buf = append(l.buf, b)
	return nil
}

func (l *Lexer) toQuote(b byte) error {
	if l.state != stYielded {
		return l.fail(ErrInvalidTransition, "unexpected %q", b)
	} else if b == '\\' {
		return l.fail(ErrInvalidToken, "escape outside string")
	}
	l.state = stString // the opening quote is not buffered
	l.start = l.pos
	return nil
}

// finish handles the end of the stream.
func (l *Lexer) finish() error {
	switch {
	case l.state == stYielded:
		return nil
	case l.state.inString():
		return l.fail(ErrInvalidTransition, "unterminated string")
	}
	return l.endLiteral()
}

// flush emits the pending literal as a token ending at offset end, and
// returns the lexer to the idle state.
func (l *Lexer) flush(end int) error {
	var tok Token
	switch l.state {
	case stYieldTrue:
		tok = MakeBool(true)
	case stYieldFalse:
		tok = MakeBool(false)
	case stYieldNull:
		tok = MakeToken(Null)
	case stYieldNumber:
		v, err := strconv.ParseFloat(string(l.buf), 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return l.fail(ErrInvalidTransition, "number %s out of range", l.buf)
			}
			return l.fail(ErrInvalidTransition, "invalid number %q", l.buf)
		}
		tok = Token{Kind: Number, num: v, text: string(l.buf)}
	case stYieldString:
		dec, err := escape.Unquote(mem.B(l.buf))
		if err != nil {
			return l.fail(ErrInvalidTransition, "%v", err)
		}
		tok = MakeString(string(dec))
	default:
		return l.fail(ErrStateNotFlushable, "no literal is pending")
	}
	l.out = append(l.out, tok.At(l.start, end))
	l.buf = l.buf[:0]
	l.state = stYielded
	return nil
}

func (l *Lexer) fail(err error, msg string, args ...any) error {
	return &SyntaxError{
		Location: Location{Offset: l.pos, LineCol: LineCol{Line: l.line + 1, Column: l.col}},
		State:    l.state.String(),
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	}
}
