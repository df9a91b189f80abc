// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift

import (
	"fmt"
	"strconv"
)

// Kind is the type of a lexical token in the JSON grammar.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid     Kind = iota // invalid token
	Eof                     // end of input
	Null                    // constant: null
	Bool                    // constant: true or false
	String                  // quoted string
	Number                  // number
	ObjectStart             // left brace "{"
	ObjectEnd               // right brace "}"
	ArrayStart              // left square bracket "["
	ArrayEnd                // right square bracket "]"
	Comma                   // comma ","
	Colon                   // colon ":"
)

var kindStr = [...]string{
	Invalid:     "invalid token",
	Eof:         "end of input",
	Null:        "null",
	Bool:        "bool",
	String:      "string",
	Number:      "number",
	ObjectStart: `"{"`,
	ObjectEnd:   `"}"`,
	ArrayStart:  `"["`,
	ArrayEnd:    `"]"`,
	Comma:       `","`,
	Colon:       `":"`,
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[k]
}

// IsPrimitive reports whether k is the kind of a token carrying a terminal
// JSON value: Null, Bool, String, or Number.
func (k Kind) IsPrimitive() bool {
	switch k {
	case Null, Bool, String, Number:
		return true
	}
	return false
}

// A Token is a lexical unit of JSON. The payload of a token depends on its
// kind: Bool tokens carry a truth value, String tokens their decoded text,
// and Number tokens a float64 and the source text it was parsed from.
type Token struct {
	Kind Kind
	Span Span // location of the token in the stream

	text string
	num  float64
	b    bool
}

// MakeBool returns a Bool token with the given value.
func MakeBool(v bool) Token { return Token{Kind: Bool, b: v} }

// MakeString returns a String token with the given decoded text.
func MakeString(text string) Token { return Token{Kind: String, text: text} }

// MakeNumber returns a Number token with the given value.
func MakeNumber(v float64) Token { return Token{Kind: Number, num: v} }

// MakeToken returns a token of kind k with no payload.
func MakeToken(k Kind) Token { return Token{Kind: k} }

// At returns a copy of t with its span set.
func (t Token) At(pos, end int) Token { t.Span = Span{Pos: pos, End: end}; return t }

// Bool reports the value of a Bool token, and false for all others.
func (t Token) Bool() bool { return t.b }

// Text reports the decoded text of a String token, and the source text of a
// Number token produced by the lexer. It is empty for other kinds.
func (t Token) Text() string { return t.text }

// Float64 reports the value of a Number token, and 0 for all others.
func (t Token) Float64() float64 { return t.num }

func (t Token) String() string {
	switch t.Kind {
	case Bool:
		return strconv.FormatBool(t.b)
	case String:
		return strconv.Quote(t.text)
	case Number:
		if t.text != "" {
			return t.text
		}
		return strconv.FormatFloat(t.num, 'g', -1, 64)
	}
	return t.Kind.String()
}

// Equal reports whether t and u have the same kind and payload. Spans and the
// source text of numbers are not compared.
func (t Token) Equal(u Token) bool {
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case Bool:
		return t.b == u.b
	case String:
		return t.text == u.text
	case Number:
		return t.num == u.num
	}
	return true
}

// GoString renders t for diagnostics.
func (t Token) GoString() string { return fmt.Sprintf("Token(%v@%v)", t, t.Span) }
