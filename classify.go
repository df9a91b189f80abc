// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift

// A class is a bucket of input bytes that the lexer treats alike.
type class byte

const (
	classOther     class = iota // anything not listed below
	classSeparator              // , : { } [ ]
	classSpace                  // space, tab, line feed, carriage return
	classAlpha                  // ASCII letters other than e and E
	classNumeric                // digits, - + . e E
	classQuote                  // quotation mark and reverse solidus
	classControl                // other bytes below 0x20
)

// classify reports the class of b.
func classify(b byte) class {
	switch {
	case isSeparator(b):
		return classSeparator
	case isSpace(b):
		return classSpace
	case isNumberRelated(b):
		return classNumeric
	case isAlpha(b):
		return classAlpha
	case b == '"' || b == '\\':
		return classQuote
	case b < ' ':
		return classControl
	}
	return classOther
}

func isSeparator(b byte) bool {
	switch b {
	case ',', ':', '{', '}', '[', ']':
		return true
	}
	return false
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isAlpha(b byte) bool { return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') }
func isDigit(b byte) bool { return '0' <= b && b <= '9' }
func isExpMark(b byte) bool { return b == 'e' || b == 'E' }

func isNumberRelated(b byte) bool {
	return isDigit(b) || isExpMark(b) || b == '-' || b == '+' || b == '.'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}
