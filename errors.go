// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsift

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is reported by the lexer for a byte that cannot begin
	// or continue any token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidTransition is reported when the input is not legal in the
	// current state of the lexer or the parser.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrStateNotFlushable is reported if the lexer is asked to emit a token
	// when none is pending. It indicates a bug in the lexer.
	ErrStateNotFlushable = errors.New("state not flushable")

	// ErrUnexpectedChar is reported by the parser for a closing token that does
	// not match the innermost open container, or an end of input inside an
	// unterminated value.
	ErrUnexpectedChar = errors.New("unexpected character")

	// ErrRegistrationClosed is reported when a path is registered after
	// parsing has begun.
	ErrRegistrationClosed = errors.New("path registration is closed")

	// ErrSourceClaimed is reported when a Source is claimed more than once.
	ErrSourceClaimed = errors.New("source already claimed")

	// ErrNotBytes is reported when a Source delivers a chunk that is not a raw
	// byte buffer.
	ErrNotBytes = errors.New("chunk is not a byte buffer")
)

// SyntaxError is the concrete type of errors reported by the lexer and the
// parser. It wraps one of the sentinel errors above, so that callers may
// compare it with errors.Is.
type SyntaxError struct {
	Location Location // where the offending input begins
	State    string   // name of the state that rejected the input
	Message  string

	err error
}

// Error satisfies the error interface. Errors reported by the parser have
// an offset but no line and column.
func (s *SyntaxError) Error() string {
	if s.Location.Line == 0 {
		return fmt.Sprintf("at offset %d: %v in state %s: %s",
			s.Location.Offset, s.err, s.State, s.Message)
	}
	return fmt.Sprintf("at %s (offset %d): %v in state %s: %s",
		s.Location.LineCol, s.Location.Offset, s.err, s.State, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
